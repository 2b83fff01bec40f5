package availability

import (
	"fmt"
	"sort"
	"time"

	"courtwatch/internal/entities"
)

// ComputeCourtWindows returns the ordered free windows for one court on one
// date: the complement of the merged busy intervals within the day's
// effective bounds. A court with no busy intervals gets a single window
// spanning the whole effective day. When the effective start is at or past
// closing the result is empty.
func ComputeCourtWindows(courtID int, busy []entities.BusyInterval, hours entities.OperatingHours) []entities.AvailableWindow {
	cursor := hours.EffectiveStart()
	if !cursor.Before(hours.Close) {
		return nil
	}

	var windows []entities.AvailableWindow
	for _, b := range MergeIntervals(busy) {
		if !b.End.After(cursor) {
			continue
		}
		if !b.Start.Before(hours.Close) {
			break
		}
		if cursor.Before(b.Start) {
			end := b.Start
			if end.After(hours.Close) {
				end = hours.Close
			}
			windows = append(windows, entities.AvailableWindow{CourtID: courtID, Start: cursor, End: end})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
		if !cursor.Before(hours.Close) {
			return windows
		}
	}
	if cursor.Before(hours.Close) {
		windows = append(windows, entities.AvailableWindow{CourtID: courtID, Start: cursor, End: hours.Close})
	}
	return windows
}

// ComputeDaySnapshot fans the per-court computation out across every court in
// the roster plus any court present in the busy list, and formats the results
// sorted by numeric court id ascending. Courts that are fully booked (or
// fully past on a same-day query) still appear, with an empty list.
func ComputeDaySnapshot(roster []int, busy []entities.BusyInterval, hours entities.OperatingHours, loc *time.Location) entities.DaySnapshot {
	byCourt := make(map[int][]entities.BusyInterval)
	for _, id := range roster {
		byCourt[id] = nil
	}
	for _, b := range busy {
		byCourt[b.CourtID] = append(byCourt[b.CourtID], b)
	}

	ids := make([]int, 0, len(byCourt))
	for id := range byCourt {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	snapshot := make(entities.DaySnapshot, 0, len(ids))
	for _, id := range ids {
		windows := ComputeCourtWindows(id, byCourt[id], hours)
		formatted := make([]string, 0, len(windows))
		for _, w := range windows {
			formatted = append(formatted, fmt.Sprintf("%s to %s", FormatClockTime(w.Start, loc), FormatClockTime(w.End, loc)))
		}
		snapshot = append(snapshot, entities.CourtAvailability{
			Court:     fmt.Sprintf("Court #%d", id),
			Available: formatted,
		})
	}
	return snapshot
}
