package availability

import (
	"strings"
	"time"

	"courtwatch/internal/entities"
)

// FilterSnapshot drops every formatted window whose duration does not exceed
// minMinutes. The comparison is strict: an exactly-30-minute window is removed
// at the default threshold of 30. Durations are re-derived by parsing the
// "start to end" strings, so the filter holds the engine's formatting to the
// same contract the parser enforces. Order is preserved; entries are only
// removed, never reshuffled. A non-positive threshold disables filtering.
func FilterSnapshot(snap entities.DaySnapshot, minMinutes int, loc *time.Location) entities.DaySnapshot {
	if minMinutes <= 0 {
		return snap
	}
	ref := time.Date(2000, time.January, 1, 0, 0, 0, 0, loc)

	filtered := make(entities.DaySnapshot, 0, len(snap))
	for _, court := range snap {
		kept := make([]string, 0, len(court.Available))
		for _, slot := range court.Available {
			if windowMinutes(slot, ref) > minMinutes {
				kept = append(kept, slot)
			}
		}
		filtered = append(filtered, entities.CourtAvailability{Court: court.Court, Available: kept})
	}
	return filtered
}

func windowMinutes(slot string, ref time.Time) int {
	parts := strings.SplitN(slot, " to ", 2)
	if len(parts) != 2 {
		return 0
	}
	start, err := ParseClockTime(parts[0], ref)
	if err != nil {
		return 0
	}
	end, err := ParseClockTime(parts[1], ref)
	if err != nil {
		return 0
	}
	mins, err := DurationMinutes(start, end)
	if err != nil {
		return 0
	}
	return mins
}
