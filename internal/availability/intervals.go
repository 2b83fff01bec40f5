package availability

import (
	"sort"

	"courtwatch/internal/entities"
)

// MergeIntervals sorts busy intervals by start and collapses overlapping or
// abutting ones into a disjoint, ordered list. The input may be empty,
// unsorted, and contain duplicates. Intervals with end <= start are dropped so
// a single bad record cannot blank out a whole day. The input slice is left
// untouched.
func MergeIntervals(intervals []entities.BusyInterval) []entities.BusyInterval {
	valid := make([]entities.BusyInterval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.End.After(iv.Start) {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Start.Before(valid[j].Start) })

	merged := []entities.BusyInterval{valid[0]}
	for _, iv := range valid[1:] {
		last := &merged[len(merged)-1]
		if iv.Start.After(last.End) {
			merged = append(merged, iv)
			continue
		}
		if iv.End.After(last.End) {
			last.End = iv.End
		}
	}
	return merged
}
