// Package snapshot decides whether a freshly computed availability snapshot
// is worth notifying about, by comparing it against the last snapshot that
// triggered an email.
package snapshot

import (
	"regexp"

	"courtwatch/internal/entities"
)

var nonDigits = regexp.MustCompile(`\D`)

// HasNewAvailability reports whether current contains availability absent
// from last: a new day with open windows, a court with open windows that last
// did not list for that day, or any formatted time-range string not already
// in last's set for the matching court. Courts are matched by numeric id
// regardless of label formatting. A nil or empty last snapshot always counts
// as new (first run).
//
// The comparison is a per-court string-set membership test, not a semantic
// interval overlap: "5:00 PM to 6:00 PM" is new even when last reported
// "4:00 PM to 7:00 PM", and a strict subset of last's windows is not new.
func HasNewAvailability(current, last entities.MultiDaySnapshot) bool {
	if len(last) == 0 {
		return true
	}

	for offset, day := range current {
		lastDay, ok := last[offset]
		if !ok {
			if day.HasAvailability() {
				return true
			}
			continue
		}

		known := indexByCourt(lastDay)
		for _, court := range day {
			if len(court.Available) == 0 {
				continue
			}
			seen, ok := known[NormalizeCourtID(court.Court)]
			if !ok {
				return true
			}
			for _, slot := range court.Available {
				if _, dup := seen[slot]; !dup {
					return true
				}
			}
		}
	}
	return false
}

// NormalizeCourtID strips everything but digits, so "Court #3", "court 3"
// and "3" all match.
func NormalizeCourtID(court string) string {
	return nonDigits.ReplaceAllString(court, "")
}

func indexByCourt(day entities.DaySnapshot) map[string]map[string]struct{} {
	idx := make(map[string]map[string]struct{}, len(day))
	for _, court := range day {
		slots, ok := idx[NormalizeCourtID(court.Court)]
		if !ok {
			slots = make(map[string]struct{}, len(court.Available))
			idx[NormalizeCourtID(court.Court)] = slots
		}
		for _, s := range court.Available {
			slots[s] = struct{}{}
		}
	}
	return idx
}
