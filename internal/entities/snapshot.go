package entities

import "time"

// CourtAvailability is the availability of one court for one day, formatted
// for API responses and email content. Available holds "start to end" strings
// in the facility's 12-hour clock.
type CourtAvailability struct {
	Court     string   `json:"court"`
	Available []string `json:"available"`
}

// DaySnapshot is the availability of every court for one calendar date,
// sorted by numeric court id ascending.
type DaySnapshot []CourtAvailability

// HasAvailability reports whether any court has at least one open window.
func (d DaySnapshot) HasAvailability() bool {
	for _, court := range d {
		if len(court.Available) > 0 {
			return true
		}
	}
	return false
}

// MultiDaySnapshot indexes day snapshots by offset from today (0..N-1).
type MultiDaySnapshot map[int]DaySnapshot

// HasAvailability reports whether any day has at least one open window.
func (m MultiDaySnapshot) HasAvailability() bool {
	for _, day := range m {
		if day.HasAvailability() {
			return true
		}
	}
	return false
}

// SnapshotRecord is one persisted court_lists row.
type SnapshotRecord struct {
	ID        int         `json:"id"`
	DateFor   string      `json:"date_for"`
	Courts    DaySnapshot `json:"court_list"`
	ForEmail  bool        `json:"for_email"`
	CreatedAt time.Time   `json:"created_at"`
}
