package db

import "time"

// CourtList is one row of the court_lists snapshot cache. CourtList holds the
// day's availability as a JSON document.
type CourtList struct {
	ID        int
	CourtList string
	DateFor   string
	ForEmail  bool
	CreatedAt time.Time
}

// Subscriber is one row of the subscribers table.
type Subscriber struct {
	ID        int
	Email     string
	CreatedAt time.Time
}
