package entities

import "time"

// BusyInterval is one confirmed reservation block on a single court.
// Intervals for the same court may overlap or abut; the availability engine
// merges them before computing free windows.
type BusyInterval struct {
	CourtID int       `json:"court_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// OperatingHours bounds the bookable window for one calendar date in the
// facility's local timezone. NowClamp is zero unless the date is the current
// day, in which case it holds the next half-hour boundary after "now".
type OperatingHours struct {
	Date     time.Time
	Open     time.Time
	Close    time.Time
	NowClamp time.Time
}

// EffectiveStart returns the earliest instant a free window may begin: the
// opening time, pushed forward by the now clamp on same-day queries.
func (h OperatingHours) EffectiveStart() time.Time {
	if !h.NowClamp.IsZero() && h.NowClamp.After(h.Open) {
		return h.NowClamp
	}
	return h.Open
}

// AvailableWindow is one open time range on a court, before formatting.
// Always satisfies Start < End and lies within the day's effective bounds.
type AvailableWindow struct {
	CourtID int
	Start   time.Time
	End     time.Time
}
