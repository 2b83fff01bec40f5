// Package source fetches the confirmed reservation blocks that the
// availability engine complements. Implementations normalize whatever the
// upstream system speaks (REST, scrape) into busy intervals with absolute
// timestamps.
package source

import (
	"context"
	"errors"
	"time"

	"courtwatch/internal/entities"
)

// ErrSourceUnavailable wraps fetch failures. The computation for that date is
// abandoned; retry policy belongs to the scheduler, not here.
var ErrSourceUnavailable = errors.New("reservation source unavailable")

// ReservationSource yields the booking blocks for one calendar date.
type ReservationSource interface {
	FetchBusyIntervals(ctx context.Context, date time.Time) ([]entities.BusyInterval, error)
}
