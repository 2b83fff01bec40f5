package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"courtwatch/internal/availability"
	"courtwatch/internal/entities"
	"courtwatch/internal/source"
)

// SnapshotStore is the persistence surface the availability and notify
// services need. Implemented by repository.SnapshotRepository. LatestFresh
// considers only unfiltered cache rows (for_email = false); notified rows
// hold filtered snapshots and are reachable through LastEmailEntries alone.
type SnapshotStore interface {
	LatestFresh(dateFor string, cutoff time.Time) (*entities.SnapshotRecord, error)
	Save(dateFor string, courts entities.DaySnapshot, forEmail bool) (*entities.SnapshotRecord, error)
	LastEmailEntries(dates []string) ([]entities.SnapshotRecord, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// AvailabilityService computes per-day court availability: fetch busy
// intervals from the reservation source, complement them against the
// facility schedule, format, and filter. Computed snapshots are cached for a
// short freshness window so bursts of requests don't hammer the source.
type AvailabilityService struct {
	source         source.ReservationSource
	schedule       *availability.Schedule
	store          SnapshotStore
	roster         []int
	minSlotMinutes int
	cacheTTL       time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

func NewAvailabilityService(
	src source.ReservationSource,
	schedule *availability.Schedule,
	store SnapshotStore,
	courtCount int,
	minSlotMinutes int,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AvailabilityService {
	roster := make([]int, courtCount)
	for i := range roster {
		roster[i] = i + 1
	}
	return &AvailabilityService{
		source:         src,
		schedule:       schedule,
		store:          store,
		roster:         roster,
		minSlotMinutes: minSlotMinutes,
		cacheTTL:       cacheTTL,
		logger:         logger,
		now:            time.Now,
	}
}

// CourtsFor returns the availability snapshot for the date daysLater days
// out. includeHalfHour disables the minimum-duration filter so half-hour
// gaps survive.
func (s *AvailabilityService) CourtsFor(ctx context.Context, daysLater int, includeHalfHour bool) (entities.DaySnapshot, error) {
	now := s.now()
	hours := s.schedule.HoursFor(now, daysLater)
	dateFor := availability.DateLabel(hours.Date)

	snap, err := s.cachedOrComputed(ctx, dateFor, hours, now)
	if err != nil {
		return nil, err
	}
	if includeHalfHour {
		return snap, nil
	}
	return availability.FilterSnapshot(snap, s.minSlotMinutes, s.schedule.Location()), nil
}

// cachedOrComputed serves the unfiltered snapshot from the cache when a row
// for the date is fresh enough, otherwise recomputes and caches it. Cache
// failures degrade to recomputation instead of failing the request.
func (s *AvailabilityService) cachedOrComputed(ctx context.Context, dateFor string, hours entities.OperatingHours, now time.Time) (entities.DaySnapshot, error) {
	cached, err := s.store.LatestFresh(dateFor, now.Add(-s.cacheTTL))
	if err != nil {
		s.logger.Warn("snapshot cache lookup failed", zap.String("date_for", dateFor), zap.Error(err))
	} else if cached != nil {
		s.logger.Debug("snapshot cache hit", zap.String("date_for", dateFor), zap.Int("id", cached.ID))
		return cached.Courts, nil
	}

	busy, err := s.source.FetchBusyIntervals(ctx, hours.Date)
	if err != nil {
		return nil, fmt.Errorf("fetching reservations for %s: %w", dateFor, err)
	}
	snap := availability.ComputeDaySnapshot(s.roster, busy, hours, s.schedule.Location())

	if _, err := s.store.Save(dateFor, snap, false); err != nil {
		s.logger.Warn("snapshot cache save failed", zap.String("date_for", dateFor), zap.Error(err))
	}
	return snap, nil
}
