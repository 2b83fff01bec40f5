package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"courtwatch/internal/availability"
	"courtwatch/internal/entities"
	"courtwatch/internal/snapshot"
)

// Outcomes of one notification cycle. Only the first one sends anything.
const (
	OutcomeSent    = "notification sent"
	OutcomeNoSlots = "no available slots"
	OutcomeNoNew   = "no new availability"
)

// AvailabilityProvider is the slice of AvailabilityService the notify cycle
// depends on.
type AvailabilityProvider interface {
	CourtsFor(ctx context.Context, daysLater int, includeHalfHour bool) (entities.DaySnapshot, error)
}

// SubscriberStore lists notification recipients. Implemented by
// repository.SubscriberRepository.
type SubscriberStore interface {
	List() ([]entities.Subscriber, error)
}

// Notifier delivers an availability digest to subscribers. Implementations
// own templating and transport; the orchestrator only hands them content.
type Notifier interface {
	Notify(data entities.AvailabilityEmailData, recipients []entities.Subscriber) error
}

// CheckResult reports one notification cycle.
type CheckResult struct {
	Outcome  string                    `json:"outcome"`
	Snapshot entities.MultiDaySnapshot `json:"snapshot"`
}

// NotifyService runs the check-and-notify cycle: compute availability for the
// next few days, compare against the last notified snapshot, and fan the
// digest out to every notifier when something new shows up.
type NotifyService struct {
	provider  AvailabilityProvider
	store     SnapshotStore
	subs      SubscriberStore
	notifiers []Notifier
	schedule  *availability.Schedule
	daysAhead int
	logger    *zap.Logger
	now       func() time.Time
}

func NewNotifyService(
	provider AvailabilityProvider,
	store SnapshotStore,
	subs SubscriberStore,
	notifiers []Notifier,
	schedule *availability.Schedule,
	daysAhead int,
	logger *zap.Logger,
) *NotifyService {
	return &NotifyService{
		provider:  provider,
		store:     store,
		subs:      subs,
		notifiers: notifiers,
		schedule:  schedule,
		daysAhead: daysAhead,
		logger:    logger,
		now:       time.Now,
	}
}

// CheckAndNotify performs one full cycle. The per-day fetches run
// concurrently; any failure aborts the whole cycle so a partial picture is
// never notified.
func (s *NotifyService) CheckAndNotify(ctx context.Context) (*CheckResult, error) {
	now := s.now()

	days := make([]entities.DaySnapshot, s.daysAhead)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < s.daysAhead; i++ {
		i := i
		g.Go(func() error {
			day, err := s.provider.CourtsFor(gctx, i, false)
			if err != nil {
				return err
			}
			days[i] = day
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("checking availability: %w", err)
	}

	current := make(entities.MultiDaySnapshot, s.daysAhead)
	for i, day := range days {
		current[i] = day
	}

	if !current.HasAvailability() {
		s.logger.Info("check cycle complete", zap.String("outcome", OutcomeNoSlots))
		return &CheckResult{Outcome: OutcomeNoSlots, Snapshot: current}, nil
	}

	last, err := s.lastNotified(now)
	if err != nil {
		return nil, fmt.Errorf("loading last notified snapshot: %w", err)
	}
	if !snapshot.HasNewAvailability(current, last) {
		s.logger.Info("check cycle complete", zap.String("outcome", OutcomeNoNew))
		return &CheckResult{Outcome: OutcomeNoNew, Snapshot: current}, nil
	}

	if err := s.send(now, current); err != nil {
		return nil, err
	}

	for offset := 0; offset < s.daysAhead; offset++ {
		dateFor := availability.DateLabel(s.schedule.HoursFor(now, offset).Date)
		if _, err := s.store.Save(dateFor, current[offset], true); err != nil {
			s.logger.Error("failed to persist notified snapshot",
				zap.String("date_for", dateFor), zap.Error(err))
		}
	}

	s.logger.Info("check cycle complete", zap.String("outcome", OutcomeSent))
	return &CheckResult{Outcome: OutcomeSent, Snapshot: current}, nil
}

// LastEmailEntries exposes the persisted notification history for the next
// daysAhead dates.
func (s *NotifyService) LastEmailEntries() ([]entities.SnapshotRecord, error) {
	return s.store.LastEmailEntries(s.dateLabels(s.now()))
}

func (s *NotifyService) send(now time.Time, current entities.MultiDaySnapshot) error {
	if len(s.notifiers) == 0 {
		return fmt.Errorf("new availability found but no notifiers are configured")
	}
	recipients, err := s.subs.List()
	if err != nil {
		return fmt.Errorf("loading subscribers: %w", err)
	}
	if len(recipients) == 0 {
		s.logger.Warn("new availability found but there are no subscribers")
	}

	digest := BuildDigest(current, now.In(s.schedule.Location()), s.daysAhead)
	var sendErrs []error
	for _, n := range s.notifiers {
		if err := n.Notify(digest, recipients); err != nil {
			sendErrs = append(sendErrs, err)
		}
	}
	if len(sendErrs) == len(s.notifiers) {
		return fmt.Errorf("all notifiers failed: %w", errors.Join(sendErrs...))
	}
	for _, err := range sendErrs {
		s.logger.Error("notifier failed", zap.Error(err))
	}
	return nil
}

// lastNotified rebuilds the last-notified multi-day snapshot from the
// persisted rows, keyed back to day offsets by date label.
func (s *NotifyService) lastNotified(now time.Time) (entities.MultiDaySnapshot, error) {
	labels := s.dateLabels(now)
	records, err := s.store.LastEmailEntries(labels)
	if err != nil {
		return nil, err
	}

	offsetByLabel := make(map[string]int, len(labels))
	for offset, label := range labels {
		offsetByLabel[label] = offset
	}

	last := make(entities.MultiDaySnapshot)
	for _, rec := range records {
		if offset, ok := offsetByLabel[rec.DateFor]; ok {
			last[offset] = rec.Courts
		}
	}
	return last, nil
}

func (s *NotifyService) dateLabels(now time.Time) []string {
	labels := make([]string, s.daysAhead)
	for offset := range labels {
		labels[offset] = availability.DateLabel(s.schedule.HoursFor(now, offset).Date)
	}
	return labels
}

// BuildDigest trims a multi-day snapshot down to the days and courts that
// actually have open windows and labels each day for display.
func BuildDigest(snap entities.MultiDaySnapshot, now time.Time, daysAhead int) entities.AvailabilityEmailData {
	var data entities.AvailabilityEmailData
	for offset := 0; offset < daysAhead; offset++ {
		day, ok := snap[offset]
		if !ok || !day.HasAvailability() {
			continue
		}
		courts := make([]entities.CourtAvailability, 0, len(day))
		for _, court := range day {
			if len(court.Available) > 0 {
				courts = append(courts, court)
			}
		}
		data.Days = append(data.Days, entities.EmailDay{
			Label:  availability.DateLabel(now.AddDate(0, 0, offset)),
			Courts: courts,
		})
	}
	return data
}
