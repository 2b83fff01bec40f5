package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"courtwatch/internal/availability"
	"courtwatch/internal/entities"
)

type stubProvider struct {
	days map[int]entities.DaySnapshot
	err  error
}

func (p *stubProvider) CourtsFor(_ context.Context, daysLater int, _ bool) (entities.DaySnapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.days[daysLater], nil
}

type stubSnapshotStore struct {
	fresh      *entities.SnapshotRecord
	freshErr   error
	lastEmail  []entities.SnapshotRecord
	saved      []entities.SnapshotRecord
	saveErr    error
	deletedCut time.Time
}

func (s *stubSnapshotStore) LatestFresh(string, time.Time) (*entities.SnapshotRecord, error) {
	return s.fresh, s.freshErr
}

func (s *stubSnapshotStore) Save(dateFor string, courts entities.DaySnapshot, forEmail bool) (*entities.SnapshotRecord, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	rec := entities.SnapshotRecord{
		ID:       len(s.saved) + 1,
		DateFor:  dateFor,
		Courts:   courts,
		ForEmail: forEmail,
	}
	s.saved = append(s.saved, rec)
	return &rec, nil
}

func (s *stubSnapshotStore) LastEmailEntries([]string) ([]entities.SnapshotRecord, error) {
	return s.lastEmail, nil
}

func (s *stubSnapshotStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	s.deletedCut = cutoff
	return 0, nil
}

type stubSubscribers struct {
	subs []entities.Subscriber
	err  error
}

func (s *stubSubscribers) List() ([]entities.Subscriber, error) { return s.subs, s.err }

type stubNotifier struct {
	calls      int
	data       entities.AvailabilityEmailData
	recipients []entities.Subscriber
	err        error
}

func (n *stubNotifier) Notify(data entities.AvailabilityEmailData, recipients []entities.Subscriber) error {
	n.calls++
	n.data = data
	n.recipients = recipients
	return n.err
}

func notifyFixture(t *testing.T, provider *stubProvider, store *stubSnapshotStore, notifiers ...Notifier) *NotifyService {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	schedule, err := availability.NewSchedule(loc, "7:00 AM", "11:00 PM", "8:00 AM", "10:00 PM")
	require.NoError(t, err)

	subs := &stubSubscribers{subs: []entities.Subscriber{{ID: 1, Email: "player@example.com"}}}
	svc := NewNotifyService(provider, store, subs, notifiers, schedule, 2, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 2, 10, 0, 0, 0, loc)
	}
	return svc
}

func openDay() entities.DaySnapshot {
	return entities.DaySnapshot{
		{Court: "Court #1", Available: []string{"9:00 AM to 11:00 AM"}},
		{Court: "Court #2", Available: []string{}},
	}
}

func bookedDay() entities.DaySnapshot {
	return entities.DaySnapshot{
		{Court: "Court #1", Available: []string{}},
		{Court: "Court #2", Available: []string{}},
	}
}

func TestCheckAndNotifyNoAvailableSlots(t *testing.T) {
	provider := &stubProvider{days: map[int]entities.DaySnapshot{0: bookedDay(), 1: bookedDay()}}
	store := &stubSnapshotStore{}
	notifier := &stubNotifier{}
	svc := notifyFixture(t, provider, store, notifier)

	result, err := svc.CheckAndNotify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoSlots, result.Outcome)
	assert.Zero(t, notifier.calls)
	assert.Empty(t, store.saved)
}

func TestCheckAndNotifyFirstRunSends(t *testing.T) {
	provider := &stubProvider{days: map[int]entities.DaySnapshot{0: openDay(), 1: bookedDay()}}
	store := &stubSnapshotStore{}
	notifier := &stubNotifier{}
	svc := notifyFixture(t, provider, store, notifier)

	result, err := svc.CheckAndNotify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSent, result.Outcome)

	assert.Equal(t, 1, notifier.calls)
	require.Len(t, notifier.recipients, 1)
	assert.Equal(t, "player@example.com", notifier.recipients[0].Email)
	require.Len(t, notifier.data.Days, 1)
	assert.Equal(t, "Monday, Mar 2", notifier.data.Days[0].Label)

	require.Len(t, store.saved, 2)
	for _, rec := range store.saved {
		assert.True(t, rec.ForEmail)
	}
	assert.Equal(t, "Monday, Mar 2", store.saved[0].DateFor)
	assert.Equal(t, "Tuesday, Mar 3", store.saved[1].DateFor)
}

func TestCheckAndNotifyUnchangedSnapshotSkipsSend(t *testing.T) {
	provider := &stubProvider{days: map[int]entities.DaySnapshot{0: openDay(), 1: bookedDay()}}
	store := &stubSnapshotStore{
		lastEmail: []entities.SnapshotRecord{
			{DateFor: "Monday, Mar 2", Courts: openDay(), ForEmail: true},
			{DateFor: "Tuesday, Mar 3", Courts: bookedDay(), ForEmail: true},
		},
	}
	notifier := &stubNotifier{}
	svc := notifyFixture(t, provider, store, notifier)

	result, err := svc.CheckAndNotify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoNew, result.Outcome)
	assert.Zero(t, notifier.calls)
	assert.Empty(t, store.saved)
}

func TestCheckAndNotifyNewWindowTriggersSend(t *testing.T) {
	current := openDay()
	current[0].Available = append(current[0].Available, "2:00 PM to 4:00 PM")
	provider := &stubProvider{days: map[int]entities.DaySnapshot{0: current, 1: bookedDay()}}
	store := &stubSnapshotStore{
		lastEmail: []entities.SnapshotRecord{
			{DateFor: "Monday, Mar 2", Courts: openDay(), ForEmail: true},
		},
	}
	notifier := &stubNotifier{}
	svc := notifyFixture(t, provider, store, notifier)

	result, err := svc.CheckAndNotify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSent, result.Outcome)
	assert.Equal(t, 1, notifier.calls)
}

func TestCheckAndNotifyProviderFailureAborts(t *testing.T) {
	provider := &stubProvider{err: errors.New("source down")}
	store := &stubSnapshotStore{}
	notifier := &stubNotifier{}
	svc := notifyFixture(t, provider, store, notifier)

	_, err := svc.CheckAndNotify(context.Background())
	require.Error(t, err)
	assert.Zero(t, notifier.calls)
	assert.Empty(t, store.saved)
}

func TestCheckAndNotifyNoNotifiersConfigured(t *testing.T) {
	// New availability with nothing able to deliver it must fail the cycle
	// rather than persist for_email rows that would suppress future sends.
	provider := &stubProvider{days: map[int]entities.DaySnapshot{0: openDay(), 1: bookedDay()}}
	store := &stubSnapshotStore{}
	svc := notifyFixture(t, provider, store)

	_, err := svc.CheckAndNotify(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.saved)
}

func TestCheckAndNotifyAllNotifiersFailing(t *testing.T) {
	provider := &stubProvider{days: map[int]entities.DaySnapshot{0: openDay(), 1: bookedDay()}}
	store := &stubSnapshotStore{}
	failing := &stubNotifier{err: errors.New("smtp refused")}
	alsoFailing := &stubNotifier{err: errors.New("sms refused")}
	svc := notifyFixture(t, provider, store, failing, alsoFailing)

	_, err := svc.CheckAndNotify(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.saved)
}

func TestCheckAndNotifyPartialNotifierFailureStillSends(t *testing.T) {
	provider := &stubProvider{days: map[int]entities.DaySnapshot{0: openDay(), 1: bookedDay()}}
	store := &stubSnapshotStore{}
	failing := &stubNotifier{err: errors.New("sms refused")}
	working := &stubNotifier{}
	svc := notifyFixture(t, provider, store, failing, working)

	result, err := svc.CheckAndNotify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSent, result.Outcome)
	assert.Equal(t, 1, working.calls)
	assert.Len(t, store.saved, 2)
}

func TestBuildDigestSkipsEmptyDaysAndCourts(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, loc)

	snap := entities.MultiDaySnapshot{
		0: openDay(),
		1: bookedDay(),
		2: {{Court: "Court #3", Available: []string{"1:00 PM to 3:00 PM"}}},
	}

	digest := BuildDigest(snap, now, 3)
	require.Len(t, digest.Days, 2)

	assert.Equal(t, "Monday, Mar 2", digest.Days[0].Label)
	require.Len(t, digest.Days[0].Courts, 1)
	assert.Equal(t, "Court #1", digest.Days[0].Courts[0].Court)

	assert.Equal(t, "Wednesday, Mar 4", digest.Days[1].Label)
}
