package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"courtwatch/internal/entities"
)

func sampleSnapshot() entities.MultiDaySnapshot {
	return entities.MultiDaySnapshot{
		0: {
			{Court: "Court #1", Available: []string{"8:00 AM to 9:00 AM", "10:00 AM to 10:00 PM"}},
			{Court: "Court #2", Available: []string{"1:00 PM to 2:00 PM"}},
		},
		1: {
			{Court: "Court #3", Available: []string{"11:00 AM to 12:00 PM"}},
		},
		2: {},
	}
}

func TestHasNewAvailabilityFirstRun(t *testing.T) {
	assert.True(t, HasNewAvailability(sampleSnapshot(), nil))
	assert.True(t, HasNewAvailability(sampleSnapshot(), entities.MultiDaySnapshot{}))
}

func TestHasNewAvailabilityIdenticalSnapshots(t *testing.T) {
	assert.False(t, HasNewAvailability(sampleSnapshot(), sampleSnapshot()))
}

func TestHasNewAvailabilityNewCourt(t *testing.T) {
	last := sampleSnapshot()
	current := sampleSnapshot()
	current[0] = append(current[0], entities.CourtAvailability{
		Court:     "Court #3",
		Available: []string{"5:00 PM to 6:00 PM"},
	})
	assert.True(t, HasNewAvailability(current, last))
}

func TestHasNewAvailabilityNewEmptyCourtIsNotNew(t *testing.T) {
	last := sampleSnapshot()
	current := sampleSnapshot()
	current[0] = append(current[0], entities.CourtAvailability{Court: "Court #7", Available: nil})
	assert.False(t, HasNewAvailability(current, last))
}

func TestHasNewAvailabilityNewDay(t *testing.T) {
	last := sampleSnapshot()
	delete(last, 1)
	assert.True(t, HasNewAvailability(sampleSnapshot(), last))
}

func TestHasNewAvailabilityNewDayWithoutWindows(t *testing.T) {
	last := sampleSnapshot()
	delete(last, 2)
	current := sampleSnapshot()
	current[2] = entities.DaySnapshot{{Court: "Court #1", Available: []string{}}}
	assert.False(t, HasNewAvailability(current, last))
}

func TestHasNewAvailabilityNewWindowString(t *testing.T) {
	last := sampleSnapshot()
	current := sampleSnapshot()
	current[0][1].Available = []string{"1:00 PM to 2:00 PM", "2:00 PM to 3:00 PM"}
	assert.True(t, HasNewAvailability(current, last))
}

func TestHasNewAvailabilitySubsetIsNotNew(t *testing.T) {
	last := sampleSnapshot()
	last[0][1].Available = []string{"1:00 PM to 2:00 PM", "2:00 PM to 3:00 PM"}
	current := sampleSnapshot()
	current[0][1].Available = []string{"1:00 PM to 2:00 PM"}
	assert.False(t, HasNewAvailability(current, last))
}

func TestHasNewAvailabilityMatchesCourtsByNumericID(t *testing.T) {
	last := entities.MultiDaySnapshot{
		0: {{Court: "2", Available: []string{"1:00 PM to 2:00 PM"}}},
	}
	current := entities.MultiDaySnapshot{
		0: {{Court: "Court #2", Available: []string{"1:00 PM to 2:00 PM"}}},
	}
	assert.False(t, HasNewAvailability(current, last))
}

func TestNormalizeCourtID(t *testing.T) {
	assert.Equal(t, "3", NormalizeCourtID("Court #3"))
	assert.Equal(t, "3", NormalizeCourtID("court 3"))
	assert.Equal(t, "12", NormalizeCourtID("12"))
	assert.Equal(t, "", NormalizeCourtID("center"))
}
