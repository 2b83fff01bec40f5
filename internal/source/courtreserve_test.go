package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.HandlerFunc) *CourtReserveClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	return NewCourtReserveClient(CourtReserveConfig{
		BaseURL:     server.URL,
		OrgID:       "5881",
		CostTypeID:  "78549",
		SchedulerID: "294",
		Timezone:    "America/New_York",
		MinInterval: 30,
	}, loc, zap.NewNop())
}

func TestFetchBusyIntervals(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/Online/Reservations/ReadConsolidated/5881", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.NotEmpty(t, r.PostForm.Get("jsonData"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Data":[
			{"Id":"r1","Start":"/Date(1748948400000)/","End":"/Date(1748955600000)/","CourtType":"Hard","CourtIds":[1,2]},
			{"Id":"r2","Start":"/Date(1748955600000)/","End":"/Date(1748959200000)/","CourtType":"Hard","CourtIds":[5]}
		]}`))
	})

	busy, err := client.FetchBusyIntervals(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, busy, 3)

	assert.Equal(t, 1, busy[0].CourtID)
	assert.Equal(t, 2, busy[1].CourtID)
	assert.Equal(t, 5, busy[2].CourtID)
	assert.True(t, busy[0].Start.Equal(time.UnixMilli(1748948400000)))
	assert.True(t, busy[0].End.Equal(time.UnixMilli(1748955600000)))
	assert.Equal(t, 2*time.Hour, busy[0].End.Sub(busy[0].Start))
}

func TestFetchBusyIntervalsSkipsBadTimestamps(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Data":[
			{"Id":"bad","Start":"garbage","End":"/Date(1748955600000)/","CourtIds":[1]},
			{"Id":"ok","Start":"/Date(1748948400000)/","End":"/Date(1748955600000)/","CourtIds":[3]}
		]}`))
	})

	busy, err := client.FetchBusyIntervals(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.Equal(t, 3, busy[0].CourtID)
}

func TestFetchBusyIntervalsServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := client.FetchBusyIntervals(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestFetchBusyIntervalsMalformedBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.FetchBusyIntervals(context.Background(), time.Now())
	assert.Error(t, err)
}

func TestParseMicrosoftDate(t *testing.T) {
	got, err := parseMicrosoftDate("/Date(1748948400000)/")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.UnixMilli(1748948400000)))

	_, err = parseMicrosoftDate("2025-06-03T11:00:00Z")
	assert.Error(t, err)

	_, err = parseMicrosoftDate("")
	assert.Error(t, err)
}
