package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"courtwatch/internal/entities"
)

var msDatePattern = regexp.MustCompile(`Date\((-?\d+)\)`)

// CourtReserveConfig identifies the facility on the CourtReserve booking
// platform.
type CourtReserveConfig struct {
	BaseURL     string
	OrgID       string
	CostTypeID  string
	SchedulerID string
	Timezone    string
	MinInterval int
}

// CourtReserveClient reads consolidated reservations from the CourtReserve
// REST endpoint. The endpoint takes a form-encoded jsonData payload and
// answers with Microsoft-style /Date(ms)/ timestamps.
type CourtReserveClient struct {
	cfg    CourtReserveConfig
	http   *http.Client
	loc    *time.Location
	logger *zap.Logger
}

func NewCourtReserveClient(cfg CourtReserveConfig, loc *time.Location, logger *zap.Logger) *CourtReserveClient {
	return &CourtReserveClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: 15 * time.Second},
		loc:    loc,
		logger: logger,
	}
}

type readConsolidatedResponse struct {
	Data []reservationRow `json:"Data"`
}

type reservationRow struct {
	ID        string `json:"Id"`
	Start     string `json:"Start"`
	End       string `json:"End"`
	CourtType string `json:"CourtType"`
	CourtIDs  []int  `json:"CourtIds"`
}

// FetchBusyIntervals posts the scheduler query for date and flattens each
// reservation row into one busy interval per court it occupies. Rows with
// unparseable timestamps are skipped rather than failing the day.
func (c *CourtReserveClient) FetchBusyIntervals(ctx context.Context, date time.Time) ([]entities.BusyInterval, error) {
	payload := map[string]interface{}{
		"startDate":              date.UTC().Format(time.RFC3339),
		"orgId":                  c.cfg.OrgID,
		"TimeZone":               c.cfg.Timezone,
		"Date":                   date.UTC().Format(http.TimeFormat),
		"KendoDate":              map[string]int{"Year": date.Year(), "Month": int(date.Month()), "Day": date.Day()},
		"UiCulture":              "en-US",
		"CostTypeId":             c.cfg.CostTypeID,
		"CustomSchedulerId":      c.cfg.SchedulerID,
		"ReservationMinInterval": strconv.Itoa(c.cfg.MinInterval),
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding scheduler query: %w", err)
	}
	form := url.Values{}
	form.Set("jsonData", string(jsonData))

	endpoint := fmt.Sprintf("%s/Online/Reservations/ReadConsolidated/%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.OrgID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building reservation request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrSourceUnavailable, resp.StatusCode, body)
	}

	var decoded readConsolidatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding reservation response: %w", err)
	}

	var busy []entities.BusyInterval
	for _, row := range decoded.Data {
		start, errStart := parseMicrosoftDate(row.Start)
		end, errEnd := parseMicrosoftDate(row.End)
		if errStart != nil || errEnd != nil {
			c.logger.Warn("skipping reservation with bad timestamps",
				zap.String("id", row.ID),
				zap.String("start", row.Start),
				zap.String("end", row.End))
			continue
		}
		for _, courtID := range row.CourtIDs {
			busy = append(busy, entities.BusyInterval{
				CourtID: courtID,
				Start:   start.In(c.loc),
				End:     end.In(c.loc),
			})
		}
	}
	return busy, nil
}

func parseMicrosoftDate(s string) (time.Time, error) {
	m := msDatePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("not a /Date(ms)/ timestamp: %q", s)
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return time.UnixMilli(ms), nil
}
