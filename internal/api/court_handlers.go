package api

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"courtwatch/internal/entities"
	"courtwatch/internal/service"
)

// CourtHandler serves the public availability endpoints.
type CourtHandler struct {
	Availability service.AvailabilityProvider
	Notify       *service.NotifyService
	Logger       *zap.Logger
}

func NewCourtHandler(availability service.AvailabilityProvider, notify *service.NotifyService, logger *zap.Logger) *CourtHandler {
	return &CourtHandler{Availability: availability, Notify: notify, Logger: logger}
}

// GetCourts returns the availability snapshot for ?daysLater=N (default 0).
// ?includeHalfHourSlots=true disables the minimum-duration filter.
func (h *CourtHandler) GetCourts(w http.ResponseWriter, r *http.Request) {
	daysLater, err := strconv.Atoi(r.URL.Query().Get("daysLater"))
	if err != nil || daysLater < 0 {
		daysLater = 0
	}
	includeHalfHour := r.URL.Query().Get("includeHalfHourSlots") == "true"

	snap, err := h.Availability.CourtsFor(r.Context(), daysLater, includeHalfHour)
	if err != nil {
		h.Logger.Error("availability check failed", zap.Int("days_later", daysLater), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch court reservations")
		return
	}
	if snap == nil {
		snap = entities.DaySnapshot{}
	}
	writeJSON(w, http.StatusOK, snap)
}

// CheckCourtsAndSendEmail runs one notification cycle and reports which of
// the three outcomes it reached.
func (h *CourtHandler) CheckCourtsAndSendEmail(w http.ResponseWriter, r *http.Request) {
	result, err := h.Notify.CheckAndNotify(r.Context())
	if err != nil {
		h.Logger.Error("check cycle failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to check courts")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: result.Outcome})
}

// LastEmailEntries returns the most recent notified snapshot per upcoming
// date.
func (h *CourtHandler) LastEmailEntries(w http.ResponseWriter, r *http.Request) {
	records, err := h.Notify.LastEmailEntries()
	if err != nil {
		h.Logger.Error("loading last email entries failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch last email entries")
		return
	}
	if records == nil {
		records = []entities.SnapshotRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
