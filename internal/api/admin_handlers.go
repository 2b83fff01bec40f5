package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apperrors "courtwatch/internal/errors"
	"courtwatch/internal/service"
)

// AdminHandler serves the JWT-protected subscriber management endpoints.
type AdminHandler struct {
	Subscribers *service.SubscriberService
	Logger      *zap.Logger
}

func NewAdminHandler(subscribers *service.SubscriberService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Subscribers: subscribers, Logger: logger}
}

func (h *AdminHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Subscribers.List()
	if err != nil {
		h.Logger.Error("listing subscribers failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *AdminHandler) AddSubscriber(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	sub, err := h.Subscribers.Subscribe(req.Email)
	if err != nil {
		var httpErr *apperrors.HTTPError
		if errors.As(err, &httpErr) {
			writeError(w, httpErr.Code, httpErr.Message)
			return
		}
		h.Logger.Error("adding subscriber failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *AdminHandler) RemoveSubscriber(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	if err := h.Subscribers.Unsubscribe(email); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Subscriber removed"})
}
