package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/argamanevents/event-ai-platform/pkg/logging"
)

// EventRecorder receives fire-and-forget observability events.
type EventRecorder interface {
	Record(ctx context.Context, event, sessionID string, data map[string]any)
}

// Handler exposes the direct booking endpoints used by the chat widget.
type Handler struct {
	creator    EventCreator
	pinger     Pinger
	calendarID string
	events     EventRecorder
	logger     *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(creator EventCreator, pinger Pinger, calendarID string, events EventRecorder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		creator:    creator,
		pinger:     pinger,
		calendarID: calendarID,
		events:     events,
		logger:     logger,
	}
}

type createEventRequest struct {
	ThreadID    string `json:"threadId"`
	Date        string `json:"date"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

func (r *createEventRequest) validate() string {
	if strings.TrimSpace(r.ThreadID) == "" || len(r.ThreadID) > 128 {
		return "threadId_required"
	}
	if strings.TrimSpace(r.Date) == "" || len(r.Date) > 64 {
		return "date_required"
	}
	return ""
}

// CreateEvent handles POST /api/calendar/event.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_body"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": msg})
		return
	}
	if h.creator == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "calendar_unconfigured"})
		return
	}

	eventID, err := h.creator.CreateEvent(r.Context(), req.Date, req.Summary, req.Description)
	if err != nil {
		h.logger.Error("calendar event failed", "thread_id", req.ThreadID, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, ErrBadDate) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]any{"error": "calendar_error"})
		return
	}

	if h.events != nil {
		h.events.Record(r.Context(), "calendar_event", req.ThreadID, map[string]any{
			"date":     req.Date,
			"summary":  req.Summary,
			"event_id": eventID,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "eventId": eventID})
}

// Ping handles GET /api/calendar/ping.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	calendarOk := h.pinger != nil
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.logger.Error("calendar ping failed", "error", err)
			calendarOk = false
		}
	}
	payload := map[string]any{"ok": true, "calendarOk": calendarOk}
	if h.calendarID != "" {
		payload["calendarId"] = h.calendarID
	} else {
		payload["calendarId"] = nil
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
