package leads

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/argamanevents/event-ai-platform/pkg/logging"
)

// EventRecorder mirrors the conversation event log so lead submissions
// land in the same audit trail.
type EventRecorder interface {
	Record(ctx context.Context, event, threadID string, data map[string]any)
}

// Handler serves lead submissions from the chat widget.
type Handler struct {
	repo   *Repository
	events EventRecorder
	logger *logging.Logger
}

func NewHandler(repo *Repository, events EventRecorder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, events: events, logger: logger}
}

// Create handles POST /api/lead.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request"})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_contact"})
		return
	}

	lead := &Lead{
		ThreadID:     req.ThreadID,
		Contact:      req.Contact,
		Lang:         req.Lang,
		Services:     req.Services,
		EventType:    req.EventType,
		Date:         req.Date,
		City:         req.City,
		WantsPrice:   req.WantsPrice,
		Conversation: req.Conversation,
	}
	if err := h.repo.Save(r.Context(), lead); err != nil {
		h.logger.Error("lead save failed", "thread_id", req.ThreadID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "server_error"})
		return
	}

	if h.events != nil {
		h.events.Record(r.Context(), "lead", req.ThreadID, map[string]any{
			"lead_id": lead.ID,
			"contact": lead.Contact,
		})
	}
	h.logger.Info("lead captured", "thread_id", req.ThreadID, "lead_id", lead.ID)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
