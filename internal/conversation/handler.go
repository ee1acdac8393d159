package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/argamanevents/event-ai-platform/internal/assistant"
	"github.com/argamanevents/event-ai-platform/internal/pipeline"
	"github.com/argamanevents/event-ai-platform/pkg/logging"
)

const (
	maxThreadIDLen      = 128
	maxChatMessageRunes = 4000
	defaultLogLimit     = 200
	maxLogLimit         = 1000
)

// Handler exposes the chat endpoints consumed by the web widget.
type Handler struct {
	svc         *Service
	events      *EventLog
	transcripts *TranscriptStore
	logger      *logging.Logger
}

func NewHandler(svc *Service, events *EventLog, transcripts *TranscriptStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, events: events, transcripts: transcripts, logger: logger}
}

type chatRequest struct {
	ThreadID string `json:"threadId"`
	Message  string `json:"message"`
}

func (r chatRequest) validate() error {
	if r.ThreadID == "" || len(r.ThreadID) > maxThreadIDLen {
		return errors.New("threadId is required")
	}
	if strings.TrimSpace(r.Message) == "" {
		return errors.New("message is required")
	}
	if utf8.RuneCountInString(r.Message) > maxChatMessageRunes {
		return fmt.Errorf("message exceeds %d characters", maxChatMessageRunes)
	}
	return nil
}

type statusRequest struct {
	ThreadID string `json:"threadId"`
	Status   string `json:"status"`
}

// CreateThread handles POST /api/thread.
func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	threadID, err := h.svc.StartSession(r.Context())
	if err != nil {
		h.logger.Error("thread creation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "thread_error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"threadId": threadID})
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request"})
		return
	}
	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request", "detail": err.Error()})
		return
	}

	reply, err := h.svc.ProcessMessage(r.Context(), req.ThreadID, req.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyReply) {
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": "empty_reply"})
			return
		}
		h.logger.Error("chat turn failed", "thread_id", req.ThreadID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "server_error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
}

// ReportStatus handles POST /api/status.
func (h *Handler) ReportStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request"})
		return
	}
	if req.ThreadID == "" || len(req.ThreadID) > maxThreadIDLen {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request"})
		return
	}
	if err := h.svc.ReportStatus(r.Context(), req.ThreadID, pipeline.Status(req.Status)); err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_status"})
			return
		}
		h.logger.Error("status report failed", "thread_id", req.ThreadID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "server_error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Logs handles GET /api/logs.
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	threadID := r.URL.Query().Get("threadId")
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	entries, err := h.events.Read(threadID, limit)
	if err != nil {
		h.logger.Error("event log read failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "server_error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// ThreadLog handles GET /api/thread-log: the transcript as plain text.
func (h *Handler) ThreadLog(w http.ResponseWriter, r *http.Request) {
	threadID := r.URL.Query().Get("threadId")
	if threadID == "" || len(threadID) > maxThreadIDLen {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request"})
		return
	}

	messages, err := h.transcripts.List(r.Context(), threadID, 0)
	if err != nil {
		h.logger.Error("transcript read failed", "thread_id", threadID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "server_error"})
		return
	}
	if len(messages) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not_found"})
		return
	}

	var b strings.Builder
	for _, msg := range messages {
		b.WriteString("[" + msg.Timestamp.UTC().Format("2006-01-02 15:04:05") + "] " + msg.Role + ": " + msg.Body + "\n")
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
