package knowledge

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/argamanevents/event-ai-platform/pkg/logging"
)

const maxSearchLimit = 10

// Handler serves knowledge-base searches. The index reference is swapped
// atomically on reload, so requests always see a complete index.
type Handler struct {
	idx    atomic.Pointer[Index]
	logger *logging.Logger
}

// NewHandler creates a knowledge handler around the loaded index.
func NewHandler(idx *Index, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &Handler{logger: logger}
	h.idx.Store(idx)
	return h
}

// Swap replaces the served index with a freshly loaded one.
func (h *Handler) Swap(idx *Index) {
	h.idx.Store(idx)
}

// Index returns the currently served index.
func (h *Handler) Index() *Index {
	return h.idx.Load()
}

// SearchFacts runs a search against the currently served index.
func (h *Handler) SearchFacts(query string, limit int) []string {
	return h.idx.Load().Search(query, limit)
}

// Search handles GET /api/kb?query=&limit=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	limit := DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	facts := h.idx.Load().Search(query, limit)
	if facts == nil {
		facts = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"facts": facts}); err != nil {
		h.logger.Error("failed to write kb response", "error", err)
	}
}
