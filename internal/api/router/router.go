package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/argamanevents/event-ai-platform/internal/booking"
	"github.com/argamanevents/event-ai-platform/internal/conversation"
	"github.com/argamanevents/event-ai-platform/internal/knowledge"
	"github.com/argamanevents/event-ai-platform/internal/leads"
	"github.com/argamanevents/event-ai-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	LeadsHandler        *leads.Handler
	BookingHandler      *booking.Handler
	KnowledgeHandler    *knowledge.Handler
	MetricsHandler      http.Handler
	StaticDir           string
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(requestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.ConversationHandler != nil {
			api.Post("/thread", cfg.ConversationHandler.CreateThread)
			api.Post("/chat", cfg.ConversationHandler.Chat)
			api.Post("/status", cfg.ConversationHandler.ReportStatus)
			api.Get("/logs", cfg.ConversationHandler.Logs)
			api.Get("/thread-log", cfg.ConversationHandler.ThreadLog)
		}
		if cfg.LeadsHandler != nil {
			api.Post("/lead", cfg.LeadsHandler.Create)
		}
		if cfg.BookingHandler != nil {
			api.Post("/calendar/event", cfg.BookingHandler.CreateEvent)
			api.Get("/calendar/ping", cfg.BookingHandler.Ping)
		}
		if cfg.KnowledgeHandler != nil {
			api.Get("/kb", cfg.KnowledgeHandler.Search)
		}
	})

	// Chat widget static assets.
	if cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(cfg.StaticDir))
		r.Handle("/*", fs)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
