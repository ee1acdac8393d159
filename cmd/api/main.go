package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/argamanevents/event-ai-platform/internal/api/router"
	"github.com/argamanevents/event-ai-platform/internal/assistant"
	"github.com/argamanevents/event-ai-platform/internal/booking"
	appconfig "github.com/argamanevents/event-ai-platform/internal/config"
	"github.com/argamanevents/event-ai-platform/internal/conversation"
	"github.com/argamanevents/event-ai-platform/internal/knowledge"
	"github.com/argamanevents/event-ai-platform/internal/leads"
	"github.com/argamanevents/event-ai-platform/internal/observability/metrics"
	"github.com/argamanevents/event-ai-platform/pkg/logging"
)

func main() {
	// Load .env if present, then configuration from the environment
	_ = godotenv.Load()
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting event-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to create data dir", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	// Remote assistant client
	assistantClient, err := assistant.New(assistant.Config{
		BaseURL:      cfg.OpenAIBaseURL,
		APIKey:       cfg.OpenAIAPIKey,
		Model:        cfg.OpenAIModel,
		AssistantID:  cfg.AssistantID,
		Timeout:      cfg.AssistantTimeout,
		PollInterval: cfg.RunPollInterval,
		PollAttempts: cfg.RunPollAttempts,
		Logger:       logger.WithComponent("assistant"),
	})
	if err != nil {
		logger.Error("failed to configure assistant client", "error", err)
		os.Exit(1)
	}

	// Knowledge base, merged from the configured fragments
	idx, err := knowledge.LoadFiles(cfg.KnowledgePaths...)
	if err != nil {
		logger.Error("failed to load knowledge base", "paths", cfg.KnowledgePaths, "error", err)
		os.Exit(1)
	}
	knowledgeHandler := knowledge.NewHandler(idx, logger.WithComponent("knowledge"))

	// Transcript store (optional, degrades to no-op without Redis)
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
	}
	transcripts := conversation.NewTranscriptStore(redisClient)

	// Event log and leads
	events := conversation.NewEventLog(cfg.EventLog, logger.WithComponent("events"))
	leadsRepo := leads.NewRepository(cfg.LeadsPath)
	leadsHandler := leads.NewHandler(leadsRepo, events, logger.WithComponent("leads"))

	// Booking (optional, requires Google credentials)
	var calendarCreator booking.EventCreator
	var calendarPinger booking.Pinger
	if cfg.GoogleCredentialsPath != "" && cfg.CalendarID != "" {
		gcal, err := booking.NewGoogleCalendar(context.Background(), cfg.GoogleCredentialsPath, cfg.CalendarID, logger.WithComponent("booking"))
		if err != nil {
			logger.Error("failed to configure google calendar", "error", err)
			os.Exit(1)
		}
		calendarCreator = gcal
		calendarPinger = gcal
	} else {
		logger.Warn("calendar booking disabled", "reason", "missing credentials or calendar id")
	}
	dispatcher := booking.NewDispatcher(calendarCreator, logger.WithComponent("booking"))
	bookingHandler := booking.NewHandler(calendarCreator, calendarPinger, cfg.CalendarID, events, logger.WithComponent("booking"))

	// Conversation orchestrator
	convMetrics := metrics.NewConversationMetrics(nil)
	svc, err := conversation.NewService(conversation.ServiceConfig{
		Dialer:      conversation.AssistantDialer{Client: assistantClient},
		Store:       conversation.NewSessionStore(),
		Knowledge:   knowledgeHandler,
		Dispatcher:  dispatcher,
		Events:      events,
		Transcripts: transcripts,
		Metrics:     convMetrics,
		Logger:      logger.WithComponent("conversation"),
	})
	if err != nil {
		logger.Error("failed to build conversation service", "error", err)
		os.Exit(1)
	}
	conversationHandler := conversation.NewHandler(svc, events, transcripts, logger.WithComponent("conversation"))

	// Setup router
	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversationHandler,
		LeadsHandler:        leadsHandler,
		BookingHandler:      bookingHandler,
		KnowledgeHandler:    knowledgeHandler,
		MetricsHandler:      promhttp.Handler(),
		StaticDir:           cfg.StaticDir,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logger.Info("server exited")
}
