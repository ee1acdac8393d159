package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/argamanevents/event-ai-platform/internal/assistant"
	"github.com/argamanevents/event-ai-platform/internal/booking"
	"github.com/argamanevents/event-ai-platform/internal/observability/metrics"
	"github.com/argamanevents/event-ai-platform/internal/pipeline"
	"github.com/argamanevents/event-ai-platform/pkg/logging"
)

// RemoteThread is the handle to one remote assistant conversation.
type RemoteThread interface {
	EnsureThread(ctx context.Context) (string, error)
	ThreadID() string
	Send(ctx context.Context, text string) (string, error)
}

// RemoteDialer creates or re-attaches remote threads.
type RemoteDialer interface {
	NewThread() RemoteThread
	AdoptThread(threadID string) RemoteThread
}

// AssistantDialer adapts the assistant client to the dialer interface.
type AssistantDialer struct {
	Client *assistant.Client
}

func (d AssistantDialer) NewThread() RemoteThread {
	return assistant.NewSession(d.Client)
}

func (d AssistantDialer) AdoptThread(threadID string) RemoteThread {
	return assistant.SessionFromThread(d.Client, threadID)
}

// KnowledgeSearcher supplies knowledge-base facts for a visitor message.
type KnowledgeSearcher interface {
	SearchFacts(query string, limit int) []string
}

// BookingDispatcher fires the calendar side effect when a session qualifies.
type BookingDispatcher interface {
	MaybeTrigger(ctx context.Context, in booking.TriggerInput) (bool, error)
}

// Separator between the visitor's message and the appended knowledge facts.
const (
	contextPrefix = "\n\n[Контекст]: "
	kbFactLimit   = 3
)

var ErrInvalidStatus = errors.New("conversation: invalid pipeline status")

// Service orchestrates one chat turn end to end: fact extraction, status
// classification, knowledge enrichment, the remote assistant round trip and
// the booking side effect.
type Service struct {
	dialer      RemoteDialer
	store       *SessionStore
	kb          KnowledgeSearcher
	dispatcher  BookingDispatcher
	events      *EventLog
	transcripts *TranscriptStore
	metrics     *metrics.ConversationMetrics
	logger      *logging.Logger
}

// ServiceConfig wires the service dependencies. Dialer and Store are
// required; everything else degrades to a no-op when absent.
type ServiceConfig struct {
	Dialer      RemoteDialer
	Store       *SessionStore
	Knowledge   KnowledgeSearcher
	Dispatcher  BookingDispatcher
	Events      *EventLog
	Transcripts *TranscriptStore
	Metrics     *metrics.ConversationMetrics
	Logger      *logging.Logger
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Dialer == nil {
		return nil, errors.New("conversation: dialer is required")
	}
	if cfg.Store == nil {
		cfg.Store = NewSessionStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		dialer:      cfg.Dialer,
		store:       cfg.Store,
		kb:          cfg.Knowledge,
		dispatcher:  cfg.Dispatcher,
		events:      cfg.Events,
		transcripts: cfg.Transcripts,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}, nil
}

// StartSession creates a fresh remote thread and registers a session for it.
func (s *Service) StartSession(ctx context.Context) (string, error) {
	remote := s.dialer.NewThread()
	threadID, err := remote.EnsureThread(ctx)
	if err != nil {
		return "", fmt.Errorf("conversation: start session: %w", err)
	}
	s.store.Put(threadID, newSession(remote))
	s.events.Record(ctx, "thread_created", threadID, nil)
	s.logger.Info("session started", "thread_id", threadID)
	return threadID, nil
}

// ProcessMessage runs one visitor turn. The inbound text updates facts and
// pipeline status before the remote call; the reply text itself is never
// classified. Booking dispatch runs after a successful reply so a transport
// failure cannot consume the one-shot gate.
func (s *Service) ProcessMessage(ctx context.Context, threadID, message string) (string, error) {
	started := time.Now()
	session := s.session(threadID)

	facts := session.ExtractFacts(message)
	next := pipeline.Evaluate(message, &facts, session.Status())
	if session.SetStatus(next) {
		s.metrics.ObserveStatusChange(string(next))
		s.events.Record(ctx, "status_changed", threadID, map[string]any{"status": string(next)})
	}

	var kbFacts []string
	if s.kb != nil {
		kbFacts = s.kb.SearchFacts(message, kbFactLimit)
	}
	enriched := message
	if len(kbFacts) > 0 {
		enriched = message + contextPrefix + strings.Join(kbFacts, " • ")
		s.metrics.AddKBFacts(len(kbFacts))
	}

	if err := s.transcripts.Append(ctx, threadID, TranscriptMessage{Role: "user", Body: message}); err != nil {
		s.logger.Warn("transcript append failed", "thread_id", threadID, "error", err)
	}
	s.events.Record(ctx, "user_message", threadID, map[string]any{
		"content":  message,
		"kb_facts": kbFacts,
		"status":   string(session.Status()),
		"facts":    session.Facts(),
	})

	reply, err := session.Remote.Send(ctx, enriched)
	if err != nil {
		outcome := "remote_error"
		if errors.Is(err, assistant.ErrEmptyReply) {
			outcome = "empty_reply"
		}
		s.metrics.ObserveTurn(outcome, time.Since(started).Seconds())
		s.events.Record(ctx, "message_failed", threadID, map[string]any{"error": err.Error()})
		return "", err
	}

	if err := s.transcripts.Append(ctx, threadID, TranscriptMessage{Role: "assistant", Body: reply}); err != nil {
		s.logger.Warn("transcript append failed", "thread_id", threadID, "error", err)
	}
	s.events.Record(ctx, "assistant_message", threadID, map[string]any{"content": reply})
	s.metrics.ObserveTurn("ok", time.Since(started).Seconds())

	s.maybeBook(ctx, threadID, session)
	return reply, nil
}

// ReportStatus applies an externally reported pipeline status (e.g. from
// the operator widget) and re-checks the booking gate.
func (s *Service) ReportStatus(ctx context.Context, threadID string, status pipeline.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	session := s.session(threadID)
	if session.SetStatus(status) {
		s.metrics.ObserveStatusChange(string(status))
		s.events.Record(ctx, "status_reported", threadID, map[string]any{"status": string(status)})
	}
	s.maybeBook(ctx, threadID, session)
	return nil
}

// SessionStatus returns the current and peak status for a thread.
func (s *Service) SessionStatus(threadID string) (current, peak pipeline.Status, ok bool) {
	session, found := s.store.Get(threadID)
	if !found {
		return "", "", false
	}
	return session.Status(), session.PeakStatus(), true
}

func (s *Service) maybeBook(ctx context.Context, threadID string, session *Session) {
	if s.dispatcher == nil {
		return
	}
	sent, err := s.dispatcher.MaybeTrigger(ctx, booking.TriggerInput{
		SessionID:   threadID,
		Current:     session.Status(),
		Peak:        session.PeakStatus(),
		Facts:       session.Facts(),
		AlreadySent: session.BookingSent(),
	})
	if err != nil {
		s.metrics.ObserveBookingDispatch("error")
		s.events.Record(ctx, "calendar_error", threadID, map[string]any{"error": err.Error()})
		s.logger.Error("booking dispatch failed", "thread_id", threadID, "error", err)
		return
	}
	if sent {
		session.MarkBookingSent(session.Facts().Date)
		s.metrics.ObserveBookingDispatch("sent")
		s.events.Record(ctx, "calendar_event", threadID, map[string]any{"date": session.Facts().Date})
	}
}

// session returns the tracked session, adopting the thread identifier when
// the process has no record of it.
func (s *Service) session(threadID string) *Session {
	return s.store.GetOrCreate(threadID, func() *Session {
		return newSession(s.dialer.AdoptThread(threadID))
	})
}
