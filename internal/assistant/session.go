package assistant

import (
	"context"
	"sync"
	"time"
)

// Session owns the remote thread identity for one conversation. The thread
// identifier is assigned once and immutable for the session's lifetime.
type Session struct {
	client *Client

	mu        sync.Mutex
	threadID  string
	createdAt time.Time
}

// NewSession creates a session with no remote thread yet.
func NewSession(client *Client) *Session {
	return &Session{client: client}
}

// SessionFromThread adopts an existing remote thread identifier, e.g. when
// a caller resumes a conversation it started earlier.
func SessionFromThread(client *Client, threadID string) *Session {
	return &Session{client: client, threadID: threadID, createdAt: time.Now().UTC()}
}

// ThreadID returns the remote identifier, or "" before EnsureThread.
func (s *Session) ThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

// CreatedAt returns when the thread was assigned.
func (s *Session) CreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createdAt
}

// EnsureThread returns the session's thread identifier, creating the remote
// thread on first use. The assistant definition is synced before the thread
// is created, so a bad API key or model surfaces at session start rather
// than mid-conversation. Idempotent: repeated calls return the same
// identifier and issue at most one remote create. On create failure no
// partial state is retained, so a later call can retry.
func (s *Session) EnsureThread(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.threadID != "" {
		return s.threadID, nil
	}
	if _, err := s.client.EnsureAssistant(ctx); err != nil {
		return "", err
	}
	id, err := s.client.CreateThread(ctx)
	if err != nil {
		return "", err
	}
	s.threadID = id
	s.createdAt = time.Now().UTC()
	return id, nil
}

// Send posts the enriched text as a user turn, runs the assistant, polls the
// run to a terminal state and fetches the newest assistant reply. Every
// failure mode surfaces to the caller: remote rejection of the post, a run
// ending in a non-completed state (ErrRunFailed), polling exhaustion
// (ErrRunTimeout), or a completed run with no assistant content
// (ErrEmptyReply). The caller decides fallback behavior.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	threadID, err := s.EnsureThread(ctx)
	if err != nil {
		return "", err
	}

	assistantID, err := s.client.EnsureAssistant(ctx)
	if err != nil {
		return "", err
	}

	if err := s.client.PostUserMessage(ctx, threadID, text); err != nil {
		return "", err
	}

	runID, err := s.client.CreateRun(ctx, threadID, assistantID)
	if err != nil {
		return "", err
	}

	if err := s.client.PollRun(ctx, threadID, runID); err != nil {
		return "", err
	}

	return s.client.LatestAssistantReply(ctx, threadID)
}
