package conversation

import (
	"sync"
	"time"

	"github.com/argamanevents/event-ai-platform/internal/pipeline"
)

// Session is the orchestrator's per-conversation record: the remote thread
// handle, the accumulated facts, the pipeline position and the booking
// side-effect memory. Current and peak status are tracked separately so the
// booking gate ("ever won, not currently lost") stays explicit.
type Session struct {
	Remote RemoteThread

	mu          sync.Mutex
	facts       pipeline.Facts
	current     pipeline.Status
	peak        pipeline.Status
	bookingSent bool
	bookingDate string
	createdAt   time.Time
}

func newSession(remote RemoteThread) *Session {
	return &Session{
		Remote:    remote,
		current:   pipeline.StatusNew,
		peak:      pipeline.StatusNew,
		createdAt: time.Now().UTC(),
	}
}

// ExtractFacts applies the fact-extraction tables to an inbound message.
func (s *Session) ExtractFacts(text string) pipeline.Facts {
	s.mu.Lock()
	defer s.mu.Unlock()
	pipeline.Extract(&s.facts, text)
	return s.facts
}

// Facts returns a snapshot of the accumulated facts.
func (s *Session) Facts() pipeline.Facts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.facts
}

// Status returns the current pipeline status.
func (s *Session) Status() pipeline.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// PeakStatus returns the highest stage the session has reached. Won, once
// reached, is never displaced — the ever-won memory survives a later lost.
func (s *Session) PeakStatus() pipeline.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}

// SetStatus records a new pipeline status and returns whether it changed.
func (s *Session) SetStatus(next pipeline.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !next.Valid() || next == s.current {
		return false
	}
	s.current = next
	if next == pipeline.StatusWon || (s.peak != pipeline.StatusWon && next.Rank() > s.peak.Rank()) {
		s.peak = next
	}
	return true
}

// BookingSent reports whether the calendar side effect already fired.
func (s *Session) BookingSent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookingSent
}

// MarkBookingSent records a successful dispatch and the date it was for.
func (s *Session) MarkBookingSent(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookingSent = true
	s.bookingDate = date
}

// BookingDate returns the date text the booking was sent for, if any.
func (s *Session) BookingDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookingDate
}

// SessionStore keeps live sessions keyed by thread identifier. Sessions are
// independent; the store itself is the only shared structure.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Get returns the session for a thread identifier.
func (st *SessionStore) Get(threadID string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[threadID]
	return s, ok
}

// Put registers a session under its thread identifier.
func (st *SessionStore) Put(threadID string, s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[threadID] = s
}

// GetOrCreate returns the session for the thread, adopting an externally
// created thread identifier when the process has no record of it (e.g.
// after a restart, with the widget still holding a live thread).
func (st *SessionStore) GetOrCreate(threadID string, create func() *Session) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[threadID]; ok {
		return s
	}
	s := create()
	st.sessions[threadID] = s
	return s
}

// Len returns the number of tracked sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
