package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// stubCalls counts the remote creates a test cares about.
type stubCalls struct {
	assistants int32
	threads    int32
}

// assistantAPIStub serves the minimal Assistants surface a Send needs.
func assistantAPIStub(t *testing.T, calls *stubCalls) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/assistants":
			atomic.AddInt32(&calls.assistants, 1)
			_ = json.NewEncoder(w).Encode(createdObject{ID: "asst_1"})
		case r.Method == http.MethodPost && r.URL.Path == "/threads":
			atomic.AddInt32(&calls.threads, 1)
			_ = json.NewEncoder(w).Encode(createdObject{ID: "thread_1"})
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_1/messages":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_1/runs":
			_ = json.NewEncoder(w).Encode(runObject{ID: "run_1", Status: "queued"})
		case r.Method == http.MethodGet && r.URL.Path == "/threads/thread_1/runs/run_1":
			_ = json.NewEncoder(w).Encode(runObject{ID: "run_1", Status: runStatusCompleted})
		case r.Method == http.MethodGet && r.URL.Path == "/threads/thread_1/messages":
			_ = json.NewEncoder(w).Encode(messageList{Data: []threadMessage{
				{Role: "assistant", Content: []messageContent{{Text: messageText{Value: "ответ"}}}},
			}})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestSessionEnsureThreadIdempotent(t *testing.T) {
	var calls stubCalls
	srv := assistantAPIStub(t, &calls)
	defer srv.Close()

	c, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL, PollInterval: time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(c)
	if s.ThreadID() != "" {
		t.Errorf("ThreadID before EnsureThread = %q", s.ThreadID())
	}

	for i := 0; i < 3; i++ {
		id, err := s.EnsureThread(context.Background())
		if err != nil {
			t.Fatalf("EnsureThread: %v", err)
		}
		if id != "thread_1" {
			t.Errorf("id = %q", id)
		}
	}
	if n := atomic.LoadInt32(&calls.threads); n != 1 {
		t.Errorf("thread creates = %d, want 1", n)
	}
	// The assistant definition is synced when the thread is created, once.
	if n := atomic.LoadInt32(&calls.assistants); n != 1 {
		t.Errorf("assistant creates = %d, want 1", n)
	}
	if s.CreatedAt().IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestSessionSend(t *testing.T) {
	var calls stubCalls
	srv := assistantAPIStub(t, &calls)
	defer srv.Close()

	c, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL, PollInterval: time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(c)

	reply, err := s.Send(context.Background(), "привет")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "ответ" {
		t.Errorf("reply = %q", reply)
	}
	if s.ThreadID() != "thread_1" {
		t.Errorf("ThreadID = %q", s.ThreadID())
	}
}

func TestSessionFromThreadSkipsCreate(t *testing.T) {
	var calls stubCalls
	srv := assistantAPIStub(t, &calls)
	defer srv.Close()

	c, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL, PollInterval: time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	s := SessionFromThread(c, "thread_1")

	if _, err := s.Send(context.Background(), "продолжаем"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n := atomic.LoadInt32(&calls.threads); n != 0 {
		t.Errorf("thread creates = %d, want 0 for adopted thread", n)
	}
}
