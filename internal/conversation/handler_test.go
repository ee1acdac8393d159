package conversation

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/argamanevents/event-ai-platform/internal/assistant"
)

func testHandler(t *testing.T, remote *fakeRemote) *Handler {
	t.Helper()
	events := NewEventLog(filepath.Join(t.TempDir(), "logs.jsonl"), nil)
	svc, err := NewService(ServiceConfig{
		Dialer: &fakeDialer{next: remote},
		Events: events,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.StartSession(context.Background()); err != nil {
		t.Fatal(err)
	}
	return NewHandler(svc, events, nil, nil)
}

func TestCreateThreadEndpoint(t *testing.T) {
	h := testHandler(t, &fakeRemote{threadID: "thread_1"})

	rec := httptest.NewRecorder()
	h.CreateThread(rec, httptest.NewRequest("POST", "/api/thread", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		ThreadID string `json:"threadId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.ThreadID != "thread_1" {
		t.Errorf("threadId = %q", resp.ThreadID)
	}
}

func TestChatEndpoint(t *testing.T) {
	h := testHandler(t, &fakeRemote{threadID: "thread_1", reply: "ответ"})

	body := `{"threadId":"thread_1","message":"привет"}`
	rec := httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest("POST", "/api/chat", strings.NewReader(body)))

	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Reply != "ответ" {
		t.Errorf("reply = %q", resp.Reply)
	}
}

func TestChatValidation(t *testing.T) {
	h := testHandler(t, &fakeRemote{threadID: "thread_1", reply: "ok"})

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing threadId", `{"message":"привет"}`},
		{"missing message", `{"threadId":"thread_1"}`},
		{"blank message", `{"threadId":"thread_1","message":"   "}`},
		{"oversized threadId", `{"threadId":"` + strings.Repeat("x", 200) + `","message":"привет"}`},
		{"oversized message", `{"threadId":"thread_1","message":"` + strings.Repeat("а", maxChatMessageRunes+1) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Chat(rec, httptest.NewRequest("POST", "/api/chat", strings.NewReader(tt.body)))
			if rec.Code != 400 {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestChatEmptyReplyIs502(t *testing.T) {
	h := testHandler(t, &fakeRemote{threadID: "thread_1", err: assistant.ErrEmptyReply})

	body := `{"threadId":"thread_1","message":"привет"}`
	rec := httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest("POST", "/api/chat", strings.NewReader(body)))

	if rec.Code != 502 {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "empty_reply" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	h := testHandler(t, &fakeRemote{threadID: "thread_1", reply: "ok"})

	rec := httptest.NewRecorder()
	h.ReportStatus(rec, httptest.NewRequest("POST", "/api/status",
		strings.NewReader(`{"threadId":"thread_1","status":"won"}`)))
	if rec.Code != 200 {
		t.Errorf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ReportStatus(rec, httptest.NewRequest("POST", "/api/status",
		strings.NewReader(`{"threadId":"thread_1","status":"nonsense"}`)))
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400 for unknown status", rec.Code)
	}
}

func TestLogsEndpoint(t *testing.T) {
	remote := &fakeRemote{threadID: "thread_1", reply: "ok"}
	h := testHandler(t, remote)

	if _, err := h.svc.StartSession(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := h.svc.ProcessMessage(context.Background(), "thread_1", "привет"); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.Logs(rec, httptest.NewRequest("GET", "/api/logs?threadId=thread_1", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Entries []EventEntry `json:"entries"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Entries) == 0 {
		t.Error("no entries returned")
	}
	for _, e := range resp.Entries {
		if e.ThreadID != "thread_1" {
			t.Errorf("entry for wrong thread: %+v", e)
		}
	}
}

func TestThreadLogEndpoint(t *testing.T) {
	store := testTranscriptStore(t)
	events := NewEventLog(filepath.Join(t.TempDir(), "logs.jsonl"), nil)
	svc, err := NewService(ServiceConfig{
		Dialer:      &fakeDialer{next: &fakeRemote{threadID: "thread_1", reply: "ответ"}},
		Transcripts: store,
	})
	if err != nil {
		t.Fatal(err)
	}
	h := NewHandler(svc, events, store, nil)

	if _, err := svc.StartSession(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ProcessMessage(context.Background(), "thread_1", "привет"); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.ThreadLog(rec, httptest.NewRequest("GET", "/api/thread-log?threadId=thread_1", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	text := rec.Body.String()
	if !strings.Contains(text, "user: привет") || !strings.Contains(text, "assistant: ответ") {
		t.Errorf("transcript = %q", text)
	}

	rec = httptest.NewRecorder()
	h.ThreadLog(rec, httptest.NewRequest("GET", "/api/thread-log?threadId=thread_other", nil))
	if rec.Code != 404 {
		t.Errorf("status = %d, want 404 for unknown thread", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ThreadLog(rec, httptest.NewRequest("GET", "/api/thread-log", nil))
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400 without threadId", rec.Code)
	}
}
