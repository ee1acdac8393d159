package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedEvent struct {
	event    string
	threadID string
}

type fakeRecorder struct {
	events []recordedEvent
}

func (f *fakeRecorder) Record(_ context.Context, event, sessionID string, _ map[string]any) {
	f.events = append(f.events, recordedEvent{event, sessionID})
}

type badDateCreator struct{}

func (badDateCreator) CreateEvent(_ context.Context, dateText, _, _ string) (string, error) {
	return "", fmt.Errorf("%w: %q", ErrBadDate, dateText)
}

func TestCreateEventEndpoint(t *testing.T) {
	creator := &fakeCreator{}
	recorder := &fakeRecorder{}
	h := NewHandler(creator, nil, "cal@group", recorder, nil)

	body := `{"threadId":"thread_1","date":"15.06","summary":"s","description":"d"}`
	req := httptest.NewRequest("POST", "/api/calendar/event", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateEvent(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		OK      bool   `json:"ok"`
		EventID string `json:"eventId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || resp.EventID != "evt_1" {
		t.Errorf("resp = %+v", resp)
	}
	if len(recorder.events) != 1 || recorder.events[0].event != "calendar_event" {
		t.Errorf("events = %v", recorder.events)
	}
}

func TestCreateEventValidation(t *testing.T) {
	h := NewHandler(&fakeCreator{}, nil, "cal@group", nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing threadId", `{"date":"15.06"}`},
		{"missing date", `{"threadId":"thread_1"}`},
		{"oversized threadId", `{"threadId":"` + strings.Repeat("x", 200) + `","date":"15.06"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/calendar/event", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.CreateEvent(rec, req)
			if rec.Code != 400 {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreateEventBadDateIs400(t *testing.T) {
	h := NewHandler(badDateCreator{}, nil, "cal@group", nil, nil)

	body := `{"threadId":"thread_1","date":"завтра"}`
	req := httptest.NewRequest("POST", "/api/calendar/event", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateEvent(rec, req)
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400 for unparseable date", rec.Code)
	}
}

func TestCreateEventUnconfigured(t *testing.T) {
	h := NewHandler(nil, nil, "", nil, nil)

	body := `{"threadId":"thread_1","date":"15.06"}`
	req := httptest.NewRequest("POST", "/api/calendar/event", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateEvent(rec, req)
	if rec.Code != 503 {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestPingEndpoint(t *testing.T) {
	h := NewHandler(nil, fakePinger{}, "cal@group", nil, nil)

	req := httptest.NewRequest("GET", "/api/calendar/ping", nil)
	rec := httptest.NewRecorder()
	h.Ping(rec, req)

	var resp struct {
		OK         bool   `json:"ok"`
		CalendarOK bool   `json:"calendarOk"`
		CalendarID string `json:"calendarId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || !resp.CalendarOK || resp.CalendarID != "cal@group" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestPingUnconfigured(t *testing.T) {
	h := NewHandler(nil, nil, "", nil, nil)

	req := httptest.NewRequest("GET", "/api/calendar/ping", nil)
	rec := httptest.NewRecorder()
	h.Ping(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		OK         bool `json:"ok"`
		CalendarOK bool `json:"calendarOk"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || resp.CalendarOK {
		t.Errorf("resp = %+v", resp)
	}
}
