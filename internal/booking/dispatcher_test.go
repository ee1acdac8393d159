package booking

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/argamanevents/event-ai-platform/internal/pipeline"
)

type fakeCreator struct {
	calls []string
	err   error
}

func (f *fakeCreator) CreateEvent(_ context.Context, dateText, summary, description string) (string, error) {
	f.calls = append(f.calls, dateText)
	if f.err != nil {
		return "", f.err
	}
	return "evt_1", nil
}

func wonInput() TriggerInput {
	return TriggerInput{
		SessionID: "thread_1",
		Current:   pipeline.StatusWon,
		Peak:      pipeline.StatusWon,
		Facts: pipeline.Facts{
			Services: []pipeline.ServiceID{pipeline.ServiceMagnets},
			City:     "Тель-Авив",
			Date:     "15.06",
		},
	}
}

func TestMaybeTriggerFires(t *testing.T) {
	creator := &fakeCreator{}
	d := NewDispatcher(creator, nil)

	sent, err := d.MaybeTrigger(context.Background(), wonInput())
	if err != nil {
		t.Fatalf("MaybeTrigger: %v", err)
	}
	if !sent {
		t.Fatal("sent = false, want true")
	}
	if len(creator.calls) != 1 || creator.calls[0] != "15.06" {
		t.Errorf("calls = %v", creator.calls)
	}
}

func TestMaybeTriggerGates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TriggerInput)
	}{
		{"not won", func(in *TriggerInput) { in.Current = pipeline.StatusOfferSent; in.Peak = pipeline.StatusOfferSent }},
		{"currently lost", func(in *TriggerInput) { in.Current = pipeline.StatusLost }},
		{"no date", func(in *TriggerInput) { in.Facts.Date = "" }},
		{"already sent", func(in *TriggerInput) { in.AlreadySent = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := &fakeCreator{}
			d := NewDispatcher(creator, nil)
			in := wonInput()
			tt.mutate(&in)

			sent, err := d.MaybeTrigger(context.Background(), in)
			if err != nil {
				t.Fatalf("MaybeTrigger: %v", err)
			}
			if sent || len(creator.calls) != 0 {
				t.Errorf("sent = %v, calls = %v; gate must suppress", sent, creator.calls)
			}
		})
	}
}

func TestMaybeTriggerEverWonSurvivesLostPeakRule(t *testing.T) {
	// Won earlier, currently need_human: still dispatches.
	creator := &fakeCreator{}
	d := NewDispatcher(creator, nil)
	in := wonInput()
	in.Current = pipeline.StatusNeedHuman

	sent, err := d.MaybeTrigger(context.Background(), in)
	if err != nil || !sent {
		t.Fatalf("sent = %v, err = %v; ever-won session must dispatch", sent, err)
	}
}

func TestMaybeTriggerFailureAllowsRetry(t *testing.T) {
	creator := &fakeCreator{err: errors.New("remote down")}
	d := NewDispatcher(creator, nil)

	sent, err := d.MaybeTrigger(context.Background(), wonInput())
	if err == nil || sent {
		t.Fatalf("sent = %v, err = %v; failure must surface", sent, err)
	}

	// Caller did not mark the session sent, so a retry goes through.
	creator.err = nil
	sent, err = d.MaybeTrigger(context.Background(), wonInput())
	if err != nil || !sent {
		t.Fatalf("retry: sent = %v, err = %v", sent, err)
	}
}

func TestMaybeTriggerNilCreator(t *testing.T) {
	d := NewDispatcher(nil, nil)
	sent, err := d.MaybeTrigger(context.Background(), wonInput())
	if sent || err != nil {
		t.Errorf("sent = %v, err = %v; nil creator must be a no-op", sent, err)
	}
}

func TestEventSummary(t *testing.T) {
	f := pipeline.Facts{
		Services: []pipeline.ServiceID{pipeline.ServiceMagnets, pipeline.ServiceBalloons},
		City:     "Хайфа",
	}
	got := EventSummary(f)
	if got != "אירוע · Хайфа · מגנטים, בלונים" {
		t.Errorf("EventSummary = %q", got)
	}

	empty := EventSummary(pipeline.Facts{})
	if !strings.Contains(empty, "ללא עיר") || !strings.Contains(empty, "שירותים לא ידועים") {
		t.Errorf("EventSummary(empty) = %q", empty)
	}
}

func TestEventDescription(t *testing.T) {
	f := pipeline.Facts{
		Services:  []pipeline.ServiceID{pipeline.ServiceMagnets},
		EventType: "свадьба",
		City:      "Хайфа",
		Date:      "15.06",
	}
	got := EventDescription("thread_9", f)
	for _, want := range []string{"thread: thread_9", "services: מגנטים", "event: свадьба", "city: Хайфа", "date: 15.06"} {
		if !strings.Contains(got, want) {
			t.Errorf("EventDescription missing %q in %q", want, got)
		}
	}
}
