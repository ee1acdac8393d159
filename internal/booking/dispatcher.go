package booking

import (
	"context"
	"strings"

	"github.com/argamanevents/event-ai-platform/internal/pipeline"
	"github.com/argamanevents/event-ai-platform/pkg/logging"
)

// TriggerInput carries everything the dispatcher needs to decide whether to
// fire the booking side effect for one session.
type TriggerInput struct {
	SessionID   string
	Current     pipeline.Status
	Peak        pipeline.Status
	Facts       pipeline.Facts
	AlreadySent bool
}

// Dispatcher decides whether to fire the calendar side effect. The sent
// flag itself lives with the session record; the dispatcher is stateless.
type Dispatcher struct {
	creator EventCreator
	logger  *logging.Logger
}

// NewDispatcher creates a booking dispatcher around the calendar collaborator.
func NewDispatcher(creator EventCreator, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{creator: creator, logger: logger}
}

// MaybeTrigger fires the booking side effect when the session qualifies:
// the lead is won now or has ever been won, is not currently lost, has a
// declared date, and nothing was sent yet. Returns whether an event was
// created by this call. A failed attempt returns the error and leaves the
// caller's sent flag clear so a later evaluation can retry.
//
// At-most-once is best-effort, not transactional: the flag is recorded in
// memory after the remote call succeeds, so a crash between the two can
// produce a duplicate calendar entry on retry. Calendar entries are
// manually reviewable, which keeps that acceptable.
func (d *Dispatcher) MaybeTrigger(ctx context.Context, in TriggerInput) (bool, error) {
	if d == nil || d.creator == nil {
		return false, nil
	}
	everWon := in.Current == pipeline.StatusWon || in.Peak == pipeline.StatusWon
	if !everWon || in.Current == pipeline.StatusLost {
		return false, nil
	}
	if in.Facts.Date == "" || in.AlreadySent {
		return false, nil
	}

	summary := EventSummary(in.Facts)
	description := EventDescription(in.SessionID, in.Facts)

	eventID, err := d.creator.CreateEvent(ctx, in.Facts.Date, summary, description)
	if err != nil {
		d.logger.Error("booking dispatch failed", "session_id", in.SessionID, "date", in.Facts.Date, "error", err)
		return false, err
	}

	d.logger.Info("booking dispatched", "session_id", in.SessionID, "event_id", eventID, "date", in.Facts.Date)
	return true, nil
}

// EventSummary renders the Hebrew one-line calendar summary from the facts.
func EventSummary(f pipeline.Facts) string {
	city := f.City
	if city == "" {
		city = "ללא עיר"
	}
	services := strings.Join(pipeline.ServiceLabels(f.Services, "he"), ", ")
	if services == "" {
		services = "שירותים לא ידועים"
	}
	return "אירוע · " + city + " · " + services
}

// EventDescription renders the multi-line event body from the facts.
func EventDescription(sessionID string, f pipeline.Facts) string {
	lines := []string{"thread: " + sessionID}
	if len(f.Services) > 0 {
		lines = append(lines, "services: "+strings.Join(pipeline.ServiceLabels(f.Services, "he"), ", "))
	}
	if f.EventType != "" {
		lines = append(lines, "event: "+f.EventType)
	}
	if f.City != "" {
		lines = append(lines, "city: "+f.City)
	}
	if f.Date != "" {
		lines = append(lines, "date: "+f.Date)
	}
	return strings.Join(lines, "\n")
}
