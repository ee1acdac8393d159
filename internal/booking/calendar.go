// Package booking dispatches the external calendar side effect for won
// leads: an all-day Google Calendar event, at most once per session.
package booking

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/argamanevents/event-ai-platform/pkg/logging"
)

const defaultEventSummary = "אירוע צוות ארגמן"

// EventCreator is the external booking collaborator. It receives the raw
// date text and owns its parsing and validation.
type EventCreator interface {
	CreateEvent(ctx context.Context, dateText, summary, description string) (string, error)
}

// Pinger checks whether the booking backend is reachable and authorized.
type Pinger interface {
	Ping(ctx context.Context) error
}

var eventDateRE = regexp.MustCompile(`(\d{1,2})[./-](\d{1,2})(?:[./-](\d{2,4}))?`)

// ParseEventDate turns a locale-ambiguous day/month[/year] string into an
// ISO date. Missing years default to now's year; two-digit years are
// assumed to be in the current century. Impossible calendar dates (31/02)
// are rejected with ErrBadDate.
func ParseEventDate(raw string, now time.Time) (string, error) {
	m := eventDateRE.FindStringSubmatch(raw)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrBadDate, raw)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := now.Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
	}
	if month < 1 || month > 12 || day < 1 {
		return "", fmt.Errorf("%w: %q", ErrBadDate, raw)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return "", fmt.Errorf("%w: %q", ErrBadDate, raw)
	}
	return t.Format("2006-01-02"), nil
}

// GoogleCalendar creates all-day events through the Calendar v3 API using
// service-account credentials.
type GoogleCalendar struct {
	svc        *calendar.Service
	calendarID string
	logger     *logging.Logger
}

// NewGoogleCalendar builds a calendar client from a service-account keyfile.
func NewGoogleCalendar(ctx context.Context, credentialsPath, calendarID string, logger *logging.Logger) (*GoogleCalendar, error) {
	if credentialsPath == "" {
		return nil, ErrMissingCredentials
	}
	if logger == nil {
		logger = logging.Default()
	}
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("booking: create calendar service: %w", err)
	}
	return &GoogleCalendar{svc: svc, calendarID: calendarID, logger: logger}, nil
}

// CreateEvent inserts an all-day event on the parsed date and returns the
// remote event identifier.
func (g *GoogleCalendar) CreateEvent(ctx context.Context, dateText, summary, description string) (string, error) {
	if g.calendarID == "" {
		return "", ErrMissingCalendarID
	}
	isoDate, err := ParseEventDate(dateText, time.Now())
	if err != nil {
		return "", err
	}
	if summary == "" {
		summary = defaultEventSummary
	}
	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Start:       &calendar.EventDateTime{Date: isoDate},
		End:         &calendar.EventDateTime{Date: isoDate},
	}
	created, err := g.svc.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("booking: insert event: %w", err)
	}
	g.logger.Info("calendar event created", "event_id", created.Id, "date", isoDate)
	return created.Id, nil
}

// Ping verifies the calendar is visible with the configured credentials.
func (g *GoogleCalendar) Ping(ctx context.Context) error {
	if g.calendarID == "" {
		return ErrMissingCalendarID
	}
	if _, err := g.svc.Calendars.Get(g.calendarID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("booking: calendar ping: %w", err)
	}
	return nil
}
