package leads

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/argamanevents/event-ai-platform/internal/pipeline"
)

const (
	maxConversationTurns = 12
	maxTurnRunes         = 1500
	maxServices          = 8
)

// Turn is one captured message from the chat transcript the widget
// submits alongside the contact details.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Lead represents a captured lead from the chat widget.
type Lead struct {
	ID           string               `json:"id"`
	ThreadID     string               `json:"thread_id"`
	Contact      string               `json:"contact"`
	Lang         string               `json:"lang,omitempty"`
	Services     []pipeline.ServiceID `json:"services,omitempty"`
	EventType    string               `json:"event_type,omitempty"`
	Date         string               `json:"date,omitempty"`
	City         string               `json:"city,omitempty"`
	WantsPrice   bool                 `json:"wants_price,omitempty"`
	Conversation []Turn               `json:"conversation,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// CreateLeadRequest represents the request body for submitting a lead.
type CreateLeadRequest struct {
	ThreadID     string               `json:"threadId"`
	Contact      string               `json:"contact"`
	Lang         string               `json:"lang"`
	Services     []pipeline.ServiceID `json:"services"`
	EventType    string               `json:"eventType"`
	Date         string               `json:"date"`
	City         string               `json:"city"`
	WantsPrice   bool                 `json:"wantsPrice"`
	Conversation []Turn               `json:"conversation"`
}

// Validate checks the submission and normalizes it in place: the contact is
// trimmed and oversized fields are cut down. A thread identifier is optional,
// a lead can arrive before any conversation exists.
func (r *CreateLeadRequest) Validate() error {
	r.Contact = strings.TrimSpace(r.Contact)
	if utf8.RuneCountInString(r.Contact) < 3 {
		return ErrInvalidContact
	}
	if len(r.Services) > maxServices {
		r.Services = r.Services[:maxServices]
	}
	if len(r.Conversation) > maxConversationTurns {
		r.Conversation = r.Conversation[len(r.Conversation)-maxConversationTurns:]
	}
	for i, turn := range r.Conversation {
		if utf8.RuneCountInString(turn.Text) > maxTurnRunes {
			runes := []rune(turn.Text)
			r.Conversation[i].Text = string(runes[:maxTurnRunes])
		}
	}
	return nil
}
