// Package pipeline tracks a lead's qualification stage from heuristic
// analysis of the conversation text and the facts collected so far.
package pipeline

// Status is the qualification stage of a lead/session.
type Status string

const (
	StatusNew       Status = "new"
	StatusQualified Status = "qualified"
	StatusOfferSent Status = "offer_sent"
	StatusNeedHuman Status = "need_human"
	StatusSupport   Status = "support"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
)

// statusRanks orders statuses for display grouping only. Transitions are
// driven by classification rules, never by rank.
var statusRanks = map[Status]int{
	StatusNew:       1,
	StatusQualified: 2,
	StatusOfferSent: 3,
	StatusSupport:   3,
	StatusNeedHuman: 4,
	StatusWon:       5,
	StatusLost:      5,
}

// Valid reports whether s is one of the known pipeline statuses.
func (s Status) Valid() bool {
	_, ok := statusRanks[s]
	return ok
}

// Rank returns the display priority of the status, or 0 for unknown values.
func (s Status) Rank() int {
	return statusRanks[s]
}
