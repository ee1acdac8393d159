package assistant

import (
	"errors"
	"fmt"
)

var (
	// ErrRunFailed indicates the remote run reached a non-success terminal
	// state (failed, cancelled or expired). Not retried within the same turn.
	ErrRunFailed = errors.New("assistant: run failed")

	// ErrRunTimeout indicates polling exhausted its attempt budget without
	// the run reaching a terminal state.
	ErrRunTimeout = errors.New("assistant: run polling timed out")

	// ErrEmptyReply indicates a completed run produced no assistant message.
	ErrEmptyReply = errors.New("assistant: empty reply")
)

// APIError reports a rejected or failed call to the remote conversation API.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("assistant: %s failed: status %d: %s", e.Op, e.Status, e.Body)
}
