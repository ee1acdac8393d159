package booking

import "errors"

var (
	// ErrBadDate indicates the free-text date could not be parsed into a
	// real calendar date.
	ErrBadDate = errors.New("booking: bad date")

	// ErrMissingCalendarID indicates no target calendar is configured.
	ErrMissingCalendarID = errors.New("booking: missing calendar id")

	// ErrMissingCredentials indicates no service-account keyfile is configured.
	ErrMissingCredentials = errors.New("booking: missing google credentials")
)
