package leads

import "errors"

var ErrInvalidContact = errors.New("leads: contact must be at least 3 characters")
