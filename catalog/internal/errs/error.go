package errs

import (
	"errors"
)

// Messages mirror the public API contract, so they read like responses
// rather than Go error strings.
var (
	ErrNotFound       = errors.New("Book not found")
	ErrMissingField   = errors.New("All fields are required")
	ErrPriceRequired  = errors.New("Price is required for paid books")
	ErrInvalidTier    = errors.New("Link must be free or paid")
	ErrDuplicateTitle = errors.New("Book with this title already exists")
)
