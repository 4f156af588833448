package service

import "errors"

// Every business failure wraps one of these sentinels so the HTTP layer
// can map it to a status code with errors.Is while the wrapped message
// keeps the specifics (which spot, which car, where it is parked).
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means a precondition failed, e.g. an inactive spot
	// or a check-out with no active session.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict means an occupancy uniqueness rule would be violated.
	// Under racing requests this is the expected outcome for the loser.
	ErrConflict = errors.New("conflict")
)
