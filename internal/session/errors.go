package session

import "errors"

// Precondition errors. None of them indicate a broken session: they mean
// the requested mutation was declined and no state changed. The API layer
// maps them to client-side statuses.
var (
	ErrNoSession        = errors.New("no exam session loaded")
	ErrUnknownUnit      = errors.New("unit does not exist in the current session")
	ErrUnknownQuestion  = errors.New("question does not exist in the current session")
	ErrNoDraft          = errors.New("no draft answer to submit")
	ErrAlreadySubmitted = errors.New("unit already has a recorded result")
	ErrInFlight         = errors.New("a submission for this unit is already in flight")
	ErrEmptyQuestion    = errors.New("assistant question is empty")

	// ErrStaleSession is returned when an external call completes after the
	// session it belonged to was replaced by a new upload. The result is
	// discarded; the new session is untouched.
	ErrStaleSession = errors.New("response arrived after the session was replaced")
)
