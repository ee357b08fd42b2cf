package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNoActiveSession   = errors.New("no active session")
	ErrNoPendingCheckout = errors.New("no pending checkout")
	ErrSessionActive     = errors.New("a session is already active or awaiting checkout")

	ErrMalformedPayload = errors.New("invalid JSON payload")
	ErrNoSessionList    = errors.New("no session list found in payload")
	ErrNoValidSessions  = errors.New("no valid sessions found in payload")
)
