package domain

import "errors"

// Error kinds surfaced by the orchestrator. Remote failures keep the remote's
// message in the wrap; callers classify with errors.Is.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrPaymentIDRequired = errors.New("payment id required")
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	ErrRemoteRejected    = errors.New("remote service rejected request")
)
