package discovery

import "errors"

var (
	// input errors, reported to the caller as-is
	ErrInvalidPreferences = errors.New("invalid discovery preferences")
	ErrInvalidAction      = errors.New("invalid interaction action")
	ErrSelfInteraction    = errors.New("cannot interact with yourself")

	ErrProfileNotFound = errors.New("profile not found")

	// ErrStoreUnavailable means the action was not accepted and may be retried.
	ErrStoreUnavailable = errors.New("interaction store unavailable")

	ErrInteractionNotFound = errors.New("interaction not found")
	ErrMatchNotFound       = errors.New("match not found")
)
