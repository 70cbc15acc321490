package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotPending            = errors.New("not pending")
	ErrChallengeLimitReached = errors.New("challenge limit reached")
	ErrChallengeNotActive    = errors.New("challenge not active")
	ErrConflict              = errors.New("concurrent modification conflict")
	ErrStoreUnavailable      = errors.New("record store unavailable")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
