package goChallenge

import "errors"

var (
	// ErrRateLimited is an exported constant or variable used by the challenge engine.
	ErrRateLimited = errors.New("rate limited")
	// ErrCodeInvalid is an exported constant or variable used by the challenge engine.
	ErrCodeInvalid = errors.New("invalid one-time code")
	// ErrChallengeExpired is an exported constant or variable used by the challenge engine.
	ErrChallengeExpired = errors.New("challenge expired or not issued")
	// ErrChallengeInvalid is an exported constant or variable used by the challenge engine.
	ErrChallengeInvalid = errors.New("invalid challenge request")
	// ErrStoreUnavailable is an exported constant or variable used by the challenge engine.
	ErrStoreUnavailable = errors.New("ephemeral store unavailable")
	// ErrNotificationFailed is an exported constant or variable used by the challenge engine.
	ErrNotificationFailed = errors.New("notification dispatch failed")
	// ErrResetTicketInvalid is an exported constant or variable used by the challenge engine.
	ErrResetTicketInvalid = errors.New("reset ticket invalid")
	// ErrResetTicketDisabled is an exported constant or variable used by the challenge engine.
	ErrResetTicketDisabled = errors.New("reset tickets disabled")
	// ErrCacheKeyInvalid is an exported constant or variable used by the challenge engine.
	ErrCacheKeyInvalid = errors.New("invalid cache key")
	// ErrEngineNotReady is an exported constant or variable used by the challenge engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
