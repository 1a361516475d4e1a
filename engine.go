package goChallenge

import (
	"errors"

	"github.com/MrEthical07/goChallenge/internal/rate"
	"github.com/MrEthical07/goChallenge/internal/stores"
)

// Engine defines a public type used by goChallenge APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config     Config
	gate       *rate.Gate
	challenges *challengeStore
	tickets    *resetTicketStore
	cache      *cacheStore
	notifier   Notifier
}

// Counter keys derive from the challenge prefix the way record keys do,
// with a discriminating suffix per counter kind.
func (e *Engine) issueKey(purpose Purpose, subject string) string {
	return e.config.Challenge.RedisPrefix + "i:" + purpose.String() + ":" + subject
}

func (e *Engine) attemptKey(purpose Purpose, subject string) string {
	return e.config.Challenge.RedisPrefix + "a:" + purpose.String() + ":" + subject
}

func (e *Engine) issueIPKey(purpose Purpose, ip string) string {
	return e.config.Challenge.RedisPrefix + "ip:" + purpose.String() + ":" + ip
}

// mapStoreErr collapses transport-level failures from any storage layer to
// the public sentinel. Absence is handled at call sites before this runs.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, stores.ErrRedisUnavailable),
		errors.Is(err, rate.ErrRedisUnavailable):
		return ErrStoreUnavailable
	default:
		return ErrStoreUnavailable
	}
}
