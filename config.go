package goChallenge

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config defines a public type used by goChallenge APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Challenge   ChallengeConfig
	ResetTicket ResetTicketConfig
	Cache       CacheConfig
}

/*
====================================
CHALLENGE CONFIG
====================================
*/

// ChallengeConfig defines a public type used by goChallenge APIs.
//
// ChallengeConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ChallengeConfig struct {
	// TTL is the challenge window. Repeated issuances within the window
	// preserve the remaining TTL; the window is anchored at first issuance
	// and never extended by activity inside it.
	TTL time.Duration
	// IssueLimit bounds how many codes may be sent per subject+purpose
	// within one window.
	IssueLimit int
	// AttemptLimit bounds verification attempts against the current code.
	// A fresh issuance voids prior attempts.
	AttemptLimit int
	OTPDigits    int
	// HashCost is the bcrypt cost for the stored code verifier.
	HashCost int
	// EnableIPThrottle additionally counts issuances per client IP
	// (see WithClientIP) against IssueLimit.
	EnableIPThrottle bool
	RedisPrefix      string
}

// ResetTicketConfig defines a public type used by goChallenge APIs.
//
// ResetTicketConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ResetTicketConfig struct {
	Enabled bool
	// TTL bounds the gap between a verified reset code and the actual
	// credential rotation.
	TTL        time.Duration
	SigningKey []byte // HMAC-SHA256, >= 32 bytes
}

// CacheConfig defines a public type used by goChallenge APIs.
//
// CacheConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CacheConfig struct {
	// DefaultTTL applies when CacheStore is called with a non-positive TTL.
	// It also bounds staleness: invalidation is fingerprint-scoped, so
	// entries covering a mutated record but cached under another query
	// shape live at most this long.
	DefaultTTL  time.Duration
	RedisPrefix string
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Challenge: ChallengeConfig{
			TTL:              5 * time.Minute,
			IssueLimit:       7,
			AttemptLimit:     5,
			OTPDigits:        6,
			HashCost:         bcrypt.DefaultCost,
			EnableIPThrottle: false,
			RedisPrefix:      "gc",
		},
		ResetTicket: ResetTicketConfig{
			Enabled: false,
			TTL:     5 * time.Minute,
		},
		Cache: CacheConfig{
			DefaultTTL:  5 * time.Minute,
			RedisPrefix: "gq",
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.ResetTicket.SigningKey = cloneBytes(cfg.ResetTicket.SigningKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Challenge
	if c.Challenge.TTL <= 0 {
		return errors.New("Challenge TTL must be > 0")
	}
	if c.Challenge.IssueLimit <= 0 {
		return errors.New("Challenge IssueLimit must be > 0")
	}
	if c.Challenge.AttemptLimit <= 0 {
		return errors.New("Challenge AttemptLimit must be > 0")
	}
	if c.Challenge.OTPDigits < 6 || c.Challenge.OTPDigits > 10 {
		return errors.New("Challenge OTPDigits must be between 6 and 10")
	}
	if c.Challenge.HashCost < bcrypt.MinCost || c.Challenge.HashCost > bcrypt.MaxCost {
		return errors.New("Challenge HashCost is outside bcrypt bounds")
	}
	if c.Challenge.RedisPrefix == "" {
		return errors.New("Challenge RedisPrefix must not be empty")
	}

	// Reset ticket
	if c.ResetTicket.Enabled {
		if c.ResetTicket.TTL <= 0 {
			return errors.New("ResetTicket TTL must be > 0")
		}
		if len(c.ResetTicket.SigningKey) < 32 {
			return errors.New("ResetTicket SigningKey must be >= 256 bits")
		}
	}

	// Cache
	if c.Cache.DefaultTTL <= 0 {
		return errors.New("Cache DefaultTTL must be > 0")
	}
	if c.Cache.RedisPrefix == "" {
		return errors.New("Cache RedisPrefix must not be empty")
	}
	if c.Cache.RedisPrefix == c.Challenge.RedisPrefix {
		return errors.New("Cache RedisPrefix must differ from Challenge RedisPrefix")
	}

	return nil
}
