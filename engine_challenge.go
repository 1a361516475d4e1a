package goChallenge

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goChallenge/internal"
	"github.com/MrEthical07/goChallenge/internal/stores"
	"golang.org/x/crypto/bcrypt"
)

// Issue generates a one-time code for (subject, payload.Purpose()), stores
// its bcrypt verifier together with the payload, and dispatches the
// plaintext code through the configured [Notifier].
//
// Issuance is bounded by ChallengeConfig.IssueLimit per window. A repeat
// issuance inside an open window replaces the code and payload but keeps
// the window's remaining TTL, and voids all prior verification attempts.
// The code is dispatched strictly after the state is persisted; a dispatch
// failure returns [ErrNotificationFailed] with the state intact, so the
// subject can request a resend.
func (e *Engine) Issue(ctx context.Context, subject string, payload Payload) error {
	if e.gate == nil || e.challenges == nil || e.notifier == nil {
		return ErrEngineNotReady
	}
	if subject == "" || payload == nil || !payload.Purpose().valid() {
		return ErrChallengeInvalid
	}

	purpose := payload.Purpose()
	cfg := e.config.Challenge

	count, err := e.gate.Hit(ctx, e.issueKey(purpose, subject), cfg.TTL)
	if err != nil {
		return mapStoreErr(err)
	}
	if count > int64(cfg.IssueLimit) {
		return ErrRateLimited
	}

	if cfg.EnableIPThrottle {
		if ip := clientIPFromContext(ctx); ip != "" {
			count, err := e.gate.Hit(ctx, e.issueIPKey(purpose, ip), cfg.TTL)
			if err != nil {
				return mapStoreErr(err)
			}
			if count > int64(cfg.IssueLimit) {
				return ErrRateLimited
			}
		}
	}

	code, err := internal.NewOTP(cfg.OTPDigits)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), cfg.HashCost)
	if err != nil {
		return err
	}

	record := &challengeRecord{
		Purpose:  purpose,
		CodeHash: hash,
		Payload:  payload,
	}

	// preserveTTL keeps the window anchored at first issuance; a resend
	// never grants the code five fresh minutes.
	if err := e.challenges.Save(ctx, subject, record, cfg.TTL, true); err != nil {
		if errors.Is(err, errChallengePayloadInvalid) {
			return ErrChallengeInvalid
		}
		return mapStoreErr(err)
	}

	// A fresh code voids attempts against the one it replaced.
	if err := e.gate.Reset(ctx, e.attemptKey(purpose, subject)); err != nil {
		return mapStoreErr(err)
	}

	if err := e.notifier.Send(ctx, deliveryAddress(subject, payload), subjectLine(purpose), messageBody(purpose, code)); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	return nil
}

// Verify checks a submitted code against the live challenge for
// (subject, purpose) and returns the stored payload on success.
//
// The attempt is counted before the code is examined, so a crash after the
// count persists still consumes the attempt. Outcomes:
//
//   - [ErrRateLimited]: the attempt budget for this window is spent.
//   - [ErrChallengeExpired]: no live record; the TTL lapsed, the challenge
//     was already consumed, or it was never issued.
//   - [ErrCodeInvalid]: wrong code; the subject may retry until the attempt
//     limit. The mismatch that reaches the limit destroys the record, so
//     the following call reports [ErrChallengeExpired].
//
// A correct code consumes the challenge: the record and both window
// counters are removed, and a repeat Verify with the same code fails.
func (e *Engine) Verify(ctx context.Context, subject string, purpose Purpose, code string) (Payload, error) {
	if e.gate == nil || e.challenges == nil {
		return nil, ErrEngineNotReady
	}
	if subject == "" || code == "" || !purpose.valid() {
		return nil, ErrChallengeInvalid
	}

	cfg := e.config.Challenge
	attemptKey := e.attemptKey(purpose, subject)

	count, err := e.gate.Hit(ctx, attemptKey, cfg.TTL)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if count > int64(cfg.AttemptLimit) {
		return nil, ErrRateLimited
	}

	record, err := e.challenges.Get(ctx, purpose, subject)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, ErrChallengeExpired
		}
		if errors.Is(err, errChallengeRecordCorrupt) {
			return nil, ErrChallengeExpired
		}
		return nil, mapStoreErr(err)
	}

	if bcrypt.CompareHashAndPassword(record.CodeHash, []byte(code)) != nil {
		if count >= int64(cfg.AttemptLimit) {
			// Terminal lockout: the exhausted challenge is destroyed and the
			// subject must start over with a fresh Issue.
			if err := e.challenges.Delete(ctx, purpose, subject); err != nil {
				return nil, mapStoreErr(err)
			}
			if err := e.gate.Reset(ctx, attemptKey); err != nil {
				return nil, mapStoreErr(err)
			}
		}
		return nil, ErrCodeInvalid
	}

	// Single use: consumption removes the record and closes the window.
	if err := e.challenges.Delete(ctx, purpose, subject); err != nil {
		return nil, mapStoreErr(err)
	}
	if err := e.gate.Reset(ctx, attemptKey, e.issueKey(purpose, subject)); err != nil {
		return nil, mapStoreErr(err)
	}

	return record.Payload, nil
}

// The code travels to the address the challenge is proving control of: for
// an email change that is the new address, otherwise the subject itself.
func deliveryAddress(subject string, payload Payload) string {
	if p, ok := payload.(*EmailChangeData); ok {
		return p.NewEmail
	}
	return subject
}

func subjectLine(purpose Purpose) string {
	switch purpose {
	case PurposeSignUp:
		return "Verification for sign up"
	case PurposePasswordReset:
		return "Reset password"
	case PurposeEmailChange:
		return "Change email"
	default:
		return "Verification"
	}
}

func messageBody(purpose Purpose, code string) string {
	switch purpose {
	case PurposePasswordReset:
		return "Use this code to reset password: " + code
	case PurposeEmailChange:
		return "Use this code to change email: " + code
	default:
		return "Verification code: " + code
	}
}
