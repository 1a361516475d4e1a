package goChallenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goChallenge/internal/stores"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const resetTicketPurposeClaim = "password_reset_ticket"

type resetTicketClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// VerifyPasswordReset runs the code check for a password-reset challenge
// and, on success, grants a short-lived reset ticket: a signed token the
// caller hands back through [Engine.ConsumeResetTicket] when the new
// credential is submitted.
//
// The ticket is single use and bound server-side to the subject; issuing a
// new one replaces any ticket still outstanding. Requires
// ResetTicketConfig.Enabled, otherwise [ErrResetTicketDisabled].
func (e *Engine) VerifyPasswordReset(ctx context.Context, subject, code string) (string, error) {
	if e.tickets == nil {
		return "", ErrEngineNotReady
	}
	if !e.config.ResetTicket.Enabled {
		return "", ErrResetTicketDisabled
	}

	payload, err := e.Verify(ctx, subject, PurposePasswordReset, code)
	if err != nil {
		return "", err
	}

	data, ok := payload.(*PasswordResetData)
	if !ok {
		return "", ErrChallengeInvalid
	}

	jti := uuid.NewString()
	now := time.Now()
	ttl := e.config.ResetTicket.TTL

	claims := resetTicketClaims{
		Purpose: resetTicketPurposeClaim,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.config.ResetTicket.SigningKey)
	if err != nil {
		return "", err
	}

	record := &resetTicketRecord{
		Email: data.Email,
		JTI:   jti,
	}
	if err := e.tickets.Save(ctx, subject, record, ttl); err != nil {
		return "", mapStoreErr(err)
	}

	return token, nil
}

// ConsumeResetTicket validates a ticket granted by
// [Engine.VerifyPasswordReset] and spends it, returning the email the
// ticket authorizes a credential rotation for.
//
// Both halves must agree: the signature and expiry of the presented token,
// and the live server-side record whose jti it names. A ticket already
// consumed, replaced by a newer grant, or expired on either side fails
// with [ErrResetTicketInvalid].
func (e *Engine) ConsumeResetTicket(ctx context.Context, token string) (string, error) {
	if e.tickets == nil {
		return "", ErrEngineNotReady
	}
	if !e.config.ResetTicket.Enabled {
		return "", ErrResetTicketDisabled
	}

	claims := &resetTicketClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return e.config.ResetTicket.SigningKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrResetTicketInvalid, err)
	}

	if claims.Purpose != resetTicketPurposeClaim || claims.Subject == "" || claims.ID == "" {
		return "", ErrResetTicketInvalid
	}

	record, err := e.tickets.Get(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) || errors.Is(err, errResetTicketRecordCorrupt) {
			return "", ErrResetTicketInvalid
		}
		return "", mapStoreErr(err)
	}

	if record.JTI != claims.ID {
		return "", ErrResetTicketInvalid
	}

	if err := e.tickets.Delete(ctx, claims.Subject); err != nil {
		return "", mapStoreErr(err)
	}

	return record.Email, nil
}
