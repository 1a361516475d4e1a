package goChallenge

import "context"

// Purpose defines a public type used by goChallenge APIs.
//
// Purpose distinguishes concurrent challenges for the same subject: a
// pending sign-up code and a pending password-reset code for one email
// address occupy separate slots and separate rate-limit windows.
type Purpose int

const (
	// PurposeSignUp is an exported constant or variable used by the challenge engine.
	PurposeSignUp Purpose = iota
	// PurposePasswordReset is an exported constant or variable used by the challenge engine.
	PurposePasswordReset
	// PurposeEmailChange is an exported constant or variable used by the challenge engine.
	PurposeEmailChange
)

func (p Purpose) String() string {
	switch p {
	case PurposeSignUp:
		return "sign_up"
	case PurposePasswordReset:
		return "password_reset"
	case PurposeEmailChange:
		return "email_change"
	default:
		return "unknown"
	}
}

func (p Purpose) valid() bool {
	switch p {
	case PurposeSignUp, PurposePasswordReset, PurposeEmailChange:
		return true
	default:
		return false
	}
}

// Payload is the purpose-tagged data a challenge carries from issuance to
// verification. Each purpose has a fixed field set; the engine stores the
// payload alongside the hashed code and hands it back on a correct code.
type Payload interface {
	// Purpose reports which challenge slot and rate-limit window the
	// payload belongs to.
	Purpose() Purpose
}

// SignUpData defines a public type used by goChallenge APIs.
//
// SignUpData holds the pending account fields captured at sign-up, returned
// on verification so the caller can create the durable record. PasswordHash
// must already be hashed by the caller; the engine never sees plaintext
// credentials other than the one-time code.
type SignUpData struct {
	Name         string
	Email        string
	PasswordHash string
}

// Purpose implements [Payload].
func (d *SignUpData) Purpose() Purpose { return PurposeSignUp }

// PasswordResetData defines a public type used by goChallenge APIs.
type PasswordResetData struct {
	Email string
}

// Purpose implements [Payload].
func (d *PasswordResetData) Purpose() Purpose { return PurposePasswordReset }

// EmailChangeData defines a public type used by goChallenge APIs.
//
// The one-time code is delivered to NewEmail, proving the subject controls
// the address before the caller applies the swap.
type EmailChangeData struct {
	NewEmail string
}

// Purpose implements [Payload].
func (d *EmailChangeData) Purpose() Purpose { return PurposeEmailChange }

// Notifier delivers a plaintext one-time code out of band. Implementations
// are provided by the caller (email, SMS). Send is invoked strictly after
// the challenge state is persisted; a Send failure leaves that state intact.
type Notifier interface {
	Send(ctx context.Context, address, subject, body string) error
}
