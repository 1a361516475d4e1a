// Package goChallenge provides a Redis-backed one-time-code challenge engine
// with fixed-window rate limiting, plus a deterministic query-fingerprint
// cache for memoizing read-heavy list and search queries.
//
// Both halves share one storage primitive: an ephemeral TTL key-value slot.
// Challenge flows (sign-up, password reset, email change) write hashed
// verifiers and purpose-tagged payloads into it; the query cache writes
// response bodies keyed by resource type and fingerprint.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. No in-process state is shared between requests; all
// coordination happens through Redis, where single-key operations are atomic.
//
// # Architecture boundaries
//
//   - goChallenge is the public surface. It exposes [Engine], [Builder],
//     [Config], the purpose-tagged payload types, and the [Notifier]
//     collaborator interface.
//   - Code delivery (email, SMS) is the caller's concern, reached only
//     through [Notifier]. A delivery failure never rolls back persisted
//     challenge state; the subject can request a resend within the window.
//   - Durable record storage is never touched. A successful verification
//     returns the stored payload; applying it (creating the account,
//     rotating the credential, swapping the email) is the caller's job.
//   - The engine emits no logs and performs no internal retries. Failures
//     surface as typed errors for the calling layer to map and retry.
//
// Fingerprint derivation is pure and lives in the fingerprint subpackage so
// request layers can compute cache keys without an Engine.
package goChallenge
