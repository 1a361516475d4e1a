// Package fingerprint derives short, stable cache-key digests from query
// shapes and binary payloads. Derivation is pure: equal canonicalized input
// always yields identical output, with no randomness or machine-local state.
//
// Digests are truncated SHA-256 (32 hex characters, 128-bit equivalent).
// The collision risk is accepted as negligible at cache-key scale; the
// digest is not hardened against adversarial input.
package fingerprint
