// Package stores wraps the external TTL key-value service. It owns nothing
// but key I/O: serialization of challenge and cache records, and all key
// naming, live with their owners in the root package.
package stores
