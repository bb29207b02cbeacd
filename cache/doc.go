// Package cache defines the key/value store backing token revocation,
// staged signup credentials and pending multi-factor challenges.
//
// Values are JSON encoded. Every write carries a TTL; expiry is delegated to
// the backend.
package cache
