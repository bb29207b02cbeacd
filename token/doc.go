// Package token issues, validates and revokes kind-typed capability tokens.
//
// A token is a signed JWT whose payload is also stored in the cache under
// its jti. A token is honored only while it is within [nbf, exp] and its
// cache entry exists and equals the decoded payload. Deleting the entry
// revokes the token; there is no other revocation path.
//
// The service does not enforce which kind a caller expects. Callers check
// Payload.Kind themselves.
package token
