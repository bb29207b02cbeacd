// Package jwt signs and verifies compact JWS tokens over caller-supplied
// claims. It pins the configured algorithm, optional key id, issuer and
// audience; claim semantics beyond the registered ones belong to the caller.
package jwt
