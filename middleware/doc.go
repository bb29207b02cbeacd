// Package middleware adapts session validation to net/http.
//
// [Guard] rejects requests without a live session token with 401.
// [Optional] attaches the session when one is presented and otherwise lets
// the request through. Both read "Authorization: Bearer <token>", delegate
// to SessionClaims and store the claims with goIdentity.WithSession.
package middleware
