// Package user holds the identity data model: users, their credentials,
// the credentials staged while an email address is being verified, and the
// lifecycle events emitted when users are created or deleted.
package user
