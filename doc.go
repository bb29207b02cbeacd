// Package goIdentity is an identity and credential service core.
//
// The [Engine] composes a token service (package token), a multi-factor
// registry (package mfa), Argon2id password digests (package password) and
// user and secret repositories into the account flows: email-verified
// signup, login, logout, password reset, account deletion and toggling a
// second factor.
//
// Tokens are short-lived JWTs of three kinds. Session tokens authenticate
// a user, Verification tokens carry a staged signup, and Reset tokens
// authorize a password change. Every token is also recorded in the cache,
// so revoking it is a cache delete.
//
// Construct an Engine with the [Builder]:
//
//	engine, err := goIdentity.New().
//		WithConfig(cfg).
//		WithRedis(rdb).
//		WithUserRepository(users).
//		WithSecretRepository(secrets).
//		WithMailer(mailer).
//		Build()
//
// Adapters live in subpackages: postgres (repositories and migrations),
// mail (SMTP), outbox (event publishing), middleware (HTTP guard) and
// metrics/export (Prometheus and OpenTelemetry).
package goIdentity
