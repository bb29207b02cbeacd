// Package mfa dispatches second-factor checks to per-method strategies.
//
// Two methods ship with the package:
//
//   - [AppMethod] validates TOTP codes from an authenticator app. Enabling
//     it is a two-phase handshake: the first call provisions a seed and
//     fails with an [*AckError] carrying it; the second call must present a
//     valid code for that seed, and only then is the seed persisted.
//   - [EmailMethod] mails a one-time code on the first attempt and accepts
//     it on a later attempt.
//
// The [Engine] registry is immutable once built and safe for concurrent use.
package mfa
