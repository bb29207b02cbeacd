// Package password models raw passwords, per-user salts and salted Argon2id
// digests.
//
// A [Password] only exists once it satisfies the strength policy. A [Hash]
// is deterministic given (password, salt), so a stored digest is checked by
// recomputing it with the stored [Salt].
//
// This package never logs or persists plaintext.
package password
