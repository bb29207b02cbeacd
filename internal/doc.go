// Package internal holds random generation helpers shared by the password
// and mfa packages. Every value comes from crypto/rand.
package internal
