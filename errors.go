package goIdentity

import (
	"errors"

	"github.com/MrEthical07/goIdentity/user"
)

var (
	// ErrNotFound is returned when the addressed user does not exist.
	ErrNotFound = user.ErrNotFound
	// ErrAlreadyExists is returned for a registered email, both by
	// VerifyCredentials and by a SignupWithToken that lost a race.
	ErrAlreadyExists = user.ErrExists
	// ErrWrongCredentials is returned when a password does not match.
	ErrWrongCredentials = errors.New("wrong credentials")
	// ErrWrongToken is returned when a valid token has the wrong kind or subject.
	ErrWrongToken = errors.New("wrong token")
	// ErrUncomplete is returned when signup has no password to finalize with.
	ErrUncomplete = user.ErrUncomplete
	// ErrMethodMismatch is returned when a multi-factor toggle names a method
	// other than the one currently enabled.
	ErrMethodMismatch = errors.New("multi-factor method mismatch")
	// ErrEngineNotReady is returned by a nil or partially built Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
