package mfa

import (
	"context"
	"errors"

	"github.com/MrEthical07/goIdentity/user"
)

var (
	// ErrNotAnOtp reports a code that is empty or not numeric.
	ErrNotAnOtp = errors.New("invalid one-time password format")
	// ErrMethodNotFound reports a user preference naming no registered method.
	ErrMethodNotFound = errors.New("multi-factor method not found")
	// ErrRequired reports that a one-time password must be supplied.
	ErrRequired = errors.New("one-time password required")
	// ErrInvalid reports a one-time password that does not match.
	ErrInvalid = errors.New("one-time password invalid")
	// ErrAck marks every *AckError.
	ErrAck = errors.New("multi-factor enrollment requires acknowledgement")
)

// Method names a second factor. It is stored in user preferences.
type Method = user.MultiFactorMethod

const (
	MethodApp   Method = "tp_app"
	MethodEmail Method = "email"
)

// Otp is a numeric one-time password.
type Otp string

// ParseOtp validates s.
func ParseOtp(s string) (Otp, error) {
	if s == "" {
		return "", ErrNotAnOtp
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", ErrNotAnOtp
		}
	}
	return Otp(s), nil
}

// AckError is returned by the first phase of an enrollment. The caller
// shows Seed (or URI as a QR code) to the user and repeats the call with a
// code generated from it.
type AckError struct {
	Seed string
	URI  string
}

func (e *AckError) Error() string {
	return ErrAck.Error()
}

func (e *AckError) Is(target error) bool {
	return target == ErrAck
}

// Service is implemented by every method.
//
// otp is nil when the caller supplied none.
type Service interface {
	Verify(ctx context.Context, u *user.User, otp *Otp) error
	Enable(ctx context.Context, u *user.User, otp *Otp) error
	Disable(ctx context.Context, u *user.User, otp *Otp) error
}

// Releaser is implemented by methods that keep durable state after Disable
// accepts a code. Release drops that state; callers invoke it once the user
// no longer references the method, and before a fresh enrollment.
type Releaser interface {
	Release(ctx context.Context, u *user.User) error
}
