package password

import (
	"errors"
	"unicode"
)

const minPasswordLength = 8

var (
	// ErrNotAPassword reports a raw string that fails the strength policy.
	ErrNotAPassword = errors.New("password does not meet policy")
	// ErrNotASalt reports an empty or non-alphanumeric salt.
	ErrNotASalt = errors.New("invalid salt")
	// ErrHash reports a misconfigured or failing key derivation.
	ErrHash = errors.New("password hashing failed")
)

// Password is a raw, policy-checked password.
type Password string

// New validates raw: at least 8 characters, one lowercase, one uppercase,
// one digit and one non-alphanumeric character.
func New(raw string) (Password, error) {
	if len([]rune(raw)) < minPasswordLength {
		return "", ErrNotAPassword
	}
	var lower, upper, digit, special bool
	for _, r := range raw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			special = true
		}
	}
	if !lower || !upper || !digit || !special {
		return "", ErrNotAPassword
	}
	return Password(raw), nil
}

// MustNew is New for literals known to be valid. It panics otherwise.
func MustNew(raw string) Password {
	p, err := New(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String hides the value so a Password never ends up in logs by accident.
func (p Password) String() string {
	return "********"
}
