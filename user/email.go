package user

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNotAnEmail reports a string that is not a syntactically valid address.
var ErrNotAnEmail = errors.New("invalid email address")

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9+._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,63}$`)

// Email is a validated address. It may carry a "+tag" in the local part.
type Email string

// ParseEmail validates s.
func ParseEmail(s string) (Email, error) {
	if !emailPattern.MatchString(s) {
		return "", ErrNotAnEmail
	}
	return Email(s), nil
}

// Actual returns the address with any "+tag" removed from the local part.
func (e Email) Actual() Email {
	at := strings.LastIndexByte(string(e), '@')
	if at < 0 {
		return e
	}
	local, domain := string(e[:at]), string(e[at:])
	if plus := strings.IndexByte(local, '+'); plus >= 0 {
		local = local[:plus]
	}
	return Email(local + domain)
}

// Username is the local part up to the first '+' or '@'.
func (e Email) Username() string {
	s := string(e)
	if i := strings.IndexAny(s, "+@"); i >= 0 {
		return s[:i]
	}
	return s
}

func (e Email) String() string {
	return string(e)
}
