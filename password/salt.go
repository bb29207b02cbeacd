package password

import "github.com/MrEthical07/goIdentity/internal"

// DefaultSaltLength is the salt length used when none is configured.
const DefaultSaltLength = 32

// Salt is a non-empty alphanumeric string.
type Salt string

// NewSalt returns a random salt of n alphanumeric characters.
func NewSalt(n int) (Salt, error) {
	if n <= 0 {
		return "", ErrNotASalt
	}
	s, err := internal.RandomAlphanumeric(n)
	if err != nil {
		return "", err
	}
	return Salt(s), nil
}

// ParseSalt validates s.
func ParseSalt(s string) (Salt, error) {
	if s == "" {
		return "", ErrNotASalt
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return "", ErrNotASalt
		}
	}
	return Salt(s), nil
}
