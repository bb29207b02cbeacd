package token

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNotAToken reports a string that is not shaped like a compact JWS.
	ErrNotAToken = errors.New("not a token")
	// ErrJWT wraps every decoding or verification failure.
	ErrJWT = errors.New("invalid jwt")
	// ErrExpired additionally marks ErrJWT failures caused by expiry.
	ErrExpired = errors.New("token expired")
	// ErrMalformed additionally marks ErrJWT failures caused by bad encoding.
	ErrMalformed = errors.New("token malformed")
	// ErrRejected reports a verified token with no live cache entry.
	ErrRejected = errors.New("token rejected")
	// ErrCollision reports a cache entry that differs from the decoded payload.
	ErrCollision = errors.New("token collision")
	// ErrUnknownKind reports a kind with no configured lifetime.
	ErrUnknownKind = errors.New("unknown token kind")
)

// Kind is the capability a token grants.
type Kind string

const (
	KindSession      Kind = "session"
	KindVerification Kind = "verification"
	KindReset        Kind = "reset"
)

var tokenPattern = regexp.MustCompile(`^(?:[\w-]*\.){2}[\w-]*$`)

// Token is an encoded, signed token string.
type Token string

// Parse checks that s has the shape of a compact JWS. It does not verify it.
func Parse(s string) (Token, error) {
	if !tokenPattern.MatchString(s) {
		return "", ErrNotAToken
	}
	return Token(s), nil
}

func (t Token) String() string {
	return string(t)
}

// Payload is the claim set of a token. Timestamps are Unix seconds.
type Payload struct {
	JTI     string `json:"jti"`
	Issuer  string `json:"iss"`
	Subject string `json:"sub"`
	Expires int64  `json:"exp"`
	NotBef  int64  `json:"nbf"`
	Issued  int64  `json:"iat"`
	Kind    Kind   `json:"knd"`
}

// NewPayload builds a payload of kind for subject, valid from now for ttl,
// and derives its jti.
func NewPayload(kind Kind, issuer, subject string, now time.Time, ttl time.Duration) Payload {
	p := Payload{
		Issuer:  issuer,
		Subject: subject,
		Expires: now.Add(ttl).Unix(),
		NotBef:  now.Unix(),
		Issued:  now.Unix(),
		Kind:    kind,
	}
	p.JTI = p.hash()
	return p
}

// hash is the SHA-256 of every field except the jti. Identical payloads
// collide on purpose.
func (p Payload) hash() string {
	p.JTI = ""
	raw, _ := json.Marshal(p)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Timeout is the remaining lifetime at now.
func (p Payload) Timeout(now time.Time) time.Duration {
	return time.Unix(p.Expires, 0).Sub(now)
}

func (p Payload) GetExpirationTime() (*gjwt.NumericDate, error) {
	return gjwt.NewNumericDate(time.Unix(p.Expires, 0)), nil
}

func (p Payload) GetIssuedAt() (*gjwt.NumericDate, error) {
	return gjwt.NewNumericDate(time.Unix(p.Issued, 0)), nil
}

func (p Payload) GetNotBefore() (*gjwt.NumericDate, error) {
	return gjwt.NewNumericDate(time.Unix(p.NotBef, 0)), nil
}

func (p Payload) GetIssuer() (string, error) {
	return p.Issuer, nil
}

func (p Payload) GetSubject() (string, error) {
	return p.Subject, nil
}

func (p Payload) GetAudience() (gjwt.ClaimStrings, error) {
	return nil, nil
}

// Claims pairs a token with its decoded payload.
type Claims struct {
	Token   Token
	Payload Payload
}
