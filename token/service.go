package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/goIdentity/cache"
	"github.com/MrEthical07/goIdentity/jwt"
)

// Service is the token lifecycle contract.
type Service interface {
	Issue(ctx context.Context, kind Kind, subject string) (*Claims, error)
	Claims(ctx context.Context, tok Token) (*Claims, error)
	Revoke(ctx context.Context, claims *Claims) error
}

// Config holds per-kind lifetimes.
type Config struct {
	Lifetimes map[Kind]time.Duration
	Now       func() time.Time
}

// DefaultConfig returns the default lifetimes.
func DefaultConfig() Config {
	return Config{
		Lifetimes: map[Kind]time.Duration{
			KindSession:      24 * time.Hour,
			KindVerification: 10 * time.Minute,
			KindReset:        10 * time.Minute,
		},
	}
}

// JWTService implements Service over a jwt.Manager and a cache.Cache.
type JWTService struct {
	jwt       *jwt.Manager
	cache     cache.Cache
	lifetimes map[Kind]time.Duration
	now       func() time.Time
}

// NewJWTService returns a Service. Lifetimes must be positive.
func NewJWTService(m *jwt.Manager, c cache.Cache, cfg Config) (*JWTService, error) {
	if m == nil || c == nil {
		return nil, errors.New("token service requires a jwt manager and a cache")
	}
	lifetimes := make(map[Kind]time.Duration, len(cfg.Lifetimes))
	for k, d := range cfg.Lifetimes {
		if d <= 0 {
			return nil, fmt.Errorf("invalid lifetime for %s tokens", k)
		}
		lifetimes[k] = d
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &JWTService{jwt: m, cache: c, lifetimes: lifetimes, now: now}, nil
}

// Lifetime returns the configured lifetime of kind.
func (s *JWTService) Lifetime(kind Kind) (time.Duration, bool) {
	d, ok := s.lifetimes[kind]
	return d, ok
}

// Issue signs a new token and stores its payload for the token lifetime.
func (s *JWTService) Issue(ctx context.Context, kind Kind, subject string) (*Claims, error) {
	ttl, ok := s.lifetimes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	now := s.now()
	payload := NewPayload(kind, s.jwt.Issuer(), subject, now, ttl)

	signed, err := s.jwt.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: sign: %v", ErrJWT, err)
	}
	tok, err := Parse(signed)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, payload.JTI, payload, payload.Timeout(now)); err != nil {
		return nil, err
	}
	return &Claims{Token: tok, Payload: payload}, nil
}

// Claims verifies tok and checks it against its cache entry.
func (s *JWTService) Claims(ctx context.Context, tok Token) (*Claims, error) {
	if _, err := Parse(string(tok)); err != nil {
		return nil, err
	}

	var payload Payload
	if err := s.jwt.Parse(string(tok), &payload); err != nil {
		switch {
		case errors.Is(err, gjwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w: %w", ErrJWT, ErrExpired, err)
		case errors.Is(err, gjwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w: %w", ErrJWT, ErrMalformed, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrJWT, err)
		}
	}

	stored, err := cache.Find[Payload](ctx, s.cache, payload.JTI)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrRejected
	}
	if err != nil {
		return nil, err
	}
	if *stored != payload {
		return nil, ErrCollision
	}
	return &Claims{Token: tok, Payload: payload}, nil
}

// Revoke deletes the cache entry of claims. Revoking twice is harmless.
func (s *JWTService) Revoke(ctx context.Context, claims *Claims) error {
	return s.cache.Delete(ctx, claims.Payload.JTI)
}
