package goIdentity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goIdentity/cache"
	"github.com/MrEthical07/goIdentity/mfa"
	"github.com/MrEthical07/goIdentity/password"
	"github.com/MrEthical07/goIdentity/secret"
	"github.com/MrEthical07/goIdentity/token"
	"github.com/MrEthical07/goIdentity/user"
)

// Mailer delivers account tokens by email.
type Mailer interface {
	SendCredentialsVerificationEmail(ctx context.Context, to user.Email, tok token.Token) error
	SendCredentialsResetEmail(ctx context.Context, to user.Email, tok token.Token) error
}

// Engine implements the account flows. It holds no per-request state and
// is safe for concurrent use once built.
type Engine struct {
	config  Config
	users   user.Repository
	secrets secret.Repository
	tokens  token.Service
	mfa     *mfa.Engine
	hasher  *password.Hasher
	cache   cache.Cache
	mailer  Mailer
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

// MetricsSnapshot returns the current counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Tokens exposes the token service, for adapters that validate tokens
// without going through an account flow.
func (e *Engine) Tokens() token.Service {
	return e.tokens
}

// SessionClaims validates tok and requires it to be a session token.
func (e *Engine) SessionClaims(ctx context.Context, tok token.Token) (*token.Claims, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}
	start := e.now()
	claims, err := e.claimsOfKind(ctx, tok, token.KindSession)
	e.metrics.Observe(MetricValidateLatency, e.now().Sub(start))
	return claims, err
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) claimsOfKind(ctx context.Context, tok token.Token, kind token.Kind) (*token.Claims, error) {
	claims, err := e.tokens.Claims(ctx, tok)
	if err != nil {
		if errors.Is(err, token.ErrRejected) || errors.Is(err, token.ErrCollision) {
			e.metricInc(MetricTokenRejected)
		}
		return nil, err
	}
	if claims.Payload.Kind != kind {
		e.metricInc(MetricWrongToken)
		return nil, ErrWrongToken
	}
	return claims, nil
}

func subjectID(claims *token.Claims) (user.ID, error) {
	id, err := uuid.Parse(claims.Payload.Subject)
	if err != nil {
		return user.ID{}, fmt.Errorf("%w: subject is not a user id", ErrWrongToken)
	}
	return id, nil
}

func (e *Engine) checkPassword(u *user.User, p password.Password) error {
	ok, err := e.hasher.Matches(u.Credentials.Password, p)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWrongCredentials
	}
	return nil
}

// verifyMultiFactor runs the user's second factor and records the outcome.
func (e *Engine) verifyMultiFactor(ctx context.Context, u *user.User, otp *mfa.Otp) error {
	err := e.mfa.Verify(ctx, u, otp)
	e.recordMultiFactor(u, err)
	return err
}

func (e *Engine) recordMultiFactor(u *user.User, err error) {
	if u.Preferences.MultiFactor == "" {
		return
	}
	switch {
	case err == nil:
		e.metricInc(MetricMFASuccess)
	case errors.Is(err, mfa.ErrRequired):
		e.metricInc(MetricMFARequired)
	case errors.Is(err, mfa.ErrAck):
		e.metricInc(MetricMFAEnrollmentAck)
	default:
		e.metricInc(MetricMFAFailure)
	}
}

// revoke is best-effort: the calling flow has already committed.
func (e *Engine) revoke(ctx context.Context, claims *token.Claims) {
	if err := e.tokens.Revoke(ctx, claims); err != nil {
		e.metricInc(MetricBestEffortFailure)
		e.logger.WarnContext(ctx, "revoke consumed token",
			"kind", claims.Payload.Kind, "error", err)
	}
}

func (e *Engine) forget(ctx context.Context, key string) {
	if err := e.cache.Delete(ctx, key); err != nil {
		e.metricInc(MetricBestEffortFailure)
		e.logger.WarnContext(ctx, "clear consumed cache entry", "error", err)
	}
}
