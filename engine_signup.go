package goIdentity

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goIdentity/cache"
	"github.com/MrEthical07/goIdentity/password"
	"github.com/MrEthical07/goIdentity/token"
	"github.com/MrEthical07/goIdentity/user"
)

// VerifyCredentials stages a signup for email and mails a verification
// token. The password may be deferred to SignupWithToken.
func (e *Engine) VerifyCredentials(ctx context.Context, email user.Email, pw *password.Password) error {
	if e == nil || e.tokens == nil {
		return ErrEngineNotReady
	}
	e.metricInc(MetricSignupRequest)

	_, err := e.users.FindByEmail(ctx, email)
	if err == nil {
		e.metricInc(MetricSignupDuplicate)
		return ErrAlreadyExists
	}
	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	prelude := user.CredentialsPrelude{Email: email}
	if pw != nil {
		h, err := e.hasher.WithNewSalt(*pw)
		if err != nil {
			return err
		}
		prelude.Password = &h
	}

	key := prelude.Hash()
	claims, err := e.tokens.Issue(ctx, token.KindVerification, key)
	if err != nil {
		return err
	}
	if err := e.cache.Set(ctx, key, prelude, claims.Payload.Timeout(e.now())); err != nil {
		return err
	}
	return e.mailer.SendCredentialsVerificationEmail(ctx, email, claims.Token)
}

// SignupWithToken consumes a verification token, creates the user and
// returns a session.
func (e *Engine) SignupWithToken(ctx context.Context, tok token.Token, pw *password.Password) (*token.Claims, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.claimsOfKind(ctx, tok, token.KindVerification)
	if err != nil {
		return nil, err
	}

	key := claims.Payload.Subject
	prelude, err := cache.Find[user.CredentialsPrelude](ctx, e.cache, key)
	if err != nil {
		return nil, fmt.Errorf("load staged credentials: %w", err)
	}
	if prelude.Password == nil && pw != nil {
		h, err := e.hasher.WithNewSalt(*pw)
		if err != nil {
			return nil, err
		}
		prelude.Password = &h
	}
	creds, err := prelude.Credentials()
	if err != nil {
		return nil, err
	}

	u := user.New(creds)

	e.revoke(ctx, claims)
	e.forget(ctx, key)

	if err := e.users.Create(ctx, u); err != nil {
		return nil, err
	}
	e.metricInc(MetricSignupSuccess)

	return e.tokens.Issue(ctx, token.KindSession, u.ID.String())
}
