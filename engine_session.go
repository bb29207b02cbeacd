package goIdentity

import (
	"context"

	"github.com/MrEthical07/goIdentity/mfa"
	"github.com/MrEthical07/goIdentity/password"
	"github.com/MrEthical07/goIdentity/token"
	"github.com/MrEthical07/goIdentity/user"
)

// Login authenticates identity with pw and, when the user has a second
// factor, otp. It returns a new session.
func (e *Engine) Login(ctx context.Context, identity user.Identity, pw password.Password, otp *mfa.Otp) (*token.Claims, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	u, err := e.resolve(ctx, identity)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return nil, err
	}
	if err := e.checkPassword(u, pw); err != nil {
		e.metricInc(MetricLoginFailure)
		return nil, err
	}
	if err := e.verifyMultiFactor(ctx, u, otp); err != nil {
		return nil, err
	}

	claims, err := e.tokens.Issue(ctx, token.KindSession, u.ID.String())
	if err != nil {
		return nil, err
	}
	e.metricInc(MetricLoginSuccess)
	return claims, nil
}

// Logout revokes a session token.
func (e *Engine) Logout(ctx context.Context, tok token.Token) error {
	if e == nil || e.tokens == nil {
		return ErrEngineNotReady
	}
	claims, err := e.claimsOfKind(ctx, tok, token.KindSession)
	if err != nil {
		return err
	}
	if err := e.tokens.Revoke(ctx, claims); err != nil {
		return err
	}
	e.metricInc(MetricLogout)
	return nil
}

func (e *Engine) resolve(ctx context.Context, identity user.Identity) (*user.User, error) {
	if identity.IsEmail() {
		return e.users.FindByEmail(ctx, identity.Email)
	}
	if identity.Name == "" {
		return nil, ErrWrongCredentials
	}
	return e.users.FindByName(ctx, identity.Name)
}
