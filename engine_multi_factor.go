package goIdentity

import (
	"context"

	"github.com/MrEthical07/goIdentity/mfa"
	"github.com/MrEthical07/goIdentity/password"
	"github.com/MrEthical07/goIdentity/token"
	"github.com/MrEthical07/goIdentity/user"
)

// EnableMultiFactorWithToken is EnableMultiFactor for the owner of a
// session token.
func (e *Engine) EnableMultiFactorWithToken(ctx context.Context, tok token.Token, method mfa.Method, pw password.Password, otp *mfa.Otp) error {
	id, err := e.sessionSubject(ctx, tok)
	if err != nil {
		return err
	}
	return e.EnableMultiFactor(ctx, id, method, pw, otp)
}

// EnableMultiFactor turns on method for id. Methods with an enrollment
// handshake fail with *mfa.AckError on the first call; the preference is
// persisted only once the method accepts.
func (e *Engine) EnableMultiFactor(ctx context.Context, id user.ID, method mfa.Method, pw password.Password, otp *mfa.Otp) error {
	if e == nil || e.users == nil {
		return ErrEngineNotReady
	}
	u, err := e.users.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := e.checkPassword(u, pw); err != nil {
		return err
	}
	current := u.Preferences.MultiFactor
	if current != "" && current != method {
		return ErrMethodMismatch
	}
	if current == "" {
		// A disable whose cleanup failed may have left state behind.
		if err := e.mfa.Release(ctx, u, method); err != nil {
			return err
		}
	}

	u.Preferences.MultiFactor = method
	err = e.mfa.Enable(ctx, u, otp)
	e.recordMultiFactor(u, err)
	if err != nil {
		return err
	}
	if err := e.users.Save(ctx, u); err != nil {
		return err
	}
	e.metricInc(MetricMFAEnabled)
	return nil
}

// DisableMultiFactorWithToken is DisableMultiFactor for the owner of a
// session token.
func (e *Engine) DisableMultiFactorWithToken(ctx context.Context, tok token.Token, method mfa.Method, pw password.Password, otp *mfa.Otp) error {
	id, err := e.sessionSubject(ctx, tok)
	if err != nil {
		return err
	}
	return e.DisableMultiFactor(ctx, id, method, pw, otp)
}

// DisableMultiFactor turns off method for id. The method checks otp; its
// durable state is released only after the cleared preference is saved.
func (e *Engine) DisableMultiFactor(ctx context.Context, id user.ID, method mfa.Method, pw password.Password, otp *mfa.Otp) error {
	if e == nil || e.users == nil {
		return ErrEngineNotReady
	}
	u, err := e.users.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := e.checkPassword(u, pw); err != nil {
		return err
	}
	if u.Preferences.MultiFactor == "" {
		return nil
	}
	if u.Preferences.MultiFactor != method {
		return ErrMethodMismatch
	}

	err = e.mfa.Disable(ctx, u, otp)
	e.recordMultiFactor(u, err)
	if err != nil {
		return err
	}
	u.Preferences.MultiFactor = ""
	if err := e.users.Save(ctx, u); err != nil {
		return err
	}
	if err := e.mfa.Release(ctx, u, method); err != nil {
		e.logger.WarnContext(ctx, "release multi-factor state", "user_id", u.ID, "method", method, "error", err)
	}
	e.metricInc(MetricMFADisabled)
	return nil
}

func (e *Engine) sessionSubject(ctx context.Context, tok token.Token) (user.ID, error) {
	if e == nil || e.tokens == nil {
		return user.ID{}, ErrEngineNotReady
	}
	claims, err := e.claimsOfKind(ctx, tok, token.KindSession)
	if err != nil {
		return user.ID{}, err
	}
	return subjectID(claims)
}
