package goIdentity

import (
	"context"
	"errors"

	"github.com/MrEthical07/goIdentity/mfa"
	"github.com/MrEthical07/goIdentity/password"
	"github.com/MrEthical07/goIdentity/token"
	"github.com/MrEthical07/goIdentity/user"
)

// ConfirmPasswordReset mails a reset token to email. An unknown address
// returns nil so callers cannot enumerate accounts; it is logged and
// counted as MetricPasswordResetUnknownEmail.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, email user.Email) error {
	err := e.confirmPasswordReset(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		e.metricInc(MetricPasswordResetUnknownEmail)
		e.logger.InfoContext(ctx, "password reset requested for unknown email")
		return nil
	}
	return err
}

func (e *Engine) confirmPasswordReset(ctx context.Context, email user.Email) error {
	if e == nil || e.tokens == nil {
		return ErrEngineNotReady
	}
	e.metricInc(MetricPasswordResetRequest)

	u, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	claims, err := e.tokens.Issue(ctx, token.KindReset, u.ID.String())
	if err != nil {
		return err
	}
	return e.mailer.SendCredentialsResetEmail(ctx, u.Credentials.Email, claims.Token)
}

// ResetPasswordWithToken resets the password of the user a reset token was
// issued for. The token is revoked once the reset succeeds.
func (e *Engine) ResetPasswordWithToken(ctx context.Context, tok token.Token, pw password.Password, otp *mfa.Otp) error {
	if e == nil || e.tokens == nil {
		return ErrEngineNotReady
	}
	claims, err := e.claimsOfKind(ctx, tok, token.KindReset)
	if err != nil {
		return err
	}
	id, err := subjectID(claims)
	if err != nil {
		return err
	}
	if err := e.ResetPassword(ctx, id, pw, otp); err != nil {
		return err
	}
	e.revoke(ctx, claims)
	return nil
}

// ResetPassword re-salts and re-hashes the password of id. Setting the
// current password again is a no-op.
func (e *Engine) ResetPassword(ctx context.Context, id user.ID, pw password.Password, otp *mfa.Otp) error {
	if e == nil || e.users == nil {
		return ErrEngineNotReady
	}
	u, err := e.users.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := e.verifyMultiFactor(ctx, u, otp); err != nil {
		return err
	}

	same, err := e.hasher.Matches(u.Credentials.Password, pw)
	if err != nil {
		return err
	}
	if same {
		e.metricInc(MetricPasswordResetNoop)
		return nil
	}

	h, err := e.hasher.WithNewSalt(pw)
	if err != nil {
		return err
	}
	u.Credentials.Password = h
	if err := e.users.Save(ctx, u); err != nil {
		return err
	}
	e.metricInc(MetricPasswordResetSuccess)
	return nil
}
