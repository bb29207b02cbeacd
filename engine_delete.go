package goIdentity

import (
	"context"

	"github.com/MrEthical07/goIdentity/mfa"
	"github.com/MrEthical07/goIdentity/password"
	"github.com/MrEthical07/goIdentity/token"
	"github.com/MrEthical07/goIdentity/user"
)

// DeleteWithToken deletes the user owning a session token and revokes it.
func (e *Engine) DeleteWithToken(ctx context.Context, tok token.Token, pw password.Password, otp *mfa.Otp) error {
	if e == nil || e.tokens == nil {
		return ErrEngineNotReady
	}
	claims, err := e.claimsOfKind(ctx, tok, token.KindSession)
	if err != nil {
		return err
	}
	id, err := subjectID(claims)
	if err != nil {
		return err
	}
	if err := e.Delete(ctx, id, pw, otp); err != nil {
		return err
	}
	e.revoke(ctx, claims)
	return nil
}

// Delete removes a user. The user repository removes the user's secrets in
// the same write; the sweep afterwards only catches repositories that keep
// them elsewhere.
func (e *Engine) Delete(ctx context.Context, id user.ID, pw password.Password, otp *mfa.Otp) error {
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
	if err := e.verifyMultiFactor(ctx, u, otp); err != nil {
		return err
	}

	if err := e.users.Delete(ctx, u); err != nil {
		return err
	}
	if err := e.secrets.DeleteByOwner(ctx, u.ID); err != nil {
		e.logger.WarnContext(ctx, "sweep secrets of deleted user", "user_id", u.ID, "error", err)
	}
	e.metricInc(MetricAccountDeleted)
	return nil
}
