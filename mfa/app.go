package mfa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrEthical07/goIdentity/cache"
	"github.com/MrEthical07/goIdentity/secret"
	"github.com/MrEthical07/goIdentity/user"
)

const pendingSeedSuffix = "::totp"

// AppConfig configures AppMethod.
type AppConfig struct {
	TOTP TOTPConfig
	// AckTimeout bounds how long a provisioned seed waits for confirmation.
	AckTimeout time.Duration
	Now        func() time.Time
	Logger     *slog.Logger
}

// AppMethod is the third-party authenticator app strategy.
type AppMethod struct {
	secrets secret.Repository
	cache   cache.Cache
	totp    *totp
	ackTTL  time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewAppMethod validates cfg and returns the strategy.
func NewAppMethod(secrets secret.Repository, c cache.Cache, cfg AppConfig) (*AppMethod, error) {
	if secrets == nil || c == nil {
		return nil, errors.New("app method requires a secret repository and a cache")
	}
	if err := cfg.TOTP.validate(); err != nil {
		return nil, err
	}
	if cfg.AckTimeout <= 0 {
		return nil, errors.New("app method ack timeout must be positive")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &AppMethod{
		secrets: secrets,
		cache:   c,
		totp:    &totp{config: cfg.TOTP},
		ackTTL:  cfg.AckTimeout,
		now:     cfg.Now,
		logger:  cfg.Logger,
	}, nil
}

func pendingKey(u *user.User) string {
	return u.ID.String() + pendingSeedSuffix
}

// Verify checks otp against the committed seed.
func (m *AppMethod) Verify(ctx context.Context, u *user.User, otp *Otp) error {
	_, err := m.verifyCommitted(ctx, u, otp)
	return err
}

// Enable runs the two-phase enrollment. Without a pending seed it
// provisions one and returns *AckError. With a pending seed it requires a
// valid code for it and commits the seed.
func (m *AppMethod) Enable(ctx context.Context, u *user.User, otp *Otp) error {
	if _, err := m.secrets.FindByOwnerAndKind(ctx, u.ID, secret.KindOtp); err == nil {
		return nil
	} else if !errors.Is(err, secret.ErrNotFound) {
		return err
	}

	key := pendingKey(u)
	var seed string
	err := m.cache.Get(ctx, key, &seed)
	if errors.Is(err, cache.ErrNotFound) {
		return m.provision(ctx, u, key)
	}
	if err != nil {
		return err
	}

	if otp == nil {
		return ErrRequired
	}
	ok, err := m.totp.verify(seed, *otp, m.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalid
	}

	if err := m.secrets.Create(ctx, secret.New(u.ID, secret.KindOtp, []byte(seed))); err != nil {
		return fmt.Errorf("store totp seed: %w", err)
	}
	if err := m.cache.Delete(ctx, key); err != nil {
		m.logger.WarnContext(ctx, "clear pending totp seed", "user_id", u.ID, "error", err)
	}
	return nil
}

// Disable checks otp against the committed seed. The seed stays until
// Release, so a user whose preference could not be cleared keeps a working
// second factor.
func (m *AppMethod) Disable(ctx context.Context, u *user.User, otp *Otp) error {
	_, err := m.verifyCommitted(ctx, u, otp)
	return err
}

// Release deletes the committed seed, if any.
func (m *AppMethod) Release(ctx context.Context, u *user.User) error {
	s, err := m.secrets.FindByOwnerAndKind(ctx, u.ID, secret.KindOtp)
	if errors.Is(err, secret.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := m.secrets.Delete(ctx, s); err != nil && !errors.Is(err, secret.ErrNotFound) {
		return err
	}
	return nil
}

func (m *AppMethod) provision(ctx context.Context, u *user.User, key string) error {
	seed, err := m.totp.newSeed()
	if err != nil {
		return err
	}
	if err := m.cache.Set(ctx, key, seed, m.ackTTL); err != nil {
		return err
	}
	return &AckError{
		Seed: seed,
		URI:  m.totp.provisionURI(seed, u.Credentials.Email.String()),
	}
}

func (m *AppMethod) verifyCommitted(ctx context.Context, u *user.User, otp *Otp) (*secret.Secret, error) {
	if otp == nil {
		return nil, ErrRequired
	}
	s, err := m.secrets.FindByOwnerAndKind(ctx, u.ID, secret.KindOtp)
	if err != nil {
		return nil, err
	}
	ok, err := m.totp.verify(string(s.Data), *otp, m.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalid
	}
	return s, nil
}
