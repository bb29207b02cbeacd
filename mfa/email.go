package mfa

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/MrEthical07/goIdentity/cache"
	"github.com/MrEthical07/goIdentity/internal"
	"github.com/MrEthical07/goIdentity/user"
)

const emailOtpSuffix = "::otp"

// Mailer delivers one-time passwords.
type Mailer interface {
	SendOTPEmail(ctx context.Context, to user.Email, otp Otp) error
}

// EmailConfig configures EmailMethod.
type EmailConfig struct {
	OtpLength int
	OtpTTL    time.Duration
	Logger    *slog.Logger
}

// EmailMethod mails a code on the first attempt and accepts it afterwards.
// Verify, Enable and Disable share the same challenge.
type EmailMethod struct {
	cache  cache.Cache
	mailer Mailer
	length int
	ttl    time.Duration
	logger *slog.Logger
}

// NewEmailMethod validates cfg and returns the strategy.
func NewEmailMethod(c cache.Cache, mailer Mailer, cfg EmailConfig) (*EmailMethod, error) {
	if c == nil || mailer == nil {
		return nil, errors.New("email method requires a cache and a mailer")
	}
	if cfg.OtpLength < 4 || cfg.OtpLength > 10 {
		return nil, errors.New("email otp length must be between 4 and 10")
	}
	if cfg.OtpTTL <= 0 {
		return nil, errors.New("email otp ttl must be positive")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &EmailMethod{cache: c, mailer: mailer, length: cfg.OtpLength, ttl: cfg.OtpTTL, logger: cfg.Logger}, nil
}

func (m *EmailMethod) Verify(ctx context.Context, u *user.User, otp *Otp) error {
	return m.challenge(ctx, u, otp)
}

func (m *EmailMethod) Enable(ctx context.Context, u *user.User, otp *Otp) error {
	return m.challenge(ctx, u, otp)
}

func (m *EmailMethod) Disable(ctx context.Context, u *user.User, otp *Otp) error {
	return m.challenge(ctx, u, otp)
}

// challenge issues a code when none is outstanding. Otherwise it consumes
// the outstanding code on a match and keeps it on a mismatch.
func (m *EmailMethod) challenge(ctx context.Context, u *user.User, otp *Otp) error {
	key := u.ID.String() + emailOtpSuffix

	var expected Otp
	err := m.cache.Get(ctx, key, &expected)
	if errors.Is(err, cache.ErrNotFound) {
		return m.send(ctx, u, key)
	}
	if err != nil {
		return err
	}

	if otp == nil {
		return ErrRequired
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(*otp)) != 1 {
		return ErrInvalid
	}
	if err := m.cache.Delete(ctx, key); err != nil {
		m.logger.WarnContext(ctx, "clear consumed email otp", "user_id", u.ID, "error", err)
	}
	return nil
}

func (m *EmailMethod) send(ctx context.Context, u *user.User, key string) error {
	code, err := internal.NewOTP(m.length)
	if err != nil {
		return err
	}
	otp := Otp(code)
	if err := m.cache.Set(ctx, key, otp, m.ttl); err != nil {
		return err
	}
	if err := m.mailer.SendOTPEmail(ctx, u.Credentials.Email, otp); err != nil {
		return err
	}
	return ErrRequired
}
