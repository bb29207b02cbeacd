package goIdentity

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goIdentity/jwt"
	"github.com/MrEthical07/goIdentity/mfa"
	"github.com/MrEthical07/goIdentity/password"
)

// Config is the full Engine configuration. It is copied at Build and never
// mutated afterwards.
type Config struct {
	Token       TokenConfig
	Password    PasswordConfig
	MultiFactor MultiFactorConfig
	Cache       CacheConfig
	Metrics     MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig configures signing and per-kind lifetimes.
type TokenConfig struct {
	Issuer        string
	SigningMethod string // "ed25519" (default), "es256" or "hs256"
	PrivateKey    []byte
	PublicKey     []byte
	KeyID         string
	Leeway        time.Duration

	SessionTTL      time.Duration
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds the Argon2id cost parameters.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  int
}

/*
====================================
MULTI-FACTOR CONFIG
====================================
*/

// MultiFactorConfig configures the built-in second factors.
type MultiFactorConfig struct {
	TOTPIssuer    string
	TOTPDigits    int
	TOTPPeriod    int
	TOTPAlgorithm string
	TOTPSkew      int
	// AckTimeout bounds the window between provisioning an app seed and
	// confirming it.
	AckTimeout time.Duration

	EmailOtpLength int
	EmailOtpTTL    time.Duration
}

// CacheConfig configures the Redis-backed cache.
type CacheConfig struct {
	RedisPrefix string
}

// MetricsConfig toggles in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns production defaults. Signing keys must still be
// supplied.
func DefaultConfig() Config {
	pw := password.DefaultConfig()
	totp := mfa.DefaultTOTPConfig()
	return Config{
		Token: TokenConfig{
			Issuer:          "goIdentity",
			SigningMethod:   string(jwt.MethodEd25519),
			Leeway:          5 * time.Second,
			SessionTTL:      24 * time.Hour,
			VerificationTTL: 10 * time.Minute,
			ResetTTL:        10 * time.Minute,
		},
		Password: PasswordConfig{
			Memory:      pw.Memory,
			Time:        pw.Time,
			Parallelism: pw.Parallelism,
			KeyLength:   pw.KeyLength,
			SaltLength:  pw.SaltLength,
		},
		MultiFactor: MultiFactorConfig{
			TOTPIssuer:     totp.Issuer,
			TOTPDigits:     totp.Digits,
			TOTPPeriod:     totp.Period,
			TOTPAlgorithm:  totp.Algorithm,
			TOTPSkew:       totp.Skew,
			AckTimeout:     5 * time.Minute,
			EmailOtpLength: 6,
			EmailOtpTTL:    5 * time.Minute,
		},
		Cache: CacheConfig{
			RedisPrefix: "gi",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the fields the Builder cannot default.
func (c *Config) Validate() error {
	switch jwt.SigningMethod(c.Token.SigningMethod) {
	case jwt.MethodEd25519, jwt.MethodES256:
		// PublicKey is derived from PrivateKey when omitted.
		if len(c.Token.PrivateKey) == 0 {
			return fmt.Errorf("%s requires PrivateKey", c.Token.SigningMethod)
		}
	case jwt.MethodHS256:
		if len(c.Token.PrivateKey) == 0 {
			return errors.New("hs256 requires PrivateKey")
		}
	default:
		return errors.New("unsupported token signing method")
	}
	// Expiry is stored in whole seconds, so a shorter lifetime can yield a
	// cache entry with no time left.
	if c.Token.SessionTTL < time.Second || c.Token.VerificationTTL < time.Second || c.Token.ResetTTL < time.Second {
		return errors.New("token lifetimes must be at least 1s")
	}
	if c.Token.VerificationTTL > 24*time.Hour || c.Token.ResetTTL > 24*time.Hour {
		return errors.New("verification and reset tokens must live at most 24h")
	}
	if c.MultiFactor.AckTimeout <= 0 {
		return errors.New("MultiFactor AckTimeout must be > 0")
	}
	if c.MultiFactor.EmailOtpTTL <= 0 {
		return errors.New("MultiFactor EmailOtpTTL must be > 0")
	}
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("latency histograms require metrics")
	}
	return nil
}

func (c Config) passwordConfig() password.Config {
	return password.Config{
		Memory:      c.Password.Memory,
		Time:        c.Password.Time,
		Parallelism: c.Password.Parallelism,
		KeyLength:   c.Password.KeyLength,
		SaltLength:  c.Password.SaltLength,
	}
}

func (c Config) totpConfig() mfa.TOTPConfig {
	return mfa.TOTPConfig{
		Issuer:    c.MultiFactor.TOTPIssuer,
		Digits:    c.MultiFactor.TOTPDigits,
		Period:    c.MultiFactor.TOTPPeriod,
		Algorithm: c.MultiFactor.TOTPAlgorithm,
		Skew:      c.MultiFactor.TOTPSkew,
	}
}

func cloneConfig(c Config) Config {
	out := c
	out.Token.PrivateKey = cloneBytes(c.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(c.Token.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
