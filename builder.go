package goIdentity

import (
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goIdentity/cache"
	"github.com/MrEthical07/goIdentity/jwt"
	"github.com/MrEthical07/goIdentity/mfa"
	"github.com/MrEthical07/goIdentity/password"
	"github.com/MrEthical07/goIdentity/secret"
	"github.com/MrEthical07/goIdentity/token"
	"github.com/MrEthical07/goIdentity/user"
)

// Builder assembles an Engine. A Builder can be used once.
type Builder struct {
	config  Config
	redis   redis.UniversalClient
	cache   cache.Cache
	users   user.Repository
	secrets secret.Repository
	mailer  Mailer
	otpMail mfa.Mailer
	logger  *slog.Logger
	now     func() time.Time
	methods []mfa.Registration

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis backs the cache with rdb. Ignored when WithCache is also used.
func (b *Builder) WithRedis(rdb redis.UniversalClient) *Builder {
	b.redis = rdb
	return b
}

func (b *Builder) WithCache(c cache.Cache) *Builder {
	b.cache = c
	return b
}

func (b *Builder) WithUserRepository(r user.Repository) *Builder {
	b.users = r
	return b
}

func (b *Builder) WithSecretRepository(r secret.Repository) *Builder {
	b.secrets = r
	return b
}

// WithMailer sets the account mailer. If m also implements mfa.Mailer it
// delivers one-time passwords too.
func (b *Builder) WithMailer(m Mailer) *Builder {
	b.mailer = m
	if om, ok := m.(mfa.Mailer); ok && b.otpMail == nil {
		b.otpMail = om
	}
	return b
}

func (b *Builder) WithOTPMailer(m mfa.Mailer) *Builder {
	b.otpMail = m
	return b
}

func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithClock overrides the time source for tokens and TOTP checks.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithMultiFactor registers an extra second factor, or replaces a built-in
// one of the same name.
func (b *Builder) WithMultiFactor(method mfa.Method, s mfa.Service) *Builder {
	b.methods = append(b.methods, mfa.Registration{Method: method, Service: s})
	return b
}

// Build validates the configuration and wires the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := b.cache
	if c == nil {
		if b.redis == nil {
			return nil, errors.New("redis client or cache required")
		}
		c = cache.NewRedisCache(b.redis, cfg.Cache.RedisPrefix)
	}
	if b.users == nil {
		return nil, errors.New("user repository required")
	}
	if b.secrets == nil {
		return nil, errors.New("secret repository required")
	}
	if b.mailer == nil {
		return nil, errors.New("mailer required")
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	now := b.now
	if now == nil {
		now = time.Now
	}

	jm, err := jwt.NewManager(jwt.Config{
		SigningMethod: jwt.SigningMethod(cfg.Token.SigningMethod),
		PrivateKey:    cloneBytes(cfg.Token.PrivateKey),
		PublicKey:     cloneBytes(cfg.Token.PublicKey),
		Issuer:        cfg.Token.Issuer,
		Leeway:        cfg.Token.Leeway,
		KeyID:         cfg.Token.KeyID,
		Now:           now,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewJWTService(jm, c, token.Config{
		Lifetimes: map[token.Kind]time.Duration{
			token.KindSession:      cfg.Token.SessionTTL,
			token.KindVerification: cfg.Token.VerificationTTL,
			token.KindReset:        cfg.Token.ResetTTL,
		},
		Now: now,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(cfg.passwordConfig())
	if err != nil {
		return nil, err
	}

	app, err := mfa.NewAppMethod(b.secrets, c, mfa.AppConfig{
		TOTP:       cfg.totpConfig(),
		AckTimeout: cfg.MultiFactor.AckTimeout,
		Now:        now,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	regs := []mfa.Registration{{Method: mfa.MethodApp, Service: app}}

	if b.otpMail != nil {
		email, err := mfa.NewEmailMethod(c, b.otpMail, mfa.EmailConfig{
			OtpLength: cfg.MultiFactor.EmailOtpLength,
			OtpTTL:    cfg.MultiFactor.EmailOtpTTL,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		regs = append(regs, mfa.Registration{Method: mfa.MethodEmail, Service: email})
	} else {
		logger.Warn("no otp mailer configured, email multi-factor disabled")
	}
	regs = append(regs, b.methods...)

	b.built = true
	return &Engine{
		config:  cfg,
		users:   b.users,
		secrets: b.secrets,
		tokens:  tokens,
		mfa:     mfa.NewEngine(regs...),
		hasher:  hasher,
		cache:   c,
		mailer:  b.mailer,
		logger:  logger,
		metrics: NewMetrics(cfg.Metrics),
		now:     now,
	}, nil
}
