package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"

	goIdentity "github.com/MrEthical07/goIdentity"
	"github.com/MrEthical07/goIdentity/mail"
	"github.com/MrEthical07/goIdentity/postgres"
)

type config struct {
	HTTPAddr  string `env:"IDENTITY_HTTP_ADDR" envDefault:":8080"`
	LogLevel  string `env:"IDENTITY_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"IDENTITY_LOG_FORMAT" envDefault:"json"`
	AppName   string `env:"IDENTITY_APP_NAME" envDefault:"goIdentity"`

	PostgresDSN             string        `env:"IDENTITY_POSTGRES_DSN,required,notEmpty"`
	PostgresMaxOpenConns    int           `env:"IDENTITY_POSTGRES_MAX_OPEN_CONNS" envDefault:"20"`
	PostgresMaxIdleConns    int           `env:"IDENTITY_POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
	PostgresConnMaxIdle     time.Duration `env:"IDENTITY_POSTGRES_CONN_MAX_IDLE" envDefault:"5m"`
	PostgresConnMaxLifetime time.Duration `env:"IDENTITY_POSTGRES_CONN_MAX_LIFETIME" envDefault:"1h"`

	RedisAddr        string        `env:"IDENTITY_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword    string        `env:"IDENTITY_REDIS_PASSWORD"`
	RedisDB          int           `env:"IDENTITY_REDIS_DB" envDefault:"0"`
	RedisPoolSize    int           `env:"IDENTITY_REDIS_POOL_SIZE" envDefault:"10"`
	RedisPoolTimeout time.Duration `env:"IDENTITY_REDIS_POOL_TIMEOUT" envDefault:"2s"`
	RedisTimeout     time.Duration `env:"IDENTITY_REDIS_TIMEOUT" envDefault:"1s"`
	RedisPrefix      string        `env:"IDENTITY_REDIS_PREFIX" envDefault:"gi"`

	TokenIssuer          string        `env:"IDENTITY_TOKEN_ISSUER" envDefault:"goIdentity"`
	TokenSigningMethod   string        `env:"IDENTITY_TOKEN_SIGNING_METHOD" envDefault:"ed25519"`
	TokenPrivateKeyFile  string        `env:"IDENTITY_TOKEN_PRIVATE_KEY_FILE,required,notEmpty"`
	TokenPublicKeyFile   string        `env:"IDENTITY_TOKEN_PUBLIC_KEY_FILE"`
	TokenKeyID           string        `env:"IDENTITY_TOKEN_KEY_ID"`
	TokenSessionTTL      time.Duration `env:"IDENTITY_TOKEN_SESSION_TTL" envDefault:"24h"`
	TokenVerificationTTL time.Duration `env:"IDENTITY_TOKEN_VERIFICATION_TTL" envDefault:"10m"`
	TokenResetTTL        time.Duration `env:"IDENTITY_TOKEN_RESET_TTL" envDefault:"10m"`

	TOTPIssuer     string        `env:"IDENTITY_TOTP_ISSUER" envDefault:"goIdentity"`
	AckTimeout     time.Duration `env:"IDENTITY_MFA_ACK_TIMEOUT" envDefault:"5m"`
	EmailOtpLength int           `env:"IDENTITY_MFA_EMAIL_OTP_LENGTH" envDefault:"6"`
	EmailOtpTTL    time.Duration `env:"IDENTITY_MFA_EMAIL_OTP_TTL" envDefault:"5m"`

	SMTPHost     string `env:"IDENTITY_SMTP_HOST,required,notEmpty"`
	SMTPPort     int    `env:"IDENTITY_SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"IDENTITY_SMTP_USERNAME"`
	SMTPPassword string `env:"IDENTITY_SMTP_PASSWORD"`
	SMTPFrom     string `env:"IDENTITY_SMTP_FROM,required,notEmpty"`

	OutboxInterval  time.Duration `env:"IDENTITY_OUTBOX_INTERVAL" envDefault:"1s"`
	OutboxBatchSize int           `env:"IDENTITY_OUTBOX_BATCH_SIZE" envDefault:"100"`

	MetricsHistograms bool `env:"IDENTITY_METRICS_HISTOGRAMS" envDefault:"true"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// engineConfig maps the process settings onto the engine and reads the
// signing keys.
func (c config) engineConfig() (goIdentity.Config, error) {
	out := goIdentity.DefaultConfig()

	priv, err := os.ReadFile(c.TokenPrivateKeyFile)
	if err != nil {
		return out, fmt.Errorf("read private key: %w", err)
	}
	out.Token.PrivateKey = priv
	if c.TokenPublicKeyFile != "" {
		pub, err := os.ReadFile(c.TokenPublicKeyFile)
		if err != nil {
			return out, fmt.Errorf("read public key: %w", err)
		}
		out.Token.PublicKey = pub
	}

	out.Token.Issuer = c.TokenIssuer
	out.Token.SigningMethod = c.TokenSigningMethod
	out.Token.KeyID = c.TokenKeyID
	out.Token.SessionTTL = c.TokenSessionTTL
	out.Token.VerificationTTL = c.TokenVerificationTTL
	out.Token.ResetTTL = c.TokenResetTTL

	out.MultiFactor.TOTPIssuer = c.TOTPIssuer
	out.MultiFactor.AckTimeout = c.AckTimeout
	out.MultiFactor.EmailOtpLength = c.EmailOtpLength
	out.MultiFactor.EmailOtpTTL = c.EmailOtpTTL

	out.Cache.RedisPrefix = c.RedisPrefix
	out.Metrics.EnableLatencyHistograms = c.MetricsHistograms

	return out, out.Validate()
}

func (c config) redisOptions() *redis.Options {
	return &redis.Options{
		Addr:         c.RedisAddr,
		Password:     c.RedisPassword,
		DB:           c.RedisDB,
		PoolSize:     c.RedisPoolSize,
		PoolTimeout:  c.RedisPoolTimeout,
		DialTimeout:  c.RedisTimeout,
		ReadTimeout:  c.RedisTimeout,
		WriteTimeout: c.RedisTimeout,
	}
}

func (c config) postgresPool() postgres.PoolConfig {
	return postgres.PoolConfig{
		MaxOpenConns:    c.PostgresMaxOpenConns,
		MaxIdleConns:    c.PostgresMaxIdleConns,
		ConnMaxIdleTime: c.PostgresConnMaxIdle,
		ConnMaxLifetime: c.PostgresConnMaxLifetime,
	}
}

func (c config) smtpConfig() mail.SMTPConfig {
	return mail.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUsername,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
	}
}

func (c config) logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
