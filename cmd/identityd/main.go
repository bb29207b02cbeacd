// Command identityd runs the identity engine against Postgres, Redis and an
// SMTP relay.
//
// It applies migrations, publishes user events from the outbox to the log
// and serves:
//
//	GET /metrics  Prometheus text exposition
//	GET /session  the subject of the bearer session token (401 otherwise)
//	GET /healthz  liveness
//
// Configuration is read from IDENTITY_* environment variables.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	goIdentity "github.com/MrEthical07/goIdentity"
	"github.com/MrEthical07/goIdentity/mail"
	"github.com/MrEthical07/goIdentity/metrics/export/prometheus"
	"github.com/MrEthical07/goIdentity/middleware"
	"github.com/MrEthical07/goIdentity/outbox"
	"github.com/MrEthical07/goIdentity/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := cfg.logger()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("identityd stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	engineCfg, err := cfg.engineConfig()
	if err != nil {
		return err
	}

	db, err := postgres.Open(ctx, cfg.PostgresDSN, cfg.postgresPool())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return err
	}

	rdb := redis.NewClient(cfg.redisOptions())
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	mailer, err := mail.NewMailer(mail.NewSMTPSender(cfg.smtpConfig()), mail.Config{AppName: cfg.AppName})
	if err != nil {
		return err
	}

	engine, err := goIdentity.New().
		WithConfig(engineCfg).
		WithRedis(rdb).
		WithUserRepository(postgres.NewUserRepository(db)).
		WithSecretRepository(postgres.NewSecretRepository(db)).
		WithMailer(mailer).
		WithLogger(logger).
		Build()
	if err != nil {
		return err
	}

	publisher := outbox.NewPublisher(postgres.NewEventRepository(db), outbox.LogSink{Logger: logger}, outbox.Config{
		Interval:  cfg.OutboxInterval,
		BatchSize: cfg.OutboxBatchSize,
		Logger:    logger,
	})
	defer publisher.Close()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           routes(engine, publisher),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func routes(engine *goIdentity.Engine, publisher *outbox.Publisher) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", prometheus.NewPrometheusExporter(engine, publisher).Handler())
	mux.Handle("GET /session", middleware.Guard(engine)(http.HandlerFunc(session)))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func session(w http.ResponseWriter, r *http.Request) {
	claims, _ := goIdentity.SessionFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"subject": claims.Payload.Subject,
		"expires": claims.Payload.Expires,
	})
}
