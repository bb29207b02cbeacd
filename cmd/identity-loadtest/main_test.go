package main

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goIdentity/token"
	"github.com/MrEthical07/goIdentity/user"
)

func TestPercentile(t *testing.T) {
	samples := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := percentile(samples, 50); got != 5 {
		t.Fatalf("p50: expected 5, got %d", got)
	}
	if got := percentile(samples, 100); got != 10 {
		t.Fatalf("p100: expected 10, got %d", got)
	}
	if got := percentile(nil, 99); got != 0 {
		t.Fatalf("empty: expected 0, got %d", got)
	}
}

func TestRunPhaseCountsFailures(t *testing.T) {
	n := 0
	stats := runPhase(10, 1, func(*rand.Rand) error {
		n++
		if n%2 == 0 {
			return errors.New("fail")
		}
		return nil
	})
	if stats.ops != 10 || stats.failures != 5 {
		t.Fatalf("expected 10 ops and 5 failures, got %d and %d", stats.ops, stats.failures)
	}
}

func TestEngineRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	defer client.Close()

	engine, err := newEngine(client, "lt")
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	ctx := context.Background()
	claims, err := engine.Tokens().Issue(ctx, token.KindSession, user.NewID().String())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := engine.SessionClaims(ctx, claims.Token); err != nil {
		t.Fatalf("SessionClaims: %v", err)
	}
	if err := engine.Logout(ctx, claims.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
}
