package goIdentity

import (
	"context"
	"testing"

	"github.com/MrEthical07/goIdentity/password"
	"github.com/MrEthical07/goIdentity/user"
)

func BenchmarkSessionClaims(b *testing.B) {
	env := newTestEnv(b)
	_, session := env.signup(b, "bench@b.com")
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := env.engine.SessionClaims(ctx, session.Token); err != nil {
			b.Fatalf("session claims: %v", err)
		}
	}
}

func BenchmarkLoginLogout(b *testing.B) {
	env := newTestEnv(b)
	env.signup(b, "bench@b.com")
	ctx := context.Background()
	ident := user.ParseIdentity("bench@b.com")
	pass := password.MustNew(testPassword)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		claims, err := env.engine.Login(ctx, ident, pass, nil)
		if err != nil {
			b.Fatalf("login: %v", err)
		}
		if err := env.engine.Logout(ctx, claims.Token); err != nil {
			b.Fatalf("logout: %v", err)
		}
	}
}

func BenchmarkMetricsInc(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Inc(MetricLoginSuccess)
		}
	})
}
