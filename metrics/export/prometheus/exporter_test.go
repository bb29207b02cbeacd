package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goIdentity "github.com/MrEthical07/goIdentity"
)

type fakeSource struct {
	snapshot goIdentity.MetricsSnapshot
}

func (f fakeSource) MetricsSnapshot() goIdentity.MetricsSnapshot { return f.snapshot }

type fakePublisher struct{ published, failed uint64 }

func (f fakePublisher) Published() uint64 { return f.published }
func (f fakePublisher) Failed() uint64    { return f.failed }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporter(fakeSource{
		snapshot: goIdentity.MetricsSnapshot{
			Counters:   map[goIdentity.MetricID]uint64{},
			Histograms: map[goIdentity.MetricID][]uint64{},
		},
	}, nil)

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporter(fakeSource{
		snapshot: goIdentity.MetricsSnapshot{
			Counters: map[goIdentity.MetricID]uint64{
				goIdentity.MetricLoginSuccess:              7,
				goIdentity.MetricPasswordResetUnknownEmail: 2,
			},
			Histograms: map[goIdentity.MetricID][]uint64{
				goIdentity.MetricValidateLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
	}, fakePublisher{published: 5, failed: 1})

	out := exp.Render()
	for _, want := range []string{
		"goidentity_login_success_total 7",
		"goidentity_password_reset_unknown_email_total 2",
		"goidentity_signup_success_total 0",
		"goidentity_session_validate_latency_seconds_bucket{le=\"0.005\"} 1",
		"goidentity_session_validate_latency_seconds_bucket{le=\"+Inf\"} 36",
		"goidentity_session_validate_latency_seconds_count 36",
		"goidentity_outbox_published_total 5",
		"goidentity_outbox_failed_total 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestRenderWithoutPublisher(t *testing.T) {
	exp := NewPrometheusExporter(fakeSource{
		snapshot: goIdentity.MetricsSnapshot{
			Counters: map[goIdentity.MetricID]uint64{goIdentity.MetricLogout: 1},
		},
	}, nil)
	if strings.Contains(exp.Render(), "outbox") {
		t.Fatal("outbox counters rendered without a publisher")
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporter(fakeSource{
		snapshot: goIdentity.MetricsSnapshot{
			Counters:   map[goIdentity.MetricID]uint64{goIdentity.MetricLoginSuccess: 1},
			Histograms: map[goIdentity.MetricID][]uint64{},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporter(fakeSource{
		snapshot: goIdentity.MetricsSnapshot{
			Counters: map[goIdentity.MetricID]uint64{
				goIdentity.MetricLoginSuccess:  1000,
				goIdentity.MetricLoginFailure:  40,
				goIdentity.MetricSignupSuccess: 800,
				goIdentity.MetricMFAFailure:    10,
			},
			Histograms: map[goIdentity.MetricID][]uint64{
				goIdentity.MetricValidateLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	}, fakePublisher{})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
