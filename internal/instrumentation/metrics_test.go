package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestMetrics(t *testing.T, detailed bool) (*Metrics, func()) {
	t.Helper()
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
		DetailedLabels:  detailed,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	return provider.Metrics(), func() { _ = provider.Shutdown(ctx) }
}

func TestMetrics_Record(t *testing.T) {
	for _, detailed := range []bool{false, true} {
		metrics, shutdown := newTestMetrics(t, detailed)
		ctx := context.Background()

		// Should not panic
		metrics.RecordGoogleAPIOperation(ctx, ServiceCalendar, "events_list", StatusSuccess, 200*time.Millisecond)
		metrics.RecordGoogleAPIOperation(ctx, ServiceCalendar, "insert", StatusError, 500*time.Millisecond)
		metrics.RecordAccountFetch(ctx, "work", StatusSuccess, 12, time.Second)
		metrics.RecordAccountFetch(ctx, "home", StatusError, 0, time.Second)
		metrics.RecordOAuthAuth(ctx, OAuthResultSuccess)
		metrics.RecordOAuthTokenRefresh(ctx, OAuthResultFailure)
		metrics.RecordToolInvocation(ctx, "calendar_agenda", StatusSuccess, 100*time.Millisecond)

		shutdown()
	}
}

func TestMetrics_NoOp(t *testing.T) {
	ctx := context.Background()

	var nilMetrics *Metrics
	nilMetrics.RecordGoogleAPIOperation(ctx, ServiceCalendar, "events_list", StatusSuccess, time.Second)
	nilMetrics.RecordAccountFetch(ctx, "work", StatusSuccess, 3, time.Second)
	nilMetrics.RecordOAuthAuth(ctx, OAuthResultSuccess)
	nilMetrics.RecordOAuthTokenRefresh(ctx, OAuthResultSuccess)
	nilMetrics.RecordToolInvocation(ctx, "calendar_agenda", StatusSuccess, time.Second)

	empty := &Metrics{}
	empty.RecordGoogleAPIOperation(ctx, ServiceCalendar, "events_list", StatusSuccess, time.Second)
	empty.RecordAccountFetch(ctx, "work", StatusSuccess, 3, time.Second)
	empty.RecordToolInvocation(ctx, "calendar_agenda", StatusSuccess, time.Second)
}
