package server

import (
	"context"
	"errors"
	"testing"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/teemow/multical/internal/aggregate"
	"github.com/teemow/multical/internal/calendar"
	"github.com/teemow/multical/internal/calendar/calendartest"
	"github.com/teemow/multical/internal/config"
	"github.com/teemow/multical/internal/google"
	"github.com/teemow/multical/internal/instrumentation"
	"github.com/teemow/multical/internal/logging"
)

type staticAccounts struct {
	names []string
	err   error
}

func (s staticAccounts) ListAccounts() ([]string, error) {
	return s.names, s.err
}

func newTestServerContext(t *testing.T, accounts AccountLister, settings *config.Settings) *ServerContext {
	t.Helper()
	backend := &calendartest.Backend{
		Calendars: []*gcal.CalendarListEntry{calendartest.Entry("primary", "Primary", calendar.AccessOwner)},
	}
	conns := aggregate.NewConnectionCache(func(_ context.Context, account string) (*calendar.Client, error) {
		if account != "work" {
			return nil, google.ErrNoToken
		}
		return calendar.NewClient(account, backend, nil, nil), nil
	})
	agg := aggregate.New(conns, aggregate.Options{Logger: logging.Discard()})
	if settings == nil {
		settings = &config.Settings{}
	}
	sc, err := NewServerContext(context.Background(), agg, accounts, settings)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

var errListFailed = errors.New("list failed")

func createTestProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	ctx := context.Background()
	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("failed to create test provider: %v", err)
	}
	t.Cleanup(func() {
		_ = provider.Shutdown(ctx)
	})
	return provider
}

func createDisabledProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	})
	if err != nil {
		t.Fatalf("failed to create disabled provider: %v", err)
	}
	return provider
}
