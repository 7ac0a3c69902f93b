package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/multical/internal/aggregate"
	"github.com/teemow/multical/internal/config"
	"github.com/teemow/multical/internal/instrumentation"
)

// AccountLister reports the accounts that have stored credentials.
type AccountLister interface {
	ListAccounts() ([]string, error)
}

// ServerContext holds the per-process state shared by the MCP tools
type ServerContext struct {
	ctx        context.Context
	cancel     context.CancelFunc
	aggregator *aggregate.Aggregator
	accounts   AccountLister
	settings   *config.Settings
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
	mu         sync.RWMutex
	shutdown   bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, agg *aggregate.Aggregator, accounts AccountLister, settings *config.Settings) (*ServerContext, error) {
	if agg == nil {
		return nil, fmt.Errorf("aggregator cannot be nil")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account lister cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:        shutdownCtx,
		cancel:     cancel,
		aggregator: agg,
		accounts:   accounts,
		settings:   settings,
		logger:     slog.Default(),
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Aggregator returns the multi-account aggregator
func (sc *ServerContext) Aggregator() *aggregate.Aggregator {
	return sc.aggregator
}

// Settings returns the loaded configuration
func (sc *ServerContext) Settings() *config.Settings {
	return sc.settings
}

// SetMetrics sets the recorder used by tool handlers.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetLogger replaces the logger
func (sc *ServerContext) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.logger = logger
}

// Logger returns the logger
func (sc *ServerContext) Logger() *slog.Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// Accounts returns the accounts with stored credentials.
func (sc *ServerContext) Accounts() ([]string, error) {
	return sc.accounts.ListAccounts()
}

// ResolveAccounts returns the accounts a read spans: the requested ones,
// or every configured account when none are requested.
func (sc *ServerContext) ResolveAccounts(requested []string) ([]string, error) {
	available, err := sc.accounts.ListAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return config.ResolveAccounts(requested, available)
}

// WriteAccount returns the account a write goes to.
func (sc *ServerContext) WriteAccount(requested string) (string, error) {
	return sc.settings.WriteAccount(requested)
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
