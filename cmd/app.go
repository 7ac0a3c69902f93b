package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/multical/internal/aggregate"
	"github.com/teemow/multical/internal/calendar"
	"github.com/teemow/multical/internal/config"
	"github.com/teemow/multical/internal/display"
	"github.com/teemow/multical/internal/google"
	"github.com/teemow/multical/internal/instrumentation"
	"github.com/teemow/multical/internal/layout"
	"github.com/teemow/multical/internal/logging"
)

// app is the state of one invocation: settings, the account store, the
// aggregator with its connection cache, and the printer.
type app struct {
	settings *config.Settings
	loc      *time.Location
	logger   *slog.Logger
	store    *google.Store
	tokens   google.TokenProvider
	provider *instrumentation.Provider
	agg      *aggregate.Aggregator
	colors   *display.ColorAssigner
	printer  *display.Printer
	out      io.Writer
}

// newDialer returns how clients are created for an account. Tests replace it.
var newDialer = func(a *app) aggregate.DialFunc {
	return func(ctx context.Context, account string) (*calendar.Client, error) {
		// Cached clients outlive the request that created them, and so does
		// their token source.
		return calendar.NewClientForAccountWithProvider(context.WithoutCancel(ctx), account, a.tokens, a.loc, a.provider.Metrics())
	}
}

// newApp loads the configuration and wires the aggregator.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	dir := configDir
	if dir == "" {
		var err error
		if dir, err = config.Dir(); err != nil {
			return nil, err
		}
	}

	settings, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	level := settings.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	if debug {
		level = "debug"
	}
	logger, err := logging.New(os.Stderr, level)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	a := &app{
		settings: settings,
		loc:      loc,
		logger:   logger,
		store:    google.NewStore(settings.Dir),
		provider: provider,
		colors:   display.NewColorAssigner(),
		out:      cmd.OutOrStdout(),
	}
	a.tokens = google.NewFileTokenProvider(a.store, provider.Metrics(), logger)
	a.agg = aggregate.New(aggregate.NewConnectionCache(newDialer(a)), aggregate.Options{
		AccessRoles: settings.AccessRoles,
		Concurrency: settings.Concurrency,
		Location:    loc,
		Logger:      logging.NewSlogAdapter(logger),
		Metrics:     provider.Metrics(),
	})
	a.printer = display.NewPrinter(a.out, a.colors, display.Options{MilitaryTime: settings.MilitaryTime})

	logger.Debug("configuration loaded",
		logging.Operation("config.load"),
		"dir", settings.Dir,
		"timezone", loc.String(),
		"default_account", settings.DefaultAccount)
	return a, nil
}

// Close flushes telemetry.
func (a *app) Close(ctx context.Context) {
	if err := a.provider.Shutdown(ctx); err != nil {
		a.logger.Warn("instrumentation shutdown failed", logging.Err(err))
	}
}

// runApp loads the app, runs fn and shuts the app down again.
func runApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(context.WithoutCancel(ctx))
	return fn(ctx, a)
}

// readAccounts resolves the accounts a read command spans.
func (a *app) readAccounts(requested []string) ([]string, error) {
	available, err := a.store.ListAccounts()
	if err != nil {
		return nil, err
	}
	return config.ResolveAccounts(requested, available)
}

// writeClient returns the client of the account a write goes to.
func (a *app) writeClient(ctx context.Context, requested string) (*calendar.Client, error) {
	account, err := a.settings.WriteAccount(requested)
	if err != nil {
		return nil, err
	}
	if !a.tokens.HasTokenForAccount(account) {
		return nil, &config.UnknownAccountError{Account: account}
	}
	return a.agg.Client(ctx, account)
}

func (a *app) layoutOptions() layout.Options {
	return layout.Options{
		WeekStartsMonday: a.settings.WeekStartMonday,
		Today:            a.agg.Now(),
	}
}

// openBrowser opens a URL in the default browser
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform")
	}
	return cmd.Start()
}
