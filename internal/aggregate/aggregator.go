package aggregate

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/teemow/multical/internal/calendar"
	"github.com/teemow/multical/internal/google"
	"github.com/teemow/multical/internal/instrumentation"
	"github.com/teemow/multical/internal/logging"
)

// DefaultConcurrency bounds how many accounts are fetched at once.
const DefaultConcurrency = 5

// Search defaults when the query window is left open.
const (
	searchLookback  = 30
	searchLookahead = 365
)

// Options configures an Aggregator. Zero values select the defaults.
type Options struct {
	AccessRoles []calendar.AccessRole
	Concurrency int
	Location    *time.Location
	Logger      logging.Logger
	Metrics     *instrumentation.Metrics
	Now         func() time.Time
}

// Aggregator fans a query out over several accounts and merges the results
// into one time-ordered list. A failing account never fails the whole call.
type Aggregator struct {
	conns       *ConnectionCache
	roles       []calendar.AccessRole
	concurrency int
	loc         *time.Location
	logger      logging.Logger
	metrics     *instrumentation.Metrics
	now         func() time.Time
}

// New returns an Aggregator drawing clients from conns.
func New(conns *ConnectionCache, opts Options) *Aggregator {
	a := &Aggregator{
		conns:       conns,
		roles:       opts.AccessRoles,
		concurrency: opts.Concurrency,
		loc:         opts.Location,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		now:         opts.Now,
	}
	if len(a.roles) == 0 {
		a.roles = calendar.DefaultAccessRoles
	}
	if a.concurrency <= 0 {
		a.concurrency = DefaultConcurrency
	}
	if a.loc == nil {
		a.loc = time.UTC
	}
	if a.logger == nil {
		a.logger = logging.DefaultLogger()
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Query selects what FetchAll and Search return.
type Query struct {
	Accounts  []string
	Window    calendar.Window
	Text      string   // free-text filter passed to the backend
	Calendars []string // calendar display-name substrings; empty means all
}

// AccountError reports a failure confined to one account.
type AccountError struct {
	Account string
	Err     error
}

func (e AccountError) Error() string {
	return fmt.Sprintf("%s: %v", e.Account, e.Err)
}

func (e AccountError) Unwrap() error {
	return e.Err
}

type accountResult struct {
	account string
	events  []calendar.Event
	err     error
}

// Location returns the target zone events are expressed in.
func (a *Aggregator) Location() *time.Location {
	return a.loc
}

// Now returns the current time in the target zone.
func (a *Aggregator) Now() time.Time {
	return a.now().In(a.loc)
}

// Client returns the cached client for a single-account operation.
func (a *Aggregator) Client(ctx context.Context, account string) (*calendar.Client, error) {
	if err := google.ValidateAccountName(account); err != nil {
		return nil, calendar.NewValidationError("connect", err)
	}
	return a.conns.Get(ctx, account)
}

// FetchAll returns the events of every account in q, sorted by start time.
// Account failures appear as error events in the result. Only invalid
// account names make the call itself fail.
func (a *Aggregator) FetchAll(ctx context.Context, q Query) ([]calendar.Event, error) {
	accounts, err := normalizeAccounts(q.Accounts)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	ctx, span := instrumentation.StartSpan(ctx, "aggregate.fetch_all",
		attribute.Int(instrumentation.SpanAttrAccounts, len(accounts)))
	defer span.End()

	start := time.Now()
	results := make([]accountResult, len(accounts))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, account := range accounts {
		g.Go(func() error {
			results[i] = a.fetchAccount(ctx, account, q)
			return nil
		})
	}
	_ = g.Wait()

	var merged []calendar.Event
	failed := 0
	for _, r := range results {
		merged = append(merged, r.events...)
		if r.err != nil {
			failed++
			merged = append(merged, calendar.NewErrorEvent(r.account, r.err, a.Now()))
		}
	}
	SortEvents(merged)

	span.SetAttributes(attribute.Int(instrumentation.SpanAttrEvents, len(merged)))
	instrumentation.SetSpanSuccess(span)
	a.logger.Debug("aggregate fetch finished",
		logging.Operation("aggregate.fetch_all"),
		logging.Events(len(merged)),
		"failed_accounts", failed,
		logging.Duration(time.Since(start)))

	return merged, nil
}

func (a *Aggregator) fetchAccount(ctx context.Context, account string, q Query) accountResult {
	ctx, span := instrumentation.StartSpan(ctx, "aggregate.account", instrumentation.AccountAttr(account))
	defer span.End()

	start := time.Now()
	res := accountResult{account: account}

	client, err := a.conns.Get(ctx, account)
	if err == nil {
		res.events, err = client.FetchWindow(ctx, q.Window, q.Text, a.roles, q.Calendars)
	}
	res.err = err

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		// A rejected refresh token stays rejected. Dial again next time so a
		// re-authorized account is picked up.
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			a.conns.Forget(account)
		}
		a.logger.Warn("account fetch failed",
			logging.Account(account),
			"kind", calendar.KindOf(err).String(),
			logging.Err(err))
	} else {
		instrumentation.SetSpanSuccess(span)
		a.logger.Debug("account fetched",
			logging.Account(account),
			logging.Events(len(res.events)),
			logging.Duration(time.Since(start)))
	}
	a.metrics.RecordAccountFetch(ctx, account, status, len(res.events), time.Since(start))

	return res
}

// Search is FetchAll with a mandatory text filter. An open window defaults
// to the last 30 days through the next 365 days.
func (a *Aggregator) Search(ctx context.Context, q Query) ([]calendar.Event, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, calendar.NewValidationError("search", fmt.Errorf("search text is required"))
	}
	now := a.Now()
	if q.Window.Start.IsZero() {
		q.Window.Start = now.AddDate(0, 0, -searchLookback)
	}
	if q.Window.End.IsZero() {
		q.Window.End = now.AddDate(0, 0, searchLookahead)
	}
	return a.FetchAll(ctx, q)
}

// ListCalendars returns the calendars of every account whose display name
// matches nameFilter, regardless of access role. Failing accounts are
// reported separately and do not fail the call.
func (a *Aggregator) ListCalendars(ctx context.Context, accounts []string, nameFilter []string) ([]calendar.Calendar, []AccountError, error) {
	accounts, err := normalizeAccounts(accounts)
	if err != nil {
		return nil, nil, err
	}

	type listResult struct {
		calendars []calendar.Calendar
		err       error
	}
	results := make([]listResult, len(accounts))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, account := range accounts {
		g.Go(func() error {
			client, err := a.conns.Get(ctx, account)
			if err != nil {
				results[i].err = err
				return nil
			}
			cals, err := client.ListCalendars(ctx)
			if err != nil {
				results[i].err = err
				return nil
			}
			for _, cal := range cals {
				if calendar.MatchesName(cal, nameFilter) {
					results[i].calendars = append(results[i].calendars, cal)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	var calendars []calendar.Calendar
	var failures []AccountError
	for i, r := range results {
		if r.err != nil {
			a.logger.Warn("listing calendars failed", logging.Account(accounts[i]), logging.Err(r.err))
			failures = append(failures, AccountError{Account: accounts[i], Err: r.err})
			continue
		}
		calendars = append(calendars, r.calendars...)
	}
	return calendars, failures, nil
}

// normalizeAccounts validates every name and drops repeats, keeping the
// first occurrence.
func normalizeAccounts(accounts []string) ([]string, error) {
	seen := make(map[string]bool, len(accounts))
	out := make([]string, 0, len(accounts))
	for _, account := range accounts {
		if err := google.ValidateAccountName(account); err != nil {
			return nil, calendar.NewValidationError("aggregate", err)
		}
		if seen[account] {
			continue
		}
		seen[account] = true
		out = append(out, account)
	}
	return out, nil
}

// SortEvents orders events by start time. Ties are broken by account,
// calendar and event ID so the order does not depend on fetch timing.
func SortEvents(events []calendar.Event) {
	slices.SortStableFunc(events, func(x, y calendar.Event) int {
		if c := x.Start.Compare(y.Start); c != 0 {
			return c
		}
		return cmp.Or(
			cmp.Compare(x.AccountName, y.AccountName),
			cmp.Compare(x.CalendarID, y.CalendarID),
			cmp.Compare(x.ID, y.ID),
		)
	})
}
