package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/multical/internal/google"
	"github.com/teemow/multical/internal/instrumentation"
)

// Client fetches and writes events for one account. All returned instants are
// in the client's target zone.
type Client struct {
	backend Backend
	account string // The account this client is associated with
	loc     *time.Location
	metrics *instrumentation.Metrics
}

// NewClient wraps an existing backend. A nil loc means UTC; metrics may be nil.
func NewClient(account string, backend Backend, loc *time.Location, metrics *instrumentation.Metrics) *Client {
	if loc == nil {
		loc = time.UTC
	}
	return &Client{
		backend: backend,
		account: account,
		loc:     loc,
		metrics: metrics,
	}
}

// NewClientForAccountWithProvider creates a Calendar client authenticated with
// the account's token from tokenProvider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider, loc *time.Location, metrics *instrumentation.Metrics) (*Client, error) {
	if err := google.ValidateAccountName(account); err != nil {
		return nil, NewValidationError("connect", err)
	}
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	ts, err := tokenProvider.TokenSource(ctx, account)
	if err != nil {
		return nil, classify("connect", account, err)
	}

	httpClient := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := httpClient.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false,
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, classify("connect", account, fmt.Errorf("failed to create Calendar service: %w", err))
	}

	return NewClient(account, NewServiceBackend(svc), loc, metrics), nil
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// Location returns the target zone.
func (c *Client) Location() *time.Location {
	return c.loc
}

// observe runs one backend call inside a span and records its outcome.
func (c *Client) observe(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, operation,
		instrumentation.AccountAttr(c.account))
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, operation, status, time.Since(start))
	return err
}

// ListCalendars returns every calendar on the account's calendar list.
func (c *Client) ListCalendars(ctx context.Context) ([]Calendar, error) {
	var calendars []Calendar
	pageToken := ""
	for {
		var page *gcal.CalendarList
		err := c.observe(ctx, "calendar_list", func(ctx context.Context) error {
			var err error
			page, err = c.backend.ListCalendarList(ctx, pageToken)
			return err
		})
		if err != nil {
			return nil, classify("list calendars", c.account, fmt.Errorf("failed to list calendars: %w", err))
		}

		for _, entry := range page.Items {
			if entry != nil {
				calendars = append(calendars, toCalendar(c.account, entry))
			}
		}

		if page.NextPageToken == "" {
			return calendars, nil
		}
		pageToken = page.NextPageToken
	}
}

// CalendarName resolves a display name for calendarID. Lookup failures fall
// back to the calendar resource and finally to the ID itself.
func (c *Client) CalendarName(ctx context.Context, calendarID string) string {
	var entry *gcal.CalendarListEntry
	err := c.observe(ctx, "calendar_list_get", func(ctx context.Context) error {
		var err error
		entry, err = c.backend.GetCalendarListEntry(ctx, calendarID)
		return err
	})
	if err == nil && entry != nil {
		if name := displayName(entry.SummaryOverride, entry.Summary); name != "" {
			return name
		}
	}

	var cal *gcal.Calendar
	err = c.observe(ctx, "calendars_get", func(ctx context.Context) error {
		var err error
		cal, err = c.backend.GetCalendar(ctx, calendarID)
		return err
	})
	if err == nil && cal != nil && cal.Summary != "" {
		return cal.Summary
	}

	return calendarID
}

// ListEvents returns the events of one calendar overlapping w, optionally
// restricted to events matching query.
func (c *Client) ListEvents(ctx context.Context, calendarID string, w Window, query string) ([]Event, error) {
	cal := Calendar{
		ID:          calendarID,
		DisplayName: c.CalendarName(ctx, calendarID),
		AccountName: c.account,
	}
	return c.ListEventsIn(ctx, cal, w, query)
}

// ListEventsIn is ListEvents for a calendar whose display name is already known.
func (c *Client) ListEventsIn(ctx context.Context, cal Calendar, w Window, query string) ([]Event, error) {
	opts := ListEventsOptions{TimeMin: w.Start, TimeMax: w.End, Query: query}

	var events []Event
	pageToken := ""
	for {
		var page *gcal.Events
		err := c.observe(ctx, "events_list", func(ctx context.Context) error {
			var err error
			page, err = c.backend.ListEvents(ctx, cal.ID, opts, pageToken)
			return err
		})
		if err != nil {
			return nil, classify("list events", c.account, fmt.Errorf("failed to list events of %s: %w", cal.ID, err))
		}

		for _, item := range page.Items {
			ev, ok, err := toEvent(c.account, cal.ID, cal.DisplayName, item, c.loc)
			if err != nil {
				return nil, &Error{Kind: KindBackend, Op: "list events", Account: c.account,
					Err: fmt.Errorf("malformed event in %s: %w", cal.ID, err)}
			}
			if ok {
				events = append(events, ev)
			}
		}

		if page.NextPageToken == "" {
			return events, nil
		}
		pageToken = page.NextPageToken
	}
}

// FetchWindow lists every eligible calendar and collects its events in w.
// Calendars are visited in calendar-list order. On failure the events
// collected so far are returned together with the error.
func (c *Client) FetchWindow(ctx context.Context, w Window, query string, roles []AccessRole, names []string) ([]Event, error) {
	calendars, err := c.ListCalendars(ctx)
	if err != nil {
		return nil, err
	}

	var events []Event
	for _, cal := range calendars {
		if !IsEligible(cal, roles, names) {
			continue
		}
		evs, err := c.ListEventsIn(ctx, cal, w, query)
		if err != nil {
			return events, err
		}
		events = append(events, evs...)
	}
	return events, nil
}

// QuickAdd creates an event from free text parsed by the backend.
func (c *Client) QuickAdd(ctx context.Context, calendarID, text string) (*Event, error) {
	if text == "" {
		return nil, NewValidationError("quick add", fmt.Errorf("text is required"))
	}

	var created *gcal.Event
	err := c.observe(ctx, "quick_add", func(ctx context.Context) error {
		var err error
		created, err = c.backend.QuickAdd(ctx, calendarID, text)
		return err
	})
	if err != nil {
		return nil, classify("quick add", c.account, fmt.Errorf("failed to quick add event: %w", err))
	}
	return c.created(ctx, calendarID, created)
}

// CreateEvent inserts a new event into calendarID.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*Event, error) {
	if err := input.Validate(); err != nil {
		return nil, NewValidationError("create event", err)
	}

	event := toBackendEvent(input, c.loc)
	var conferenceVersion int64
	if input.AddConference {
		conferenceVersion = 1
		event.ConferenceData = &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		}
	}

	var created *gcal.Event
	err := c.observe(ctx, "insert", func(ctx context.Context) error {
		var err error
		created, err = c.backend.InsertEvent(ctx, calendarID, event, conferenceVersion)
		return err
	})
	if err != nil {
		return nil, classify("create event", c.account, fmt.Errorf("failed to create event: %w", err))
	}
	return c.created(ctx, calendarID, created)
}

func (c *Client) created(ctx context.Context, calendarID string, item *gcal.Event) (*Event, error) {
	ev, ok, err := toEvent(c.account, calendarID, calendarID, item, c.loc)
	if err != nil {
		return nil, &Error{Kind: KindBackend, Op: "create event", Account: c.account, Err: err}
	}
	if !ok {
		return nil, &Error{Kind: KindBackend, Op: "create event", Account: c.account,
			Err: fmt.Errorf("backend returned no event")}
	}
	return &ev, nil
}

// DeleteEvent removes an event. Error placeholders have no ID and are rejected.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if eventID == "" {
		return NewValidationError("delete event", fmt.Errorf("event ID is required"))
	}
	err := c.observe(ctx, "delete", func(ctx context.Context) error {
		return c.backend.DeleteEvent(ctx, calendarID, eventID)
	})
	if err != nil {
		return classify("delete event", c.account, fmt.Errorf("failed to delete event: %w", err))
	}
	return nil
}

// PrimaryCalendarID returns the ID of the account's primary calendar, which
// is the account's email address.
func (c *Client) PrimaryCalendarID(ctx context.Context) (string, error) {
	var entry *gcal.CalendarListEntry
	err := c.observe(ctx, "calendar_list_get", func(ctx context.Context) error {
		var err error
		entry, err = c.backend.GetCalendarListEntry(ctx, "primary")
		return err
	})
	if err != nil {
		return "", classify("get primary calendar", c.account, fmt.Errorf("failed to get primary calendar: %w", err))
	}
	return entry.Id, nil
}
