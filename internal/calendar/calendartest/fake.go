// Package calendartest provides an in-memory calendar.Backend for tests.
package calendartest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/teemow/multical/internal/calendar"
)

// Backend is a scripted calendar.Backend. Zero page sizes return everything
// in one page.
type Backend struct {
	Calendars        []*gcal.CalendarListEntry
	CalendarPageSize int
	Events           map[string][]*gcal.Event
	EventPageSize    int
	Resources        map[string]*gcal.Calendar

	ListErr        error
	EventsErr      map[string]error
	GetEntryErr    error
	GetCalendarErr error
	WriteErr       error

	// Delay is slept in every call, bounded by the context.
	Delay time.Duration

	mu             sync.Mutex
	listEventCalls map[string]int
	lastOptions    calendar.ListEventsOptions
	Inserted       []*gcal.Event
	ConferenceVers []int64
	Deleted        []string
	QuickAdded     []string
}

var _ calendar.Backend = (*Backend)(nil)

// NotFound returns the error the API produces for a missing resource.
func NotFound(what string) error {
	return &googleapi.Error{Code: 404, Message: what + " not found"}
}

// Entry builds a calendar list entry.
func Entry(id, summary string, role calendar.AccessRole) *gcal.CalendarListEntry {
	return &gcal.CalendarListEntry{Id: id, Summary: summary, AccessRole: string(role)}
}

// Timed builds a timed event from two instants.
func Timed(id, summary string, start, end time.Time) *gcal.Event {
	return &gcal.Event{
		Id:      id,
		Summary: summary,
		Status:  "confirmed",
		Start:   &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:     &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
}

// AllDay builds an all-day event. end is exclusive, as the API returns it.
func AllDay(id, summary, start, end string) *gcal.Event {
	return &gcal.Event{
		Id:      id,
		Summary: summary,
		Status:  "confirmed",
		Start:   &gcal.EventDateTime{Date: start},
		End:     &gcal.EventDateTime{Date: end},
	}
}

func (b *Backend) wait(ctx context.Context) error {
	if b.Delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.Delay):
		return nil
	}
}

func page(token string, size, total int) (start, end int, next string) {
	if token != "" {
		start, _ = strconv.Atoi(token)
	}
	if size <= 0 {
		return start, total, ""
	}
	end = start + size
	if end >= total {
		return start, total, ""
	}
	return start, end, strconv.Itoa(end)
}

func (b *Backend) ListCalendarList(ctx context.Context, pageToken string) (*gcal.CalendarList, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	if b.ListErr != nil {
		return nil, b.ListErr
	}
	start, end, next := page(pageToken, b.CalendarPageSize, len(b.Calendars))
	return &gcal.CalendarList{Items: b.Calendars[start:end], NextPageToken: next}, nil
}

func (b *Backend) GetCalendarListEntry(ctx context.Context, calendarID string) (*gcal.CalendarListEntry, error) {
	if b.GetEntryErr != nil {
		return nil, b.GetEntryErr
	}
	for _, e := range b.Calendars {
		if e.Id == calendarID || (calendarID == "primary" && e.Primary) {
			return e, nil
		}
	}
	return nil, NotFound("calendar " + calendarID)
}

func (b *Backend) GetCalendar(ctx context.Context, calendarID string) (*gcal.Calendar, error) {
	if b.GetCalendarErr != nil {
		return nil, b.GetCalendarErr
	}
	if c, ok := b.Resources[calendarID]; ok {
		return c, nil
	}
	return nil, NotFound("calendar " + calendarID)
}

func (b *Backend) ListEvents(ctx context.Context, calendarID string, opts calendar.ListEventsOptions, pageToken string) (*gcal.Events, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	if b.listEventCalls == nil {
		b.listEventCalls = make(map[string]int)
	}
	b.listEventCalls[calendarID]++
	b.lastOptions = opts
	b.mu.Unlock()

	if err := b.EventsErr[calendarID]; err != nil {
		return nil, err
	}

	var items []*gcal.Event
	for _, ev := range b.Events[calendarID] {
		if opts.Query != "" && !strings.Contains(strings.ToLower(ev.Summary), strings.ToLower(opts.Query)) {
			continue
		}
		items = append(items, ev)
	}

	start, end, next := page(pageToken, b.EventPageSize, len(items))
	return &gcal.Events{Items: items[start:end], NextPageToken: next}, nil
}

func (b *Backend) InsertEvent(ctx context.Context, calendarID string, event *gcal.Event, conferenceDataVersion int64) (*gcal.Event, error) {
	if b.WriteErr != nil {
		return nil, b.WriteErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Inserted = append(b.Inserted, event)
	b.ConferenceVers = append(b.ConferenceVers, conferenceDataVersion)

	created := *event
	created.Id = fmt.Sprintf("created-%d", len(b.Inserted))
	created.Status = "confirmed"
	created.HtmlLink = "https://calendar.example.com/event?eid=" + created.Id
	if event.ConferenceData != nil {
		created.HangoutLink = "https://meet.example.com/abc-defg-hij"
	}
	return &created, nil
}

func (b *Backend) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if b.WriteErr != nil {
		return b.WriteErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Deleted = append(b.Deleted, calendarID+"/"+eventID)
	return nil
}

func (b *Backend) QuickAdd(ctx context.Context, calendarID, text string) (*gcal.Event, error) {
	if b.WriteErr != nil {
		return nil, b.WriteErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.QuickAdded = append(b.QuickAdded, text)
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return Timed(fmt.Sprintf("quick-%d", len(b.QuickAdded)), text, start, start.Add(time.Hour)), nil
}

// ListEventCalls returns how many events.list pages were requested for calendarID.
func (b *Backend) ListEventCalls(calendarID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listEventCalls[calendarID]
}

// LastListOptions returns the options of the most recent events.list call.
func (b *Backend) LastListOptions() calendar.ListEventsOptions {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastOptions
}
