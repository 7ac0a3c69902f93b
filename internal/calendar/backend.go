package calendar

import (
	"context"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

// ListEventsOptions bounds one events.list call.
type ListEventsOptions struct {
	TimeMin time.Time
	TimeMax time.Time
	Query   string
}

// Backend is the subset of the Calendar API a Client needs. It is satisfied
// by the generated service and by fakes in tests.
type Backend interface {
	ListCalendarList(ctx context.Context, pageToken string) (*gcal.CalendarList, error)
	GetCalendarListEntry(ctx context.Context, calendarID string) (*gcal.CalendarListEntry, error)
	GetCalendar(ctx context.Context, calendarID string) (*gcal.Calendar, error)
	ListEvents(ctx context.Context, calendarID string, opts ListEventsOptions, pageToken string) (*gcal.Events, error)
	InsertEvent(ctx context.Context, calendarID string, event *gcal.Event, conferenceDataVersion int64) (*gcal.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
	QuickAdd(ctx context.Context, calendarID, text string) (*gcal.Event, error)
}

// ServiceBackend adapts *gcal.Service to Backend.
type ServiceBackend struct {
	svc *gcal.Service
}

// NewServiceBackend wraps an authenticated Calendar service.
func NewServiceBackend(svc *gcal.Service) *ServiceBackend {
	return &ServiceBackend{svc: svc}
}

func (b *ServiceBackend) ListCalendarList(ctx context.Context, pageToken string) (*gcal.CalendarList, error) {
	call := b.svc.CalendarList.List().Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

func (b *ServiceBackend) GetCalendarListEntry(ctx context.Context, calendarID string) (*gcal.CalendarListEntry, error) {
	return b.svc.CalendarList.Get(calendarID).Context(ctx).Do()
}

func (b *ServiceBackend) GetCalendar(ctx context.Context, calendarID string) (*gcal.Calendar, error) {
	return b.svc.Calendars.Get(calendarID).Context(ctx).Do()
}

// ListEvents expands recurring events into instances ordered by start time.
func (b *ServiceBackend) ListEvents(ctx context.Context, calendarID string, opts ListEventsOptions, pageToken string) (*gcal.Events, error) {
	call := b.svc.Events.List(calendarID).
		Context(ctx).
		TimeMin(opts.TimeMin.Format(time.RFC3339)).
		TimeMax(opts.TimeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")
	if opts.Query != "" {
		call = call.Q(opts.Query)
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

func (b *ServiceBackend) InsertEvent(ctx context.Context, calendarID string, event *gcal.Event, conferenceDataVersion int64) (*gcal.Event, error) {
	call := b.svc.Events.Insert(calendarID, event).Context(ctx)
	if conferenceDataVersion > 0 {
		call = call.ConferenceDataVersion(conferenceDataVersion)
	}
	if len(event.Attendees) > 0 {
		call = call.SendUpdates("all")
	}
	return call.Do()
}

func (b *ServiceBackend) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return b.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
}

func (b *ServiceBackend) QuickAdd(ctx context.Context, calendarID, text string) (*gcal.Event, error) {
	return b.svc.Events.QuickAdd(calendarID, text).Context(ctx).Do()
}
