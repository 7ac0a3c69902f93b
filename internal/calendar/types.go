package calendar

import (
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

const untitledSummary = "(No title)"

// EventInput describes an event to create.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Attendees   []string

	// AddConference requests a Google Meet link
	AddConference bool
}

// Validate checks the input before it is sent to the backend.
func (in EventInput) Validate() error {
	if in.Summary == "" {
		return fmt.Errorf("event title is required")
	}
	if in.Start.IsZero() {
		return fmt.Errorf("event start is required")
	}
	if in.AllDay {
		if !in.End.IsZero() && in.End.Before(in.Start) {
			return fmt.Errorf("event end %s is before start %s",
				in.End.Format(time.RFC3339), in.Start.Format(time.RFC3339))
		}
		return nil
	}
	if !in.End.After(in.Start) {
		return fmt.Errorf("event end %s must be after start %s",
			in.End.Format(time.RFC3339), in.Start.Format(time.RFC3339))
	}
	return nil
}

func toCalendar(account string, entry *gcal.CalendarListEntry) Calendar {
	if entry == nil {
		return Calendar{AccountName: account}
	}
	return Calendar{
		ID:          entry.Id,
		DisplayName: displayName(entry.SummaryOverride, entry.Summary, entry.Id),
		AccessRole:  AccessRole(entry.AccessRole),
		AccountName: account,
		TimeZone:    entry.TimeZone,
		ColorID:     entry.ColorId,
	}
}

func displayName(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// toEvent normalizes a backend event. Cancelled events are reported with
// ok == false and must be skipped by the caller.
func toEvent(account, calendarID, calendarName string, item *gcal.Event, loc *time.Location) (ev Event, ok bool, err error) {
	if item == nil || item.Status == string(StatusCancelled) {
		return Event{}, false, nil
	}

	start, allDay, err := ParseEventTime(item.Start, loc)
	if err != nil {
		return Event{}, false, fmt.Errorf("event %s start: %w", item.Id, err)
	}
	end, _, err := ParseEventTime(item.End, loc)
	if err != nil {
		return Event{}, false, fmt.Errorf("event %s end: %w", item.Id, err)
	}
	if end.Before(start) {
		end = start
	}

	summary := item.Summary
	if summary == "" {
		summary = untitledSummary
	}

	status := Status(item.Status)
	if status == "" {
		status = StatusConfirmed
	}

	var attendees []string
	for _, a := range item.Attendees {
		if a != nil && a.Email != "" {
			attendees = append(attendees, a.Email)
		}
	}

	return Event{
		ID:             item.Id,
		Summary:        summary,
		Start:          start,
		End:            end,
		AccountName:    account,
		CalendarID:     calendarID,
		CalendarName:   calendarName,
		Location:       item.Location,
		Description:    item.Description,
		AllDay:         allDay,
		ExternalLink:   item.HtmlLink,
		ConferenceLink: conferenceLink(item),
		Attendees:      attendees,
		ColorID:        item.ColorId,
		Status:         status,
	}, true, nil
}

func conferenceLink(item *gcal.Event) string {
	if item.HangoutLink != "" {
		return item.HangoutLink
	}
	if item.ConferenceData != nil {
		for _, ep := range item.ConferenceData.EntryPoints {
			if ep != nil && ep.EntryPointType == "video" {
				return ep.Uri
			}
		}
	}
	return ""
}

// toBackendEvent builds the insert payload. All-day events use date fields
// with an exclusive end date.
func toBackendEvent(in EventInput, loc *time.Location) *gcal.Event {
	event := &gcal.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
	}

	if in.AllDay {
		start := DateOf(in.Start.In(loc)).In(loc)
		end := start.AddDate(0, 0, 1)
		if !in.End.IsZero() {
			if d := DateOf(in.End.In(loc)).In(loc); d.After(start) {
				end = d
			}
		}
		event.Start = &gcal.EventDateTime{Date: start.Format(dateLayout)}
		event.End = &gcal.EventDateTime{Date: end.Format(dateLayout)}
	} else {
		event.Start = &gcal.EventDateTime{DateTime: in.Start.In(loc).Format(time.RFC3339), TimeZone: loc.String()}
		event.End = &gcal.EventDateTime{DateTime: in.End.In(loc).Format(time.RFC3339), TimeZone: loc.String()}
	}

	for _, email := range in.Attendees {
		event.Attendees = append(event.Attendees, &gcal.EventAttendee{Email: email})
	}

	return event
}
