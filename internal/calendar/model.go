package calendar

import (
	"fmt"
	"math"
	"time"
)

// AccessRole is the caller's access level on a calendar
type AccessRole string

const (
	AccessOwner          AccessRole = "owner"
	AccessWriter         AccessRole = "writer"
	AccessReader         AccessRole = "reader"
	AccessFreeBusyReader AccessRole = "freeBusyReader"
	AccessNone           AccessRole = "none"
)

// Valid reports whether r is one of the access roles the backend defines.
func (r AccessRole) Valid() bool {
	switch r {
	case AccessOwner, AccessWriter, AccessReader, AccessFreeBusyReader, AccessNone:
		return true
	}
	return false
}

// Status is the lifecycle state of an event
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusTentative Status = "tentative"
	StatusCancelled Status = "cancelled"

	// StatusError marks the placeholder event standing in for a failed account fetch.
	StatusError Status = "error"
)

// Calendar is a snapshot of one calendar as seen by one account
type Calendar struct {
	ID          string
	DisplayName string // summaryOverride, then summary, then ID
	AccessRole  AccessRole
	AccountName string
	TimeZone    string
	ColorID     string
}

// Event is a normalized calendar event. Start and End are always expressed in
// the target zone of the fetch that produced the event.
type Event struct {
	ID             string
	Summary        string
	Start          time.Time
	End            time.Time
	AccountName    string
	CalendarID     string
	CalendarName   string
	Location       string
	Description    string
	AllDay         bool
	ExternalLink   string
	ConferenceLink string
	Attendees      []string
	ColorID        string
	Status         Status
}

// DurationMinutes returns the event length rounded to whole minutes.
func (e Event) DurationMinutes() int {
	return int(math.Round(e.End.Sub(e.Start).Minutes()))
}

// IsMultiDay reports whether the event spans more than one calendar date.
// All-day events carry an exclusive end date, so a one-day all-day event
// ending at the following midnight is not multi-day.
func (e Event) IsMultiDay() bool {
	end := e.End
	if e.AllDay && end.After(e.Start) {
		end = end.AddDate(0, 0, -1)
	}
	return DateOf(e.Start) != DateOf(end)
}

// IsError reports whether e is a placeholder for a failed account fetch.
// Such events have no identity and must never be addressed by write calls.
func (e Event) IsError() bool {
	return e.Status == StatusError
}

// NewErrorEvent builds the placeholder event for an account whose fetch failed.
func NewErrorEvent(account string, err error, at time.Time) Event {
	return Event{
		Summary:     fmt.Sprintf("[Error: %s] %v", account, err),
		Description: err.Error(),
		Start:       at,
		End:         at,
		AccountName: account,
		Status:      StatusError,
	}
}

// Date is a calendar date without a time of day
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Window is a half-open time interval [Start, End) bounding an event query
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the window starting at start and lasting d.
func NewWindow(start time.Time, d time.Duration) Window {
	return Window{Start: start, End: start.Add(d)}
}

// Contains reports whether t lies inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
