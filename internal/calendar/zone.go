package calendar

import (
	"fmt"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host's zoneinfo

	gcal "google.golang.org/api/calendar/v3"
)

// DefaultTimeZone is the zone every fetched instant is normalized into unless
// configured otherwise.
const DefaultTimeZone = "Asia/Seoul"

const dateLayout = "2006-01-02"

// zonelessLayouts are accepted for dateTime values that carry no offset.
// Such values are read as UTC.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// LoadZone loads a named location, falling back to DefaultTimeZone for "".
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", name, err)
	}
	return loc, nil
}

// ParseEventTime resolves a backend start/end value into an instant in loc.
// A bare date is an all-day boundary anchored at midnight in loc.
func ParseEventTime(edt *gcal.EventDateTime, loc *time.Location) (t time.Time, allDay bool, err error) {
	if edt == nil {
		return time.Time{}, false, fmt.Errorf("missing event time")
	}

	if edt.Date != "" {
		t, err := time.ParseInLocation(dateLayout, edt.Date, loc)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid event date %q: %w", edt.Date, err)
		}
		return t, true, nil
	}

	if edt.DateTime == "" {
		return time.Time{}, false, fmt.Errorf("event time has neither date nor dateTime")
	}

	t, err = ParseTimestamp(edt.DateTime)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.In(loc), false, nil
}

// ParseTimestamp parses an RFC 3339 timestamp. Values without an offset are
// taken to be UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid event dateTime %q", s)
}
