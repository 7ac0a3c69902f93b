// Package ics writes aggregated events as an iCalendar document.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/teemow/multical/internal/calendar"
)

// ProductID identifies mcal as the producer of exported documents.
const ProductID = "-//multical//mcal//EN"

// Encode writes events as one VCALENDAR. Error placeholders are skipped.
// Timed events are written in UTC; all-day events keep their dates.
func Encode(w io.Writer, events []calendar.Event, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	for _, ev := range events {
		if ev.IsError() {
			continue
		}
		cal.Children = append(cal.Children, toVEvent(ev, now))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode events to iCal format: %w", err)
	}
	return nil
}

func toVEvent(ev calendar.Event, now time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uid(ev))
	ve.Props.SetText(ical.PropSummary, ev.Summary)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())

	if ev.AllDay {
		ve.Props.SetDate(ical.PropDateTimeStart, ev.Start)
		ve.Props.SetDate(ical.PropDateTimeEnd, ev.End)
	} else {
		ve.Props.SetDateTime(ical.PropDateTimeStart, ev.Start.UTC())
		ve.Props.SetDateTime(ical.PropDateTimeEnd, ev.End.UTC())
	}

	if ev.Description != "" {
		ve.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		ve.Props.SetText(ical.PropLocation, ev.Location)
	}
	if ev.AccountName != "" {
		ve.Props.SetText(ical.PropCategories, ev.AccountName)
	}
	if ev.Status == calendar.StatusConfirmed || ev.Status == calendar.StatusTentative {
		ve.Props.SetText(ical.PropStatus, strings.ToUpper(string(ev.Status)))
	}
	if ev.ExternalLink != "" {
		p := ical.NewProp(ical.PropURL)
		p.Value = ev.ExternalLink
		ve.Props.Set(p)
	}
	for _, attendee := range ev.Attendees {
		p := ical.NewProp(ical.PropAttendee)
		p.Value = "mailto:" + attendee
		ve.Props.Add(p)
	}
	return ve
}

// uid is stable across exports of the same event.
func uid(ev calendar.Event) string {
	return fmt.Sprintf("%s/%s@%s", ev.CalendarID, ev.ID, ev.AccountName)
}
