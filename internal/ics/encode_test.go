package ics

import (
	"bytes"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/multical/internal/calendar"
)

func TestEncode(t *testing.T) {
	kst := time.FixedZone("KST", 9*3600)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, kst)
	now := time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC)

	events := []calendar.Event{
		{
			ID: "a1", CalendarID: "primary", AccountName: "home", Summary: "Holiday",
			Start: day, End: day.AddDate(0, 0, 1), AllDay: true, Status: calendar.StatusConfirmed,
		},
		{
			ID: "w1", CalendarID: "team", AccountName: "work", Summary: "Standup",
			Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour),
			Location: "Room 1", Attendees: []string{"bob@example.com"},
			ExternalLink: "https://calendar.example.com/event?eid=w1",
		},
		calendar.NewErrorEvent("broken", assert.AnError, now),
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, events, now))
	out := buf.String()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+ProductID)
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240301")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20240302")
	assert.Contains(t, out, "STATUS:CONFIRMED")
	assert.Contains(t, out, "DTSTART:20240301T000000Z")
	assert.Contains(t, out, "DTEND:20240301T010000Z")
	assert.Contains(t, out, "ATTENDEE:mailto:bob@example.com")
	assert.Contains(t, out, "UID:team/w1@work")
	assert.NotContains(t, out, "broken")

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)
	assert.Len(t, cal.Events(), 2)
}
