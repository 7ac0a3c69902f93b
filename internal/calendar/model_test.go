package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadZone(DefaultTimeZone)
	require.NoError(t, err)
	return loc
}

func TestEvent_DurationMinutes(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"one hour", start.Add(time.Hour), 60},
		{"zero", start, 0},
		{"rounds up", start.Add(90 * time.Second), 2},
		{"rounds down", start.Add(89 * time.Second), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Event{Start: start, End: tt.end}.DurationMinutes())
		})
	}
}

func TestEvent_IsMultiDay(t *testing.T) {
	loc := seoul(t)
	tests := []struct {
		name  string
		event Event
		want  bool
	}{
		{
			name: "one day all-day with exclusive end",
			event: Event{
				Start:  time.Date(2024, 3, 1, 0, 0, 0, 0, loc),
				End:    time.Date(2024, 3, 2, 0, 0, 0, 0, loc),
				AllDay: true,
			},
			want: false,
		},
		{
			name: "two day all-day",
			event: Event{
				Start:  time.Date(2024, 3, 1, 0, 0, 0, 0, loc),
				End:    time.Date(2024, 3, 3, 0, 0, 0, 0, loc),
				AllDay: true,
			},
			want: true,
		},
		{
			name: "timed same day",
			event: Event{
				Start: time.Date(2024, 3, 1, 9, 0, 0, 0, loc),
				End:   time.Date(2024, 3, 1, 18, 0, 0, 0, loc),
			},
			want: false,
		},
		{
			name: "timed across midnight",
			event: Event{
				Start: time.Date(2024, 3, 1, 23, 0, 0, 0, loc),
				End:   time.Date(2024, 3, 2, 1, 0, 0, 0, loc),
			},
			want: true,
		},
		{
			name: "timed ending exactly at midnight",
			event: Event{
				Start: time.Date(2024, 3, 1, 23, 0, 0, 0, loc),
				End:   time.Date(2024, 3, 2, 0, 0, 0, 0, loc),
			},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.IsMultiDay())
		})
	}
}

func TestNewErrorEvent(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ev := NewErrorEvent("work", errors.New("token expired"), at)

	assert.True(t, ev.IsError())
	assert.Empty(t, ev.ID)
	assert.Equal(t, "[Error: work] token expired", ev.Summary)
	assert.Equal(t, "token expired", ev.Description)
	assert.Equal(t, "work", ev.AccountName)
	assert.Equal(t, at, ev.Start)
	assert.Equal(t, at, ev.End)
	assert.False(t, Event{Status: StatusConfirmed}.IsError())
}

func TestDate(t *testing.T) {
	loc := seoul(t)
	ts := time.Date(2024, 3, 1, 23, 30, 0, 0, loc)
	d := DateOf(ts)

	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 1}, d)
	assert.Equal(t, "2024-03-01", d.String())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), d.In(loc))

	// The same instant is already March 1st 14:30 in UTC.
	assert.Equal(t, 1, DateOf(ts.UTC()).Day)
}

func TestWindow_Contains(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	w := NewWindow(start, 24*time.Hour)

	assert.True(t, w.Contains(start))
	assert.True(t, w.Contains(start.Add(23*time.Hour)))
	assert.False(t, w.Contains(w.End))
	assert.False(t, w.Contains(start.Add(-time.Second)))
}

func TestAccessRole_Valid(t *testing.T) {
	for _, r := range []AccessRole{AccessOwner, AccessWriter, AccessReader, AccessFreeBusyReader, AccessNone} {
		assert.True(t, r.Valid(), string(r))
	}
	assert.False(t, AccessRole("admin").Valid())
}
