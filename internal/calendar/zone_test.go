package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
)

func TestParseEventTime(t *testing.T) {
	loc := seoul(t)

	tests := []struct {
		name       string
		in         *gcal.EventDateTime
		want       time.Time
		wantAllDay bool
		wantErr    bool
	}{
		{
			name:       "all-day date is local midnight",
			in:         &gcal.EventDateTime{Date: "2024-03-01"},
			want:       time.Date(2024, 3, 1, 0, 0, 0, 0, loc),
			wantAllDay: true,
		},
		{
			name: "dateTime with offset",
			in:   &gcal.EventDateTime{DateTime: "2024-03-01T10:00:00+01:00"},
			want: time.Date(2024, 3, 1, 18, 0, 0, 0, loc),
		},
		{
			name: "dateTime in UTC",
			in:   &gcal.EventDateTime{DateTime: "2024-03-01T00:00:00Z"},
			want: time.Date(2024, 3, 1, 9, 0, 0, 0, loc),
		},
		{
			name: "zone-less dateTime is read as UTC",
			in:   &gcal.EventDateTime{DateTime: "2024-03-01T00:00:00"},
			want: time.Date(2024, 3, 1, 9, 0, 0, 0, loc),
		},
		{
			name: "zone-less dateTime ignores the timeZone field",
			in:   &gcal.EventDateTime{DateTime: "2024-03-01T12:30", TimeZone: "America/New_York"},
			want: time.Date(2024, 3, 1, 21, 30, 0, 0, loc),
		},
		{
			name:    "nil",
			in:      nil,
			wantErr: true,
		},
		{
			name:    "neither date nor dateTime",
			in:      &gcal.EventDateTime{},
			wantErr: true,
		},
		{
			name:    "garbage date",
			in:      &gcal.EventDateTime{Date: "March 1st"},
			wantErr: true,
		},
		{
			name:    "garbage dateTime",
			in:      &gcal.EventDateTime{DateTime: "tomorrow at noon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, allDay, err := ParseEventTime(tt.in, loc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
			assert.Equal(t, loc, got.Location())
			assert.Equal(t, tt.wantAllDay, allDay)
		})
	}
}

func TestLoadZone(t *testing.T) {
	loc, err := LoadZone("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeZone, loc.String())

	loc, err = LoadZone("Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	_, err = LoadZone("Mars/Olympus_Mons")
	assert.Error(t, err)
}
