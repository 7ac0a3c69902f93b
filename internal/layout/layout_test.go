package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/multical/internal/calendar"
)

func timed(account, summary string, start time.Time) calendar.Event {
	return calendar.Event{AccountName: account, Summary: summary, Start: start, End: start.Add(time.Hour)}
}

func allDay(account, summary string, year int, month time.Month, day int) calendar.Event {
	start := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return calendar.Event{AccountName: account, Summary: summary, Start: start, End: start.AddDate(0, 0, 1), AllDay: true}
}

func TestWeekStart(t *testing.T) {
	wed := time.Date(2024, 3, 6, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		t      time.Time
		monday bool
		want   time.Time
	}{
		{"monday start", wed, true, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"sunday start", wed, false, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"sunday with monday start", time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), true, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"already aligned", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), true, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.t, tt.monday))
		})
	}
}

func TestWeek_RowsAndBlankDay(t *testing.T) {
	mon := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	events := []calendar.Event{
		timed("work", "Standup", mon.Add(9*time.Hour)),
		timed("home", "Dentist appointment", mon.Add(11*time.Hour)),
		allDay("work", "Conference day one", 2024, 3, 4),
		timed("home", "Yoga", mon.AddDate(0, 0, 2).Add(18*time.Hour)),
		timed("home", "Next week", mon.AddDate(0, 0, 7)),
	}

	grids := Week(events, 1, mon.AddDate(0, 0, 3), Options{WeekStartsMonday: true, Today: mon.AddDate(0, 0, 2).Add(8 * time.Hour)})
	require.Len(t, grids, 1)
	g := grids[0]

	assert.Equal(t, calendar.Date{Year: 2024, Month: time.March, Day: 4}, g.Days[0].Date)
	assert.True(t, g.Days[2].Today)
	assert.False(t, g.Days[0].Today)

	require.Len(t, g.Rows, 3)
	for _, row := range g.Rows {
		assert.True(t, row[1].Blank(), "tuesday must be blank")
	}

	assert.Equal(t, WeekCell{Account: "work", Label: "09:00", Title: "Standup"}, g.Rows[0][0])
	assert.Equal(t, "Dentist ap", g.Rows[1][0].Title)
	assert.Equal(t, WeekCell{Account: "work", Label: AllDayLabel, Title: "Conference d"}, g.Rows[2][0])
	assert.Equal(t, "18:00", g.Rows[0][2].Label)
	assert.True(t, g.Rows[1][2].Blank())
}

func TestWeek_MultipleWeeksAndEmpty(t *testing.T) {
	sun := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	events := []calendar.Event{timed("work", "Later", sun.AddDate(0, 0, 8).Add(10*time.Hour))}

	grids := Week(events, 2, sun, Options{})
	require.Len(t, grids, 2)

	assert.Len(t, grids[0].Rows, 1)
	for _, cell := range grids[0].Rows[0] {
		assert.True(t, cell.Blank())
	}
	assert.Equal(t, 10, grids[1].Days[0].Date.Day)
	assert.Equal(t, "Later", grids[1].Rows[0][1].Title)
}

func TestWeek_CutsRunes(t *testing.T) {
	mon := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	grids := Week([]calendar.Event{timed("work", "주간 회의 및 계획 세우기", mon)}, 1, mon, Options{WeekStartsMonday: true})
	assert.Equal(t, "주간 회의 및 계획", grids[0].Rows[0][0].Title)
}

func TestWeekWindow(t *testing.T) {
	w := WeekWindow(time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC), 2, Options{WeekStartsMonday: true})
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), w.End)
}

func TestMonth_MarkersAndOverflow(t *testing.T) {
	var events []calendar.Event
	for _, title := range []string{"Breakfast", "Meeting", "Lunch", "Review", "Dinner"} {
		events = append(events, timed("work", title, time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)))
	}
	events = append(events,
		timed("home", "Outside", time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)),
		timed("home", "Outside", time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)),
	)

	g := Month(events, 2024, time.March, Options{WeekStartsMonday: true, Today: time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)})

	assert.Equal(t, [7]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}, g.Weekdays)
	require.Len(t, g.Weeks, 5)

	// March 1st 2024 is a Friday.
	for i := 0; i < 4; i++ {
		assert.True(t, g.Weeks[0][i].Blank())
	}
	assert.Equal(t, 1, g.Weeks[0][4].Day)

	cell := g.Weeks[2][4]
	assert.Equal(t, 15, cell.Day)
	assert.Equal(t, []Marker{
		{Account: "work", Title: "Breakf"},
		{Account: "work", Title: "Meetin"},
		{Account: "work", Title: "Lunch"},
	}, cell.Markers)
	assert.Equal(t, 2, cell.Overflow)

	assert.True(t, g.Weeks[3][2].Today)
	assert.Equal(t, 20, g.Weeks[3][2].Day)

	total := 0
	for _, week := range g.Weeks {
		for _, c := range week {
			total += len(c.Markers) + c.Overflow
		}
	}
	assert.Equal(t, 5, total, "events outside the month are excluded")
}

func TestMonth_SundayStart(t *testing.T) {
	g := Month(nil, 2024, time.March, Options{})

	assert.Equal(t, time.Sunday, g.Weekdays[0])
	require.Len(t, g.Weeks, 6)
	assert.Equal(t, 1, g.Weeks[0][5].Day)
	assert.Equal(t, 31, g.Weeks[5][0].Day)
	assert.True(t, g.Weeks[5][1].Blank())
}

func TestMonthWindow(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	w := MonthWindow(2024, time.December, loc)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, loc), w.Start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, loc), w.End)
}
