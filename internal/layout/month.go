package layout

import (
	"time"

	"github.com/teemow/multical/internal/calendar"
)

// Marker is one event shown inside a month cell.
type Marker struct {
	Account string
	Title   string
	Error   bool
}

// MonthCell is one day of the month matrix. Leading and trailing padding
// cells have Day == 0.
type MonthCell struct {
	Day      int
	Date     calendar.Date
	Today    bool
	Markers  []Marker
	Overflow int // events beyond the shown markers
}

// Blank reports whether the cell pads the matrix outside the month.
func (c MonthCell) Blank() bool {
	return c.Day == 0
}

// MonthGrid is a month laid out as whole weeks.
type MonthGrid struct {
	Year     int
	Month    time.Month
	Weekdays [7]time.Weekday
	Weeks    [][7]MonthCell
}

// MonthWindow is the fetch window of one month in loc.
func MonthWindow(year int, month time.Month, loc *time.Location) calendar.Window {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return calendar.Window{Start: first, End: first.AddDate(0, 1, 0)}
}

// Month lays out the events of one month. Only events starting inside the
// month are shown; each day lists up to three of them in input order.
func Month(events []calendar.Event, year int, month time.Month, opts Options) MonthGrid {
	g := MonthGrid{Year: year, Month: month}

	firstWeekday := time.Sunday
	if opts.WeekStartsMonday {
		firstWeekday = time.Monday
	}
	for i := range g.Weekdays {
		g.Weekdays[i] = time.Weekday((int(firstWeekday) + i) % 7)
	}

	byDay := make(map[int][]calendar.Event)
	for _, ev := range events {
		y, m, d := ev.Start.Date()
		if y == year && m == month {
			byDay[d] = append(byDay[d], ev)
		}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	lead := (int(first.Weekday()) - int(firstWeekday) + 7) % 7
	today := todayOf(opts)

	var week [7]MonthCell
	col := lead
	for day := 1; day <= days; day++ {
		d := calendar.Date{Year: year, Month: month, Day: day}
		cell := MonthCell{Day: day, Date: d, Today: d == today}

		evs := byDay[day]
		for i, ev := range evs {
			if i == maxMarkers {
				cell.Overflow = len(evs) - maxMarkers
				break
			}
			cell.Markers = append(cell.Markers, Marker{
				Account: ev.AccountName,
				Title:   cut(ev.Summary, markerTitleRunes),
				Error:   ev.IsError(),
			})
		}

		week[col] = cell
		col++
		if col == 7 {
			g.Weeks = append(g.Weeks, week)
			week = [7]MonthCell{}
			col = 0
		}
	}
	if col > 0 {
		g.Weeks = append(g.Weeks, week)
	}
	return g
}
