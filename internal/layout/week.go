package layout

import (
	"time"

	"github.com/teemow/multical/internal/calendar"
)

// Title cuts, in runes.
const (
	allDayTitleRunes = 12
	timedTitleRunes  = 10
	markerTitleRunes = 6
	maxMarkers       = 3
)

// AllDayLabel labels all-day cells in the week grid.
const AllDayLabel = "All Day"

// Options controls grid alignment.
type Options struct {
	WeekStartsMonday bool
	// Today marks the current day; the zero value marks none.
	Today time.Time
}

// Day is one column header of a grid.
type Day struct {
	Date  calendar.Date
	Today bool
}

// WeekCell is one event slot in a week grid. The zero value is a blank cell.
type WeekCell struct {
	Account string
	Label   string // "All Day" or the start time as 15:04
	Title   string
	Error   bool
}

// Blank reports whether the cell holds no event.
func (c WeekCell) Blank() bool {
	return c.Label == ""
}

// WeekGrid is seven day columns with one row per event slot.
type WeekGrid struct {
	Days [7]Day
	Rows [][7]WeekCell
}

// WeekStart returns midnight of the first day of the week containing t.
func WeekStart(t time.Time, monday bool) time.Time {
	first := time.Sunday
	if monday {
		first = time.Monday
	}
	offset := (int(t.Weekday()) - int(first) + 7) % 7
	return calendar.DateOf(t).In(t.Location()).AddDate(0, 0, -offset)
}

// WeekWindow is the fetch window covered by Week(events, weeks, start, opts).
func WeekWindow(start time.Time, weeks int, opts Options) calendar.Window {
	if weeks < 1 {
		weeks = 1
	}
	first := WeekStart(start, opts.WeekStartsMonday)
	return calendar.Window{Start: first, End: first.AddDate(0, 0, 7*weeks)}
}

// Week lays events out in weeks grids beginning with the week that contains
// start. Events are placed on their start date in input order; events
// outside the grid are ignored.
func Week(events []calendar.Event, weeks int, start time.Time, opts Options) []WeekGrid {
	if weeks < 1 {
		weeks = 1
	}
	first := WeekStart(start, opts.WeekStartsMonday)
	today := todayOf(opts)

	byDate := make(map[calendar.Date][]WeekCell)
	for _, ev := range events {
		d := calendar.DateOf(ev.Start)
		byDate[d] = append(byDate[d], weekCell(ev))
	}

	grids := make([]WeekGrid, weeks)
	for w := range grids {
		g := &grids[w]
		var columns [7][]WeekCell
		rows := 1
		for i := range g.Days {
			d := calendar.DateOf(first.AddDate(0, 0, 7*w+i))
			g.Days[i] = Day{Date: d, Today: d == today}
			columns[i] = byDate[d]
			rows = max(rows, len(columns[i]))
		}

		g.Rows = make([][7]WeekCell, rows)
		for r := range g.Rows {
			for i, col := range columns {
				if r < len(col) {
					g.Rows[r][i] = col[r]
				}
			}
		}
	}
	return grids
}

func weekCell(ev calendar.Event) WeekCell {
	if ev.AllDay {
		return WeekCell{
			Account: ev.AccountName,
			Label:   AllDayLabel,
			Title:   cut(ev.Summary, allDayTitleRunes),
			Error:   ev.IsError(),
		}
	}
	return WeekCell{
		Account: ev.AccountName,
		Label:   ev.Start.Format("15:04"),
		Title:   cut(ev.Summary, timedTitleRunes),
		Error:   ev.IsError(),
	}
}

// todayOf returns the date flagged as today, or the zero Date.
func todayOf(opts Options) calendar.Date {
	if opts.Today.IsZero() {
		return calendar.Date{}
	}
	return calendar.DateOf(opts.Today)
}

// cut truncates s to at most n runes.
func cut(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
