package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/teemow/multical/internal/layout"
)

// Column widths in terminal cells.
const (
	weekColumnWidth  = 18
	monthColumnWidth = 13
	columnSeparator  = " │ "
)

const (
	weekMarker  = "■"
	monthMarker = "·"
)

// fit pads or truncates s to exactly width terminal cells.
func fit(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

// segment is one colored run of text inside a grid cell.
type segment struct {
	text  string
	color *color.Color
}

// cell renders segments into exactly width cells. Padding is computed on the
// plain text so escape codes do not disturb alignment.
func cell(width int, segs ...segment) string {
	var b strings.Builder
	used := 0
	for _, s := range segs {
		if used >= width {
			break
		}
		text := runewidth.Truncate(s.text, width-used, "")
		used += runewidth.StringWidth(text)
		if s.color != nil {
			b.WriteString(s.color.Sprint(text))
		} else {
			b.WriteString(text)
		}
	}
	b.WriteString(strings.Repeat(" ", width-used))
	return b.String()
}

// Week prints week grids, one table per week.
func (p *Printer) Week(grids []layout.WeekGrid) {
	for gi, g := range grids {
		if gi > 0 {
			_, _ = fmt.Fprintln(p.out)
		}

		headers := make([]string, len(g.Days))
		for i, d := range g.Days {
			label := fit(d.Date.In(time.UTC).Format("Mon 01/02"), weekColumnWidth)
			if d.Today {
				headers[i] = p.today.Sprint(label)
			} else {
				headers[i] = p.bold.Sprint(label)
			}
		}
		_, _ = fmt.Fprintln(p.out, strings.Join(headers, columnSeparator))
		_, _ = p.faint.Fprintln(p.out, rule(len(g.Days), weekColumnWidth))

		for _, row := range g.Rows {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = p.weekCell(c)
			}
			_, _ = fmt.Fprintln(p.out, strings.Join(cells, columnSeparator))
		}
	}
}

func (p *Printer) weekCell(c layout.WeekCell) string {
	if c.Blank() {
		return strings.Repeat(" ", weekColumnWidth)
	}
	var title *color.Color
	if c.Error {
		title = p.errText
	}
	if c.Label == layout.AllDayLabel {
		return cell(weekColumnWidth,
			segment{weekMarker, p.colors.Color(c.Account)},
			segment{" " + c.Title, title})
	}
	return cell(weekColumnWidth,
		segment{weekMarker, p.colors.Color(c.Account)},
		segment{" " + c.Label + " ", p.faint},
		segment{c.Title, title})
}

// Month prints a month matrix with up to three markers per day.
func (p *Printer) Month(g layout.MonthGrid) {
	title := fmt.Sprintf("%s %d", g.Month, g.Year)
	_, _ = p.bold.Fprintln(p.out, title)

	headers := make([]string, len(g.Weekdays))
	for i, wd := range g.Weekdays {
		headers[i] = p.bold.Sprint(fit(wd.String()[:3], monthColumnWidth))
	}
	_, _ = fmt.Fprintln(p.out, strings.Join(headers, columnSeparator))
	_, _ = p.faint.Fprintln(p.out, rule(len(g.Weekdays), monthColumnWidth))

	for _, week := range g.Weeks {
		lines := 1
		for _, c := range week {
			n := 1 + len(c.Markers)
			if c.Overflow > 0 {
				n++
			}
			lines = max(lines, n)
		}

		for line := 0; line < lines; line++ {
			cells := make([]string, len(week))
			for i, c := range week {
				cells[i] = p.monthLine(c, line)
			}
			_, _ = fmt.Fprintln(p.out, strings.Join(cells, columnSeparator))
		}
	}
}

func (p *Printer) monthLine(c layout.MonthCell, line int) string {
	blank := strings.Repeat(" ", monthColumnWidth)
	if c.Blank() {
		return blank
	}
	if line == 0 {
		day := fmt.Sprintf("%2d", c.Day)
		if c.Today {
			return cell(monthColumnWidth, segment{day, p.today})
		}
		return cell(monthColumnWidth, segment{day, p.bold})
	}

	i := line - 1
	if i < len(c.Markers) {
		m := c.Markers[i]
		var title *color.Color
		if m.Error {
			title = p.errText
		}
		return cell(monthColumnWidth,
			segment{monthMarker, p.colors.Color(m.Account)},
			segment{m.Title, title})
	}
	if i == len(c.Markers) && c.Overflow > 0 {
		return cell(monthColumnWidth, segment{fmt.Sprintf("+%d", c.Overflow), p.faint})
	}
	return blank
}

func rule(columns, width int) string {
	parts := make([]string, columns)
	for i := range parts {
		parts[i] = strings.Repeat("─", width)
	}
	return strings.Join(parts, "─┼─")
}
