package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/teemow/multical/internal/calendar"
)

// Options tune the text output.
type Options struct {
	// MilitaryTime selects 24-hour clock times in the agenda.
	MilitaryTime bool
}

// Printer renders calendar data for the terminal. Color is controlled by
// fatih/color, which disables itself when out is not a terminal.
type Printer struct {
	out      io.Writer
	colors   *ColorAssigner
	military bool

	bold    *color.Color
	faint   *color.Color
	header  *color.Color
	errText *color.Color
	today   *color.Color
}

// NewPrinter creates a printer writing to out. colors is shared by every
// view of one invocation so an account keeps its color.
func NewPrinter(out io.Writer, colors *ColorAssigner, opts Options) *Printer {
	if colors == nil {
		colors = NewColorAssigner()
	}
	return &Printer{
		out:      out,
		colors:   colors,
		military: opts.MilitaryTime,
		bold:     color.New(color.Bold),
		faint:    color.New(color.Faint),
		header:   color.New(color.Bold, color.FgYellow),
		errText:  color.New(color.FgRed),
		today:    color.New(color.Bold, color.FgHiWhite, color.BgBlue),
	}
}

// Calendars prints a table of calendars with their account and access role.
func (p *Printer) Calendars(cals []calendar.Calendar) {
	if len(cals) == 0 {
		_, _ = p.faint.Fprintln(p.out, "No calendars found.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(p.bold.Sprint("Account"), p.bold.Sprint("Access"), p.bold.Sprint("Calendar"))
	for _, cal := range cals {
		tbl.AddRow(p.colors.Color(cal.AccountName).Sprint(cal.AccountName), p.faint.Sprint(string(cal.AccessRole)), cal.DisplayName)
	}
	_, _ = fmt.Fprintln(p.out, tbl)
}

// AccountFailure reports an account that could not be queried.
func (p *Printer) AccountFailure(account string, err error) {
	_, _ = p.errText.Fprintf(p.out, "Error for account %s: %v\n", account, err)
}

// Accounts prints the configured accounts, marking the default one.
func (p *Printer) Accounts(accounts []string, defaultAccount string) {
	if len(accounts) == 0 {
		_, _ = p.faint.Fprintln(p.out, "No accounts configured. Run 'mcal account add <name>'.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(p.bold.Sprint("Account"), p.bold.Sprint("Default"))
	for _, a := range accounts {
		def := ""
		if a == defaultAccount {
			def = "*"
		}
		tbl.AddRow(p.colors.Color(a).Sprint(a), def)
	}
	_, _ = fmt.Fprintln(p.out, tbl)
}

func (p *Printer) timeFormat() string {
	if p.military {
		return "15:04"
	}
	return "03:04 PM"
}

// Agenda prints events grouped by start date. empty is printed when there
// are no events; an empty string selects a generic message.
func (p *Printer) Agenda(events []calendar.Event, empty string) {
	if len(events) == 0 {
		if empty == "" {
			empty = "No events found."
		}
		_, _ = p.faint.Fprintln(p.out, empty)
		return
	}

	layout := p.timeFormat()
	timeWidth := 2*len(layout) + 1

	var current calendar.Date
	for i, ev := range events {
		if d := calendar.DateOf(ev.Start); i == 0 || d != current {
			current = d
			_, _ = fmt.Fprintln(p.out)
			_, _ = p.header.Fprintln(p.out, ev.Start.Format("Mon 2006-01-02"))
			_, _ = p.faint.Fprintln(p.out, strings.Repeat("─", 60))
		}

		when := "All Day"
		if !ev.AllDay {
			when = ev.Start.Format(layout) + "-" + ev.End.Format(layout)
		}
		when = fmt.Sprintf("%-*s", timeWidth, when)

		summary := ev.Summary
		if ev.IsError() {
			summary = p.errText.Sprint(summary)
		}

		line := fmt.Sprintf("  %s  %s  %s", p.faint.Sprint(when), summary,
			p.colors.Color(ev.AccountName).Sprintf("[%s]", ev.AccountName))
		if ev.Location != "" {
			line += p.faint.Sprintf(" @ %s", ev.Location)
		}
		_, _ = fmt.Fprintln(p.out, line)
	}
}

// Matches prints a numbered list of events for interactive selection.
func (p *Printer) Matches(events []calendar.Event) {
	for i, ev := range events {
		when := ev.Start.Format("2006-01-02 " + p.timeFormat())
		if ev.AllDay {
			when = ev.Start.Format("2006-01-02") + " All Day"
		}
		_, _ = fmt.Fprintf(p.out, "  [%d] %s  %s (%s)  %s\n", i+1, when, ev.Summary, ev.CalendarName,
			p.colors.Color(ev.AccountName).Sprintf("[%s]", ev.AccountName))
	}
}

// Created confirms a newly written event.
func (p *Printer) Created(ev *calendar.Event) {
	_, _ = p.bold.Fprintf(p.out, "Created: %s\n", ev.Summary)
	when := ev.Start.Format("Mon 2006-01-02 " + p.timeFormat())
	if ev.AllDay {
		when = ev.Start.Format("Mon 2006-01-02") + " (all day)"
	}
	_, _ = fmt.Fprintf(p.out, "  When: %s\n", when)
	if ev.ConferenceLink != "" {
		_, _ = fmt.Fprintf(p.out, "  Meet: %s\n", ev.ConferenceLink)
	}
	if ev.ExternalLink != "" {
		_, _ = fmt.Fprintf(p.out, "  Link: %s\n", ev.ExternalLink)
	}
}

// Deleted confirms a removed event.
func (p *Printer) Deleted(summary string) {
	_, _ = p.bold.Fprintf(p.out, "Deleted: %s\n", summary)
}
