package calendar_tools

import (
	"fmt"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/multical/internal/calendar"
	"github.com/teemow/multical/internal/config"
	"github.com/teemow/multical/internal/server"
	"github.com/teemow/multical/internal/timeparse"
)

// RegisterCalendarTools registers all Calendar-related tools with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := RegisterReadTools(s, sc); err != nil {
		return fmt.Errorf("failed to register read tools: %w", err)
	}

	if !readOnly {
		if err := RegisterWriteTools(s, sc); err != nil {
			return fmt.Errorf("failed to register write tools: %w", err)
		}
	}

	return nil
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// stringListArg accepts an array of strings or a comma separated string.
func stringListArg(args map[string]interface{}, key string) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch v := args[key].(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case []string:
		for _, s := range v {
			add(s)
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			add(s)
		}
	}
	return out
}

func boolArg(args map[string]interface{}, key string) bool {
	v, _ := args[key].(bool)
	return v
}

func calendarIDArg(args map[string]interface{}) string {
	if id := stringArg(args, "calendarId"); id != "" {
		return id
	}
	return "primary"
}

// window resolves the start/end arguments against the aggregator clock.
func window(sc *server.ServerContext, args map[string]interface{}) (calendar.Window, error) {
	days := sc.Settings().WindowDays
	if days < 1 {
		days = config.DefaultWindowDays
	}
	start, end, err := timeparse.Range(stringArg(args, "start"), stringArg(args, "end"),
		sc.Aggregator().Now(), time.Duration(days)*24*time.Hour)
	if err != nil {
		return calendar.Window{}, err
	}
	return calendar.Window{Start: start, End: end}, nil
}

func formatEvents(events []calendar.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d events:\n\n", len(events))
	for i, ev := range events {
		fmt.Fprintf(&b, "%d. %s\n", i+1, ev.Summary)
		writeEventDetails(&b, ev)
		b.WriteString("\n")
	}
	return b.String()
}

func writeEventDetails(b *strings.Builder, ev calendar.Event) {
	fmt.Fprintf(b, "   Account: %s\n", ev.AccountName)
	if ev.IsError() {
		fmt.Fprintf(b, "   Status: %s\n", ev.Status)
		return
	}
	fmt.Fprintf(b, "   ID: %s\n", ev.ID)
	fmt.Fprintf(b, "   Calendar: %s (%s)\n", ev.CalendarName, ev.CalendarID)
	if ev.AllDay {
		fmt.Fprintf(b, "   Date: %s", calendar.DateOf(ev.Start))
		if ev.IsMultiDay() {
			fmt.Fprintf(b, " to %s", calendar.DateOf(ev.End.AddDate(0, 0, -1)))
		}
		b.WriteString(" (all day)\n")
	} else {
		fmt.Fprintf(b, "   Start: %s\n", ev.Start.Format(time.RFC3339))
		fmt.Fprintf(b, "   End: %s\n", ev.End.Format(time.RFC3339))
	}
	if ev.Location != "" {
		fmt.Fprintf(b, "   Location: %s\n", ev.Location)
	}
	if ev.ConferenceLink != "" {
		fmt.Fprintf(b, "   Meet: %s\n", ev.ConferenceLink)
	}
	if len(ev.Attendees) > 0 {
		fmt.Fprintf(b, "   Attendees: %s\n", strings.Join(ev.Attendees, ", "))
	}
	if ev.Status != "" && ev.Status != calendar.StatusConfirmed {
		fmt.Fprintf(b, "   Status: %s\n", ev.Status)
	}
}
