package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/multical/internal/calendar"
	"github.com/teemow/multical/internal/server"
	"github.com/teemow/multical/internal/timeparse"
	"github.com/teemow/multical/internal/tools/common"
)

const defaultEventDuration = time.Hour

const (
	writeAccountDescription = "Account to write to. Defaults to the configured default account."
	calendarIDDescription   = "Calendar ID (default: 'primary')"
)

// RegisterWriteTools registers the tools that create or delete events.
func RegisterWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	quickAddTool := mcp.NewTool("calendar_quick_add",
		mcp.WithDescription("Create an event from a short text such as 'Lunch with Ana tomorrow 12:30'. Google parses the text."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Event text including title, date and time"),
		),
		mcp.WithString("account",
			mcp.Description(writeAccountDescription),
		),
		mcp.WithString("calendarId",
			mcp.Description(calendarIDDescription),
		),
	)
	s.AddTool(quickAddTool, common.InstrumentedToolHandler("calendar_quick_add", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleQuickAdd(ctx, request, sc)
		}))

	createEventTool := mcp.NewTool("calendar_create_event",
		mcp.WithDescription("Create a calendar event on one account, optionally with a Google Meet link"),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start: RFC3339, 2006-01-02T15:04, 15:04, tomorrow, +2h. A plain date creates an all-day event."),
		),
		mcp.WithString("end",
			mcp.Description("End, same formats as start. For all-day events the end date is inclusive."),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Description("Length in minutes when end is not given (default: 60)"),
		),
		mcp.WithBoolean("allDay",
			mcp.Description("Create as all-day event"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated list of attendee email addresses"),
		),
		mcp.WithBoolean("addGoogleMeet",
			mcp.Description("Add a Google Meet link to the event"),
		),
		mcp.WithString("account",
			mcp.Description(writeAccountDescription),
		),
		mcp.WithString("calendarId",
			mcp.Description(calendarIDDescription),
		),
	)
	s.AddTool(createEventTool, common.InstrumentedToolHandler("calendar_create_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}))

	deleteEventTool := mcp.NewTool("calendar_delete_event",
		mcp.WithDescription("Delete a calendar event by ID. Use calendar_search or calendar_agenda to find the ID."),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
		mcp.WithString("account",
			mcp.Description(writeAccountDescription),
		),
		mcp.WithString("calendarId",
			mcp.Description(calendarIDDescription),
		),
	)
	s.AddTool(deleteEventTool, common.InstrumentedToolHandler("calendar_delete_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		}))

	return nil
}

// writeClient returns the client of the account a write goes to.
func writeClient(ctx context.Context, sc *server.ServerContext, args map[string]interface{}) (*calendar.Client, error) {
	account, err := sc.WriteAccount(common.GetAccountFromArgs(args))
	if err != nil {
		return nil, err
	}
	return sc.Aggregator().Client(ctx, account)
}

func handleQuickAdd(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	text := stringArg(args, "text")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	client, err := writeClient(ctx, sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ev, err := client.QuickAdd(ctx, calendarIDArg(args), text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add event: %v", err)), nil
	}
	return mcp.NewToolResultText(formatCreated(*ev)), nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	input, err := eventInput(args, sc.Aggregator().Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := writeClient(ctx, sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ev, err := client.CreateEvent(ctx, calendarIDArg(args), input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
	}
	return mcp.NewToolResultText(formatCreated(*ev)), nil
}

// eventInput builds the event to create. A date-only start or allDay makes
// an all-day event whose end date is inclusive.
func eventInput(args map[string]interface{}, now time.Time) (calendar.EventInput, error) {
	summary := stringArg(args, "summary")
	if summary == "" {
		return calendar.EventInput{}, fmt.Errorf("summary is required")
	}
	startExpr := stringArg(args, "start")
	if startExpr == "" {
		return calendar.EventInput{}, fmt.Errorf("start is required")
	}

	start, dateOnly, err := timeparse.Parse(startExpr, now)
	if err != nil {
		return calendar.EventInput{}, fmt.Errorf("invalid start: %w", err)
	}

	input := calendar.EventInput{
		Summary:       summary,
		Description:   stringArg(args, "description"),
		Location:      stringArg(args, "location"),
		Start:         start,
		AllDay:        dateOnly || boolArg(args, "allDay"),
		Attendees:     stringListArg(args, "attendees"),
		AddConference: boolArg(args, "addGoogleMeet"),
	}

	if endExpr := stringArg(args, "end"); endExpr != "" {
		end, _, err := timeparse.Parse(endExpr, now)
		if err != nil {
			return calendar.EventInput{}, fmt.Errorf("invalid end: %w", err)
		}
		if input.AllDay {
			end = end.AddDate(0, 0, 1)
		}
		input.End = end
	} else if !input.AllDay {
		duration := defaultEventDuration
		if minutes, ok := args["durationMinutes"].(float64); ok && minutes > 0 {
			duration = time.Duration(minutes * float64(time.Minute))
		}
		input.End = start.Add(duration)
	}

	return input, nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID := stringArg(args, "eventId")
	if eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	client, err := writeClient(ctx, sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	calendarID := calendarIDArg(args)
	if err := client.DeleteEvent(ctx, calendarID, eventID); err != nil {
		if calendar.IsNotFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("Event %s not found in calendar %s of account %s", eventID, calendarID, client.Account())), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Event %s deleted from account %s", eventID, client.Account())), nil
}

func formatCreated(ev calendar.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event created: %s\n", ev.Summary)
	writeEventDetails(&b, ev)
	if ev.ExternalLink != "" {
		fmt.Fprintf(&b, "   Link: %s\n", ev.ExternalLink)
	}
	return b.String()
}
