package calendar_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/multical/internal/aggregate"
	"github.com/teemow/multical/internal/server"
	"github.com/teemow/multical/internal/tools/common"
)

const (
	accountsDescription  = "Comma-separated account names to include. Defaults to every configured account."
	calendarsDescription = "Comma-separated substrings; only calendars whose name contains one of them are included (case-insensitive)."
	startDescription     = "Window start: RFC3339, 2006-01-02, 2006-01-02T15:04, 15:04, now, today, tomorrow or an offset like +2d. Defaults to now."
	endDescription       = "Window end, same formats as start. A date includes the whole day. Defaults to start plus the configured window."
)

// RegisterReadTools registers the tools that never modify a calendar.
func RegisterReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listCalendarsTool := mcp.NewTool("calendar_list_calendars",
		mcp.WithDescription("List the calendars of every configured account with their access role"),
		mcp.WithString("accounts",
			mcp.Description(accountsDescription),
		),
		mcp.WithString("calendars",
			mcp.Description(calendarsDescription),
		),
	)
	s.AddTool(listCalendarsTool, common.InstrumentedToolHandler("calendar_list_calendars", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListCalendars(ctx, request, sc)
		}))

	agendaTool := mcp.NewTool("calendar_agenda",
		mcp.WithDescription("List the events of all accounts in a time window, merged and sorted by start time"),
		mcp.WithString("accounts",
			mcp.Description(accountsDescription),
		),
		mcp.WithString("start",
			mcp.Description(startDescription),
		),
		mcp.WithString("end",
			mcp.Description(endDescription),
		),
		mcp.WithString("calendars",
			mcp.Description(calendarsDescription),
		),
	)
	s.AddTool(agendaTool, common.InstrumentedToolHandler("calendar_agenda", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAgenda(ctx, request, sc)
		}))

	searchTool := mcp.NewTool("calendar_search",
		mcp.WithDescription("Search events of all accounts by text. Without a window the last 30 days through the next year are searched."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free text matched against event fields"),
		),
		mcp.WithString("accounts",
			mcp.Description(accountsDescription),
		),
		mcp.WithString("start",
			mcp.Description("Window start, same formats as calendar_agenda"),
		),
		mcp.WithString("end",
			mcp.Description("Window end, same formats as calendar_agenda"),
		),
		mcp.WithString("calendars",
			mcp.Description(calendarsDescription),
		),
	)
	s.AddTool(searchTool, common.InstrumentedToolHandler("calendar_search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearch(ctx, request, sc)
		}))

	return nil
}

func handleListCalendars(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	accounts, err := sc.ResolveAccounts(common.GetAccountsFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	calendars, failures, err := sc.Aggregator().ListCalendars(ctx, accounts, stringListArg(args, "calendars"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list calendars: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d calendars:\n\n", len(calendars))
	for _, cal := range calendars {
		fmt.Fprintf(&b, "- %s\n", cal.DisplayName)
		fmt.Fprintf(&b, "  Account: %s\n", cal.AccountName)
		fmt.Fprintf(&b, "  ID: %s\n", cal.ID)
		fmt.Fprintf(&b, "  Access: %s\n", cal.AccessRole)
		if cal.TimeZone != "" {
			fmt.Fprintf(&b, "  Time zone: %s\n", cal.TimeZone)
		}
	}
	writeFailures(&b, failures)

	return mcp.NewToolResultText(b.String()), nil
}

func writeFailures(b *strings.Builder, failures []aggregate.AccountError) {
	if len(failures) == 0 {
		return
	}
	b.WriteString("\nErrors:\n")
	for _, f := range failures {
		fmt.Fprintf(b, "- %s: %v\n", f.Account, f.Err)
	}
}

func handleAgenda(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	accounts, err := sc.ResolveAccounts(common.GetAccountsFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	w, err := window(sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := sc.Aggregator().FetchAll(ctx, aggregate.Query{
		Accounts:  accounts,
		Window:    w,
		Calendars: stringListArg(args, "calendars"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch events: %v", err)), nil
	}

	return mcp.NewToolResultText(formatEvents(events)), nil
}

func handleSearch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	text := stringArg(args, "query")
	if text == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	accounts, err := sc.ResolveAccounts(common.GetAccountsFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	q := aggregate.Query{
		Accounts:  accounts,
		Text:      text,
		Calendars: stringListArg(args, "calendars"),
	}
	if stringArg(args, "start") != "" || stringArg(args, "end") != "" {
		if q.Window, err = window(sc, args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	events, err := sc.Aggregator().Search(ctx, q)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search events: %v", err)), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No events matching %q", text)), nil
	}

	return mcp.NewToolResultText(formatEvents(events)), nil
}
