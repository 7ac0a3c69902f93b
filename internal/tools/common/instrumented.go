package common

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/multical/internal/instrumentation"
	"github.com/teemow/multical/internal/logging"
	"github.com/teemow/multical/internal/server"
)

// InstrumentedToolHandler wraps a tool handler with a span, invocation
// metrics and a debug log line. A result with IsError set counts as a
// failed invocation.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		accounts := GetAccountsFromArgs(args)

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			attribute.String(instrumentation.SpanAttrAccount, strings.Join(accounts, ",")))
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			span.SetAttributes(attribute.Bool("tool.result_error", true))
		default:
			instrumentation.SetSpanSuccess(span)
		}

		sc.Metrics().RecordToolInvocation(ctx, toolName, status, duration)
		sc.Logger().Debug("tool invoked",
			logging.Tool(toolName),
			logging.Status(status),
			logging.Duration(duration),
			logging.UserHash(strings.Join(accounts, ",")),
			"accounts", len(accounts),
		)

		return result, err
	}
}
