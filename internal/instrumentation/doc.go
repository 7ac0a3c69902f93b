// Package instrumentation wires OpenTelemetry metrics and tracing into mcal.
//
// Telemetry is off by default and enabled with INSTRUMENTATION_ENABLED=true.
//
// # Metrics
//
// Google API:
//   - google_api_operations_total: Counter of Calendar API calls by operation and status
//   - google_api_operation_duration_seconds: Histogram of Calendar API call durations
//
// Aggregation:
//   - account_fetch_total: Counter of per-account fetches by status
//   - account_fetch_duration_seconds: Histogram of per-account fetch durations
//   - events_fetched_total: Counter of events returned per account
//
// OAuth:
//   - oauth_auth_total: Counter of interactive authorizations by result
//   - oauth_token_refresh_total: Counter of token refreshes by result
//
// MCP tools (mcal serve):
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds
//
// # Tracing
//
// Spans are created for aggregate queries (aggregate.fetch_all, aggregate.account),
// Calendar API calls (google.calendar.<operation>) and MCP tool invocations
// (tool.<name>).
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED: Enable instrumentation (default: false)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - METRICS_DETAILED_LABELS: Add the account label to aggregation metrics
package instrumentation
