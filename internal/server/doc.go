// Package server hosts mcal as an MCP server.
//
// ServerContext carries the shared state every MCP tool needs: the
// aggregator with its connection cache, the account store, the loaded
// settings and the telemetry recorder. One ServerContext serves every
// session; accounts are the locally authorized ones, so there is no
// per-session identity.
//
// HTTPServer exposes the MCP server over streamable HTTP on /mcp, next to
// /healthz and /readyz from HealthChecker. It has no authentication and
// refuses to bind to a non-loopback address unless AllowRemote is set.
//
// MetricsServer exposes Prometheus metrics on a separate port when
// instrumentation is enabled.
package server
