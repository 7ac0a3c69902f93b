package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// MCPEndpointPath is where the streamable HTTP transport is mounted.
const MCPEndpointPath = "/mcp"

// HTTPServerConfig configures the streamable HTTP transport.
type HTTPServerConfig struct {
	Addr string
	// AllowRemote permits binding to non-loopback interfaces. The endpoint
	// has no authentication, so calendars become readable by anyone who can
	// reach it.
	AllowRemote bool
	Health      *HealthChecker
}

// HTTPServer serves an MCP server over streamable HTTP with health endpoints.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	config     HTTPServerConfig
	httpServer *http.Server
	listener   net.Listener
}

// NewHTTPServer validates the bind address and prepares the server.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("MCP server cannot be nil")
	}
	if !config.AllowRemote {
		if err := validateLoopbackAddr(config.Addr); err != nil {
			return nil, err
		}
	}
	return &HTTPServer{mcpServer: mcpServer, config: config}, nil
}

// Handler returns the HTTP handler with every endpoint registered.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MCPEndpointPath, mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath(MCPEndpointPath),
	))
	if s.config.Health != nil {
		s.config.Health.RegisterHealthEndpoints(mux)
	}
	return mux
}

// Start listens on the configured address and serves until Shutdown.
// ready, when non-nil, is closed once the listener is bound.
func (s *HTTPServer) Start(ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if ready != nil {
		close(ready)
	}

	slog.Info("starting MCP HTTP server", "addr", ln.Addr().String(), "endpoint", MCPEndpointPath)
	return s.httpServer.Serve(ln)
}

// Addr returns the bound address once started, else the configured one.
func (s *HTTPServer) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Addr
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// validateLoopbackAddr rejects addresses reachable from other hosts.
func validateLoopbackAddr(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("refusing to serve on %q without authentication, bind to 127.0.0.1 or pass --allow-remote", addr)
}
