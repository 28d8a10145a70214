package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/listview/internal/domain/access"
)

// Config contains server configuration.
type Config struct {
	Handler       *Handler
	Resolver      PrincipalResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	// DefaultPrincipal is the caller when auth is disabled.
	DefaultPrincipal access.Principal
	Version          string
	Logger           *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Version == "" {
		cfg.Version = "0.1.0"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "listview",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode is local; it never authenticates.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(cfg.DefaultPrincipal))
	}
	fallbackSession := ""
	if cfg.TransportMode == "stdio" {
		fallbackSession = stdioSessionID
	}
	server.AddReceivingMiddleware(sessionMiddleware(fallbackSession))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Handler, cfg.Logger)

	return server
}
