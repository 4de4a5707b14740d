// Package mcp exposes a read-only tool surface over the domain services so
// agent clients can browse projects, tickets, members, and their version
// history. Mutations stay on the HTTP boundary.
package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pulseboard/pulseboard/internal/domain/member"
	"github.com/pulseboard/pulseboard/internal/domain/project"
	"github.com/pulseboard/pulseboard/internal/domain/ticket"
)

const serverInstructions = `pulseboard exposes a read-only view of an admin backend: Projects, Tickets, Members.

Core concepts:
- Every entity has an immutable id, a unique slug, and a lifecycle status.
- Deletes are soft: deleted entities keep their slug and stay visible behind include_deleted.
- Every write snapshots the pre-write state; version numbers count up from 1 per entity.
- Lists are cursor paginated. Pass the next_cursor from a page to fetch the one after it.

Workflow:
1) Browse with list_projects / list_tickets / list_members (use search and limit to stay cheap).
2) Fetch one entity with get_project / get_ticket / get_member.
3) Inspect history with project_versions and compare_project_versions.
`

// Services contains the domain services the tools read from.
type Services struct {
	Projects *project.Service
	Tickets  *ticket.Service
	Members  *member.Service
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and
// middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "pulseboard",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
