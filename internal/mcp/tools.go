package mcp

import (
	"context"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pulseboard/pulseboard/internal/domain/member"
	"github.com/pulseboard/pulseboard/internal/domain/project"
	"github.com/pulseboard/pulseboard/internal/domain/ticket"
	"github.com/pulseboard/pulseboard/internal/pagination"
	"github.com/pulseboard/pulseboard/internal/version"
)

type listArgs struct {
	Cursor         string `json:"cursor,omitempty" jsonschema:"opaque cursor from a previous page"`
	Direction      string `json:"direction,omitempty" jsonschema:"forward (default) or backward"`
	Limit          int    `json:"limit,omitempty" jsonschema:"page size, defaults to 20"`
	Search         string `json:"search,omitempty" jsonschema:"case-insensitive substring filter"`
	Sort           string `json:"sort,omitempty" jsonschema:"createdAt (default, newest first) or the alphabetical sort"`
	IncludeDeleted bool   `json:"include_deleted,omitempty" jsonschema:"include soft-deleted entities"`
}

type getArgs struct {
	ID int64 `json:"id" jsonschema:"entity id"`
}

type listTicketsArgs struct {
	listArgs
	ProjectID *int64 `json:"project_id,omitempty" jsonschema:"only tickets belonging to this project"`
}

type compareArgs struct {
	ID   int64 `json:"id" jsonschema:"project id"`
	From int64 `json:"from" jsonschema:"older version number"`
	To   int64 `json:"to" jsonschema:"newer version number"`
}

type versionsResult struct {
	Versions []project.Version `json:"versions"`
	Count    int64             `json:"count"`
}

func (a listArgs) direction() pagination.Direction {
	if a.Direction == string(pagination.DirectionBackward) {
		return pagination.DirectionBackward
	}
	return pagination.DirectionForward
}

func registerTools(server *sdkmcp.Server, services Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects, cursor paginated, optionally filtered by search text",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args listArgs) (*sdkmcp.CallToolResult, pagination.Page[project.Project], error) {
		opts := project.ListOptions{
			Cursor:         args.Cursor,
			Direction:      args.direction(),
			Limit:          args.Limit,
			Search:         args.Search,
			Sort:           project.SortCreatedAt,
			IncludeDeleted: args.IncludeDeleted,
		}
		if args.Sort == string(project.SortTitle) {
			opts.Sort = project.SortTitle
		}
		page, err := services.Projects.List(ctx, opts)
		return nil, page, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one project by id, soft-deleted or not",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args getArgs) (*sdkmcp.CallToolResult, *project.Project, error) {
		proj, err := services.Projects.Get(ctx, args.ID)
		if errors.Is(err, project.ErrNotFound) {
			return nil, nil, fmt.Errorf("project %d not found", args.ID)
		}
		return nil, proj, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_versions",
		Description: "Get a project's full version history, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args getArgs) (*sdkmcp.CallToolResult, versionsResult, error) {
		versions, err := services.Projects.Versions(ctx, args.ID)
		if err != nil {
			return nil, versionsResult{}, err
		}
		count, err := services.Projects.VersionCount(ctx, args.ID)
		if err != nil {
			return nil, versionsResult{}, err
		}
		return nil, versionsResult{Versions: versions, Count: count}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "compare_project_versions",
		Description: "Diff two snapshots of a project field by field",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args compareArgs) (*sdkmcp.CallToolResult, version.Diff, error) {
		diff, err := services.Projects.CompareVersions(ctx, args.ID, args.From, args.To)
		if err != nil {
			return nil, version.Diff{}, err
		}
		if diff == nil {
			return nil, version.Diff{}, fmt.Errorf("version %d or %d not found for project %d", args.From, args.To, args.ID)
		}
		return nil, *diff, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_tickets",
		Description: "List tickets, cursor paginated, optionally filtered by search text or project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args listTicketsArgs) (*sdkmcp.CallToolResult, pagination.Page[ticket.Ticket], error) {
		opts := ticket.ListOptions{
			Cursor:         args.Cursor,
			Direction:      args.direction(),
			Limit:          args.Limit,
			Search:         args.Search,
			Sort:           ticket.SortCreatedAt,
			ProjectID:      args.ProjectID,
			IncludeDeleted: args.IncludeDeleted,
		}
		if args.Sort == string(ticket.SortTitle) {
			opts.Sort = ticket.SortTitle
		}
		page, err := services.Tickets.List(ctx, opts)
		return nil, page, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_ticket",
		Description: "Get one ticket by id, soft-deleted or not",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args getArgs) (*sdkmcp.CallToolResult, *ticket.Ticket, error) {
		t, err := services.Tickets.Get(ctx, args.ID)
		if errors.Is(err, ticket.ErrNotFound) {
			return nil, nil, fmt.Errorf("ticket %d not found", args.ID)
		}
		return nil, t, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_members",
		Description: "List members, cursor paginated, optionally filtered by search text",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args listArgs) (*sdkmcp.CallToolResult, pagination.Page[member.Member], error) {
		opts := member.ListOptions{
			Cursor:         args.Cursor,
			Direction:      args.direction(),
			Limit:          args.Limit,
			Search:         args.Search,
			Sort:           member.SortCreatedAt,
			IncludeDeleted: args.IncludeDeleted,
		}
		if args.Sort == string(member.SortName) {
			opts.Sort = member.SortName
		}
		page, err := services.Members.List(ctx, opts)
		return nil, page, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_member",
		Description: "Get one member by id, soft-deleted or not",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args getArgs) (*sdkmcp.CallToolResult, *member.Member, error) {
		m, err := services.Members.Get(ctx, args.ID)
		if errors.Is(err, member.ErrNotFound) {
			return nil, nil, fmt.Errorf("member %d not found", args.ID)
		}
		return nil, m, err
	})
}
