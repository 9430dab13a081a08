package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerRecordMoodTool(srv, svc)
	registerGetEntryTool(srv, svc)
	registerListEntriesTool(srv, svc)
	registerGetScheduleTool(srv, svc)
	registerSetOverrideTool(srv, svc)
	registerRemoveOverrideTool(srv, svc)
	registerCheckReminderTool(srv, svc)
}

func registerRecordMoodTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"record_mood",
		mcp.WithDescription("Record the start-of-work or end-of-work mood for a day."),
		mcp.WithString("slot",
			mcp.Required(),
			mcp.Description("Which check-in to record."),
			mcp.Enum("morning", "evening"),
		),
		mcp.WithNumber("value",
			mcp.Required(),
			mcp.Description("Mood rating from 1 to 10."),
			mcp.Min(1),
			mcp.Max(10),
		),
		mcp.WithString("date",
			mcp.Description("Day to record, YYYY-MM-DD or today/yesterday. Defaults to today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Slot  string  `json:"slot"`
			Value float64 `json:"value"`
			Date  string  `json:"date"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Value != float64(int(args.Value)) {
			return mcp.NewToolResultError("value must be a whole number"), nil
		}

		dto, err := svc.Record(ctx, args.Date, args.Slot, int(args.Value))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGetEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_entry",
		mcp.WithDescription("Fetch the mood entry for a single day."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day to fetch, YYYY-MM-DD or today/yesterday."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := request.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.Entry(ctx, date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_entries",
		mcp.WithDescription("List mood entries recorded within a trailing window."),
		mcp.WithString("last",
			mcp.Description("Window such as 7d, 2w or 1m. Defaults to one week."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		last := strings.TrimSpace(request.GetString("last", ""))
		results, err := svc.Entries(ctx, last)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"last":    last,
			"entries": results,
			"count":   len(results),
		})
	})
}

func registerGetScheduleTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_schedule",
		mcp.WithDescription("Resolve the morning and evening check-in times for a day."),
		mcp.WithString("date",
			mcp.Description("Day to resolve. Defaults to today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Schedule(ctx, request.GetString("date", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSetOverrideTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_override",
		mcp.WithDescription("Replace the check-in times for one day. Omitted times fall back to the defaults."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day to override."),
		),
		mcp.WithString("morningTime",
			mcp.Description("Morning check-in as HH:MM."),
		),
		mcp.WithString("eveningTime",
			mcp.Description("Evening check-in as HH:MM."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := request.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.SetOverride(ctx, date,
			request.GetString("morningTime", ""),
			request.GetString("eveningTime", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRemoveOverrideTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"remove_override",
		mcp.WithDescription("Drop the override for one day."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day whose override should be removed."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := request.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.RemoveOverride(ctx, date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerCheckReminderTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"check_reminder",
		mcp.WithDescription("Report which check-in reminder, if any, is due right now."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Reminder(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
