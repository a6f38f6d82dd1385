package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/calnotes/pkg/app"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(mcp.NewTool(
		"month_notes",
		mcp.WithDescription("List every note of a month grouped by day, oldest first within a day."),
		mcp.WithString("month",
			mcp.Description("Month as YYYY-MM. Defaults to the current month."),
		),
	), monthNotesHandler(svc))

	srv.AddTool(mcp.NewTool(
		"day_notes",
		mcp.WithDescription("List the notes of a single day."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day as YYYY-MM-DD."),
		),
	), dayNotesHandler(svc))

	srv.AddTool(mcp.NewTool(
		"add_note",
		mcp.WithDescription("Add a note to a day. Surrounding whitespace is trimmed; empty notes are rejected."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day as YYYY-MM-DD."),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Note text."),
		),
	), addNoteHandler(svc))

	srv.AddTool(mcp.NewTool(
		"delete_note",
		mcp.WithDescription("Delete a note by id."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Note identifier as returned by month_notes or day_notes."),
		),
	), deleteNoteHandler(svc))

	srv.AddTool(mcp.NewTool(
		"month_info",
		mcp.WithDescription("Describe a month: number of days, Monday-first weekday offset of day 1 and the date range."),
		mcp.WithString("month",
			mcp.Description("Month as YYYY-MM. Defaults to the current month."),
		),
	), monthInfoHandler(svc))
}

func monthNotesHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := svc.MonthNotes(ctx, request.GetString("month", ""))
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(doc)
	}
}

func dayNotesHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := request.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		doc, err := svc.DayNotes(ctx, date)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(doc)
	}
}

func addNoteHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Date    string `json:"date"`
			Content string `json:"content"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		doc, err := svc.AddNote(ctx, args.Date, args.Content)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(doc)
	}
}

func deleteNoteHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.DeleteNote(ctx, id); err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText("deleted: " + id), nil
	}
}

func monthInfoHandler(svc *Service) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		info, err := svc.MonthInfo(request.GetString("month", ""))
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(info)
	}
}

// toolError reports err the way the UI would show it.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(app.UserMessage(err))
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
