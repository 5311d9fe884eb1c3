// Package chat exposes the task engine to AI chat clients as MCP tools.
// Each tool is a thin adapter: it parses and validates boundary input,
// calls the engine, and renders the result as text. Natural-language
// reasoning happens on the client side; these are the dispatch targets.
package chat

import (
	"github.com/mark3labs/mcp-go/server"

	"tasktracker/internal/service"
)

// Version is set at build time via ldflags.
var Version = "dev"

// localUserID scopes the chat session's tasks. The MCP surface is a
// single-user transport; multi-user isolation lives behind the bot.
const localUserID uint = 1

// NewServer creates the MCP server with every task tool registered.
func NewServer(engine *service.Engine, reminders *service.ReminderService) *server.MCPServer {
	s := server.NewMCPServer(
		"tasktracker",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(
			"Personal task tracker. Use add_task/list_tasks/update_task to manage tasks, "+
				"complete_task to finish one (recurring tasks reschedule automatically), "+
				"and check_reminders to see what is overdue or due within the next hour.",
		),
	)

	addTool := NewAddTaskTool(engine)
	s.AddTool(addTool.Definition(), addTool.Handle)

	listTool := NewListTasksTool(engine)
	s.AddTool(listTool.Definition(), listTool.Handle)

	updateTool := NewUpdateTaskTool(engine)
	s.AddTool(updateTool.Definition(), updateTool.Handle)

	completeTool := NewCompleteTaskTool(engine)
	s.AddTool(completeTool.Definition(), completeTool.Handle)

	toggleTool := NewToggleTaskTool(engine)
	s.AddTool(toggleTool.Definition(), toggleTool.Handle)

	deleteTool := NewDeleteTaskTool(engine)
	s.AddTool(deleteTool.Definition(), deleteTool.Handle)

	remindersTool := NewCheckRemindersTool(reminders)
	s.AddTool(remindersTool.Definition(), remindersTool.Handle)

	return s
}
