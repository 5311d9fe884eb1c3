package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"tasktracker/internal/model"
	"tasktracker/internal/service"
)

// AddTaskTool handles the add_task MCP tool.
type AddTaskTool struct {
	engine *service.Engine
}

func NewAddTaskTool(engine *service.Engine) *AddTaskTool {
	return &AddTaskTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *AddTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("add_task",
		mcp.WithDescription(
			"Create a task. A recurring task (daily/weekly/monthly) requires a due date. "+
				"Due dates accept `2006-01-02` (date only, no reminders) or `2006-01-02 15:04`.",
		),
		mcp.WithString("title", mcp.Required(),
			mcp.Description("Task title, 1-100 characters."),
		),
		mcp.WithString("description",
			mcp.Description("Optional description, up to 500 characters."),
		),
		mcp.WithString("priority",
			mcp.Description("One of: none, low, medium, high."),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags, each up to 20 characters."),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date, `2006-01-02` or `2006-01-02 15:04`."),
		),
		mcp.WithString("recurrence",
			mcp.Description("One of: none, daily, weekly, monthly."),
		),
	)
}

// Handle processes the add_task tool call.
func (t *AddTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	input := service.TaskInput{
		Title:       title,
		Description: req.GetString("description", ""),
	}
	input.Priority, err = model.ParsePriority(req.GetString("priority", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	input.Recurrence, err = model.ParseRecurrence(req.GetString("recurrence", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	input.DueDate, err = model.ParseDueDate(req.GetString("due_date", ""), time.Local)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if tags := req.GetString("tags", ""); tags != "" {
		input.Tags = strings.Split(tags, ",")
	}

	task, err := t.engine.CreateTask(ctx, localUserID, input)
	if err != nil {
		return engineError(err)
	}
	return mcp.NewToolResultText("Created:\n" + renderTask(*task)), nil
}

// ListTasksTool handles the list_tasks MCP tool.
type ListTasksTool struct {
	engine *service.Engine
}

func NewListTasksTool(engine *service.Engine) *ListTasksTool {
	return &ListTasksTool{engine: engine}
}

func (t *ListTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription("List all tasks in creation order, with ids for the other tools."),
		mcp.WithBoolean("include_completed",
			mcp.Description("Include completed tasks. Defaults to true."),
		),
	)
}

func (t *ListTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := t.engine.ListTasks(ctx, localUserID)
	if err != nil {
		return engineError(err)
	}

	includeCompleted := req.GetBool("include_completed", true)
	var sb strings.Builder
	count := 0
	for _, task := range tasks {
		if task.Completed && !includeCompleted {
			continue
		}
		sb.WriteString(renderTask(task))
		sb.WriteByte('\n')
		count++
	}
	if count == 0 {
		return mcp.NewToolResultText("No tasks."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d task(s):\n%s", count, sb.String())), nil
}

// UpdateTaskTool handles the update_task MCP tool.
type UpdateTaskTool struct {
	engine *service.Engine
}

func NewUpdateTaskTool(engine *service.Engine) *UpdateTaskTool {
	return &UpdateTaskTool{engine: engine}
}

func (t *UpdateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task",
		mcp.WithDescription(
			"Update fields of an existing task. Omitted fields keep their values. "+
				"Setting a recurrence requires the task to have a due date.",
		),
		mcp.WithString("id", mcp.Required(),
			mcp.Description("Task id from list_tasks."),
		),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("description", mcp.Description("New description.")),
		mcp.WithString("priority", mcp.Description("One of: none, low, medium, high.")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags; replaces the existing set.")),
		mcp.WithString("due_date", mcp.Description("New due date.")),
		mcp.WithString("recurrence", mcp.Description("One of: none, daily, weekly, monthly.")),
	)
}

func (t *UpdateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var upd service.TaskUpdate
	if title := req.GetString("title", ""); title != "" {
		upd.Title = &title
	}
	if description := req.GetString("description", ""); description != "" {
		upd.Description = &description
	}
	if raw := req.GetString("priority", ""); raw != "" {
		priority, err := model.ParsePriority(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		upd.Priority = &priority
	}
	if raw := req.GetString("recurrence", ""); raw != "" {
		rule, err := model.ParseRecurrence(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		upd.Recurrence = &rule
	}
	if raw := req.GetString("due_date", ""); raw != "" {
		due, err := model.ParseDueDate(raw, time.Local)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		upd.DueDate = due
	}
	if tags := req.GetString("tags", ""); tags != "" {
		upd.Tags = strings.Split(tags, ",")
	}

	task, err := t.engine.UpdateTask(ctx, localUserID, id, upd)
	if err != nil {
		return engineError(err)
	}
	return mcp.NewToolResultText("Updated:\n" + renderTask(*task)), nil
}

// DeleteTaskTool handles the delete_task MCP tool.
type DeleteTaskTool struct {
	engine *service.Engine
}

func NewDeleteTaskTool(engine *service.Engine) *DeleteTaskTool {
	return &DeleteTaskTool{engine: engine}
}

func (t *DeleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task permanently."),
		mcp.WithString("id", mcp.Required(),
			mcp.Description("Task id from list_tasks."),
		),
	)
}

func (t *DeleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.engine.DeleteTask(ctx, localUserID, id); err != nil {
		return engineError(err)
	}
	return mcp.NewToolResultText("Deleted."), nil
}
