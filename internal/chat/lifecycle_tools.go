package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"tasktracker/internal/model"
	"tasktracker/internal/service"
)

// CompleteTaskTool handles the complete_task MCP tool. Completing a
// recurring task spawns the next instance; the response reports both.
type CompleteTaskTool struct {
	engine *service.Engine
}

func NewCompleteTaskTool(engine *service.Engine) *CompleteTaskTool {
	return &CompleteTaskTool{engine: engine}
}

func (t *CompleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("complete_task",
		mcp.WithDescription(
			"Mark a task as completed. If the task recurs, a new task is created "+
				"with the due date advanced by the recurrence rule.",
		),
		mcp.WithString("id", mcp.Required(),
			mcp.Description("Task id from list_tasks."),
		),
	)
}

func (t *CompleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	completed, successor, err := t.engine.CompleteTask(ctx, localUserID, id)
	if err != nil {
		return engineError(err)
	}
	if successor == nil {
		return mcp.NewToolResultText("Completed:\n" + renderTask(*completed)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Completed:\n%sNext occurrence created:\n%s",
		renderTask(*completed), renderTask(*successor),
	)), nil
}

// ToggleTaskTool handles the toggle_task MCP tool.
type ToggleTaskTool struct {
	engine *service.Engine
}

func NewToggleTaskTool(engine *service.Engine) *ToggleTaskTool {
	return &ToggleTaskTool{engine: engine}
}

func (t *ToggleTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("toggle_task",
		mcp.WithDescription(
			"Flip a task between open and completed without touching recurrence. "+
				"Use complete_task when finishing a recurring task.",
		),
		mcp.WithString("id", mcp.Required(),
			mcp.Description("Task id from list_tasks."),
		),
	)
}

func (t *ToggleTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	task, err := t.engine.ToggleCompletion(ctx, localUserID, id)
	if err != nil {
		return engineError(err)
	}
	return mcp.NewToolResultText("Toggled:\n" + renderTask(*task)), nil
}

// CheckRemindersTool handles the check_reminders MCP tool.
type CheckRemindersTool struct {
	reminders *service.ReminderService
}

func NewCheckRemindersTool(reminders *service.ReminderService) *CheckRemindersTool {
	return &CheckRemindersTool{reminders: reminders}
}

func (t *CheckRemindersTool) Definition() mcp.Tool {
	return mcp.NewTool("check_reminders",
		mcp.WithDescription(
			"Classify open tasks into overdue and due-soon buckets relative to now. "+
				"Date-only due dates carry no actionable instant and are skipped.",
		),
	)
}

func (t *CheckRemindersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot, err := t.reminders.CheckReminders(ctx, localUserID, time.Now())
	if err != nil {
		return engineError(err)
	}
	if snapshot.Empty() {
		return mcp.NewToolResultText("Nothing overdue or due soon."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Overdue: %d, due soon: %d\n", snapshot.OverdueCount(), snapshot.DueSoonCount())
	for _, task := range snapshot.OverdueTasks {
		sb.WriteString("[overdue] " + renderTask(task))
	}
	for _, task := range snapshot.DueSoonTasks {
		sb.WriteString("[due soon] " + renderTask(task))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// renderTask produces a one-line text form for tool responses.
func renderTask(task model.Task) string {
	var sb strings.Builder
	state := "open"
	if task.Completed {
		state = "done"
	}
	fmt.Fprintf(&sb, "- [%s] %s (id: %s", state, task.Title, task.ID)
	if task.Priority != model.PriorityNone {
		fmt.Fprintf(&sb, ", priority: %s", task.Priority)
	}
	if task.DueDate != nil {
		fmt.Fprintf(&sb, ", due: %s", model.FormatDueDate(*task.DueDate))
	}
	if task.Recurrence != model.RecurrenceNone {
		fmt.Fprintf(&sb, ", repeats: %s", task.Recurrence)
	}
	if len(task.Tags) > 0 {
		fmt.Fprintf(&sb, ", tags: %s", strings.Join(task.Tags, ","))
	}
	sb.WriteString(")\n")
	return sb.String()
}

// engineError maps engine failures to tool results. Validation and
// not-found conditions are the model's fault to fix, so they come back
// as tool errors rather than protocol errors.
func engineError(err error) (*mcp.CallToolResult, error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return mcp.NewToolResultError(ve.Message), nil
	case errors.Is(err, service.ErrTaskNotFound):
		return mcp.NewToolResultError("task not found; call list_tasks for current ids"), nil
	default:
		return nil, err
	}
}
