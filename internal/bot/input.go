package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tasktracker/internal/model"
	"tasktracker/internal/service"
)

// parseTaskLine reads the /new argument line. The first pipe-separated
// segment is the title; the rest are key=value fields. Unknown enum
// tokens and bad dates fail here, at the boundary, rather than falling
// back to defaults.
func parseTaskLine(args string) (service.TaskInput, error) {
	segments := strings.Split(args, "|")
	input := service.TaskInput{Title: strings.TrimSpace(segments[0]), Recurrence: model.RecurrenceNone}

	for _, segment := range segments[1:] {
		key, value, err := splitField(segment)
		if err != nil {
			return input, err
		}
		switch key {
		case "desc", "description":
			input.Description = value
		case "due":
			due, err := model.ParseDueDate(value, time.Local)
			if err != nil {
				return input, err
			}
			input.DueDate = due
		case "every", "recurrence":
			rule, err := model.ParseRecurrence(value)
			if err != nil {
				return input, err
			}
			input.Recurrence = rule
		case "prio", "priority":
			priority, err := model.ParsePriority(value)
			if err != nil {
				return input, err
			}
			input.Priority = priority
		case "tags":
			input.Tags = strings.Split(value, ",")
		default:
			return input, fmt.Errorf("unknown field %q", key)
		}
	}
	return input, nil
}

// parseTaskUpdate reads the /edit field list into a partial update.
func parseTaskUpdate(args string) (service.TaskUpdate, error) {
	var upd service.TaskUpdate
	for _, segment := range strings.Split(args, "|") {
		key, value, err := splitField(segment)
		if err != nil {
			return upd, err
		}
		switch key {
		case "title":
			title := value
			upd.Title = &title
		case "desc", "description":
			description := value
			upd.Description = &description
		case "due":
			due, err := model.ParseDueDate(value, time.Local)
			if err != nil {
				return upd, err
			}
			upd.DueDate = due
		case "every", "recurrence":
			rule, err := model.ParseRecurrence(value)
			if err != nil {
				return upd, err
			}
			upd.Recurrence = &rule
		case "prio", "priority":
			priority, err := model.ParsePriority(value)
			if err != nil {
				return upd, err
			}
			upd.Priority = &priority
		case "tags":
			upd.Tags = strings.Split(value, ",")
		default:
			return upd, fmt.Errorf("unknown field %q", key)
		}
	}
	return upd, nil
}

func splitField(segment string) (string, string, error) {
	key, value, found := strings.Cut(strings.TrimSpace(segment), "=")
	if !found {
		return "", "", fmt.Errorf("expected field=value, got %q", strings.TrimSpace(segment))
	}
	return strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value), nil
}

func formatTaskLine(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := iconOpen
	switch {
	case task.Completed:
		icon = iconDone
	case task.DueDate != nil && !task.IsDateOnly() && task.DueDate.Before(now):
		icon = iconOverdue
	case task.DueDate != nil && !task.IsDateOnly() && task.DueDate.Sub(now) <= service.DefaultDueSoonWindow:
		icon = iconDueSoon
	}
	sb.WriteString(fmt.Sprintf("%s %s", icon, escape(task.Title)))

	if task.Priority != model.PriorityNone {
		sb.WriteString(fmt.Sprintf(" [%s]", task.Priority))
	}
	if task.Recurrence != model.RecurrenceNone {
		sb.WriteString(fmt.Sprintf(" %s%s", iconRecurring, task.Recurrence))
	}
	if len(task.Tags) > 0 {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", escape(strings.Join(task.Tags, ", "))))
	}
	if task.DueDate != nil {
		sb.WriteString(fmt.Sprintf(" — due %s", model.FormatDueDate(*task.DueDate)))
	}
	sb.WriteByte('\n')
	return sb.String()
}

// taskListKeyboard builds one row per open task with complete/delete
// buttons. Callback data carries the task id.
func taskListKeyboard(tasks []model.Task) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, task := range tasks {
		if task.Completed {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ %d", i+1), cbCompletePrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 %d", i+1), cbDeletePrefix+task.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
