package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"tasktracker/internal/model"
)

// DefaultDueSoonWindow is how far ahead a timed due date counts as
// "due soon".
const DefaultDueSoonWindow = 60 * time.Minute

// ReminderService classifies outstanding tasks into reminder buckets
// and renders notification summaries.
type ReminderService struct {
	repo   TaskRepository
	window time.Duration
}

func NewReminderService(repo TaskRepository, window time.Duration) *ReminderService {
	if window <= 0 {
		window = DefaultDueSoonWindow
	}
	return &ReminderService{repo: repo, window: window}
}

// CheckReminders classifies the user's tasks relative to now.
//
// Completed tasks, tasks without a due date, and date-only due dates
// (midnight, no actionable instant) are skipped. Of the rest, a due
// date strictly before now is overdue; a due date from now up to and
// including now+window is due soon. A task due at exactly now is due
// soon, not overdue. No task is mutated.
func (s *ReminderService) CheckReminders(ctx context.Context, userID uint, now time.Time) (model.ReminderSnapshot, error) {
	tasks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return model.ReminderSnapshot{}, fmt.Errorf("list tasks: %w", err)
	}

	var snapshot model.ReminderSnapshot
	for _, task := range tasks {
		if task.Completed || task.DueDate == nil || task.IsDateOnly() {
			continue
		}
		due := *task.DueDate
		switch {
		case due.Before(now):
			snapshot.OverdueTasks = append(snapshot.OverdueTasks, task)
		case !due.After(now.Add(s.window)):
			snapshot.DueSoonTasks = append(snapshot.DueSoonTasks, task)
		}
	}

	sortByDue(snapshot.OverdueTasks)
	sortByDue(snapshot.DueSoonTasks)
	return snapshot, nil
}

// Summary renders a reminder snapshot as a Telegram HTML message.
// Returns an empty string when there is nothing to report.
func (s *ReminderService) Summary(ctx context.Context, userID uint, now time.Time) (string, error) {
	snapshot, err := s.CheckReminders(ctx, userID, now)
	if err != nil {
		return "", err
	}
	if snapshot.Empty() {
		return "", nil
	}

	var builder strings.Builder
	builder.WriteString("⏰ <b>Reminders</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("2006-01-02 15:04")))

	if snapshot.OverdueCount() > 0 {
		builder.WriteString(fmt.Sprintf("\n⚠️ <b>Overdue (%d)</b>\n", snapshot.OverdueCount()))
		for _, task := range snapshot.OverdueTasks {
			builder.WriteString(formatReminderLine(task, now))
		}
	}
	if snapshot.DueSoonCount() > 0 {
		builder.WriteString(fmt.Sprintf("\n⏳ <b>Due soon (%d)</b>\n", snapshot.DueSoonCount()))
		for _, task := range snapshot.DueSoonTasks {
			builder.WriteString(formatReminderLine(task, now))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatReminderLine(task model.Task, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("• %s", html.EscapeString(strings.TrimSpace(task.Title))))

	if len(task.Tags) > 0 {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(strings.Join(task.Tags, ", "))))
	}

	due := task.DueDate.In(now.Location())
	if due.Before(now) {
		sb.WriteString(fmt.Sprintf(" — was due %s", due.Format("2006-01-02 15:04")))
	} else {
		sb.WriteString(fmt.Sprintf(" — due in %d min", int(due.Sub(now).Minutes())))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func sortByDue(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(*tasks[j].DueDate)
	})
}
