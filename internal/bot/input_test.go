package bot

import (
	"strings"
	"testing"
	"time"

	"tasktracker/internal/model"
)

func TestParseTaskLine(t *testing.T) {
	input, err := parseTaskLine("Pay rent | desc=transfer before noon | due=2025-11-30 09:00 | every=monthly | prio=high | tags=Home,bills")
	if err != nil {
		t.Fatal(err)
	}
	if input.Title != "Pay rent" {
		t.Errorf("Title = %q", input.Title)
	}
	if input.Description != "transfer before noon" {
		t.Errorf("Description = %q", input.Description)
	}
	if input.Priority != model.PriorityHigh {
		t.Errorf("Priority = %v", input.Priority)
	}
	if input.Recurrence != model.RecurrenceMonthly {
		t.Errorf("Recurrence = %v", input.Recurrence)
	}
	if input.DueDate == nil {
		t.Fatal("DueDate missing")
	}
	want := time.Date(2025, time.November, 30, 9, 0, 0, 0, time.Local)
	if !input.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", input.DueDate, want)
	}
	if len(input.Tags) != 2 {
		t.Errorf("Tags = %v", input.Tags)
	}
}

func TestParseTaskLineTitleOnly(t *testing.T) {
	input, err := parseTaskLine("Just a title")
	if err != nil {
		t.Fatal(err)
	}
	if input.Title != "Just a title" {
		t.Errorf("Title = %q", input.Title)
	}
	if input.Recurrence != model.RecurrenceNone {
		t.Errorf("Recurrence = %v", input.Recurrence)
	}
}

func TestParseTaskLineErrors(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"bad field syntax", "Title | duedate"},
		{"unknown field", "Title | color=red"},
		{"bad date", "Title | due=first of may"},
		{"unknown recurrence", "Title | every=hourly"},
		{"unknown priority", "Title | prio=critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseTaskLine(tt.args); err == nil {
				t.Errorf("parseTaskLine(%q) should fail", tt.args)
			}
		})
	}
}

func TestParseTaskUpdate(t *testing.T) {
	upd, err := parseTaskUpdate("title=New name | prio=low")
	if err != nil {
		t.Fatal(err)
	}
	if upd.Title == nil || *upd.Title != "New name" {
		t.Errorf("Title = %v", upd.Title)
	}
	if upd.Priority == nil || *upd.Priority != model.PriorityLow {
		t.Errorf("Priority = %v", upd.Priority)
	}
	if upd.Description != nil || upd.DueDate != nil || upd.Recurrence != nil || upd.Tags != nil {
		t.Errorf("omitted fields must stay nil: %+v", upd)
	}
}

func TestFormatTaskLine(t *testing.T) {
	now := time.Date(2025, time.June, 10, 14, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)
	task := model.Task{
		Title:      "Pay <rent>",
		Priority:   model.PriorityHigh,
		Recurrence: model.RecurrenceMonthly,
		Tags:       []string{"home"},
		DueDate:    &due,
	}

	line := formatTaskLine(task, now)
	if !strings.Contains(line, iconOverdue) {
		t.Errorf("overdue task should carry %s: %q", iconOverdue, line)
	}
	if !strings.Contains(line, "Pay &lt;rent&gt;") {
		t.Errorf("title must be escaped: %q", line)
	}
	if !strings.Contains(line, "[high]") || !strings.Contains(line, "monthly") {
		t.Errorf("line missing priority or recurrence: %q", line)
	}

	task.Completed = true
	line = formatTaskLine(task, now)
	if !strings.Contains(line, iconDone) {
		t.Errorf("completed task should carry %s: %q", iconDone, line)
	}
}

func TestFormatTaskLineDateOnlyNeverDueSoon(t *testing.T) {
	now := time.Date(2025, time.June, 10, 14, 0, 0, 0, time.UTC)
	// A date-only due in the past: rendered plainly, no overdue marker.
	due := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	task := model.Task{Title: "Bare date", DueDate: &due}

	line := formatTaskLine(task, now)
	if strings.Contains(line, iconOverdue) || strings.Contains(line, iconDueSoon) {
		t.Errorf("date-only task must not carry urgency icons: %q", line)
	}
	if !strings.Contains(line, "2025-06-01") {
		t.Errorf("due date missing: %q", line)
	}
}
