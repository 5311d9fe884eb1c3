package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"tasktracker/internal/model"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"
)

func newReminderFixture(t *testing.T) (*service.Engine, *service.ReminderService) {
	t.Helper()
	repo := repository.NewMemoryTaskRepository()
	return service.NewEngine(repo), service.NewReminderService(repo, service.DefaultDueSoonWindow)
}

func mustCreate(t *testing.T, engine *service.Engine, input service.TaskInput) *model.Task {
	t.Helper()
	task, err := engine.CreateTask(context.Background(), testUser, input)
	if err != nil {
		t.Fatalf("CreateTask(%q): %v", input.Title, err)
	}
	return task
}

func TestCheckRemindersClassification(t *testing.T) {
	// A timed reference instant so no due date accidentally lands on
	// midnight and gets excluded.
	now := time.Date(2025, time.June, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		due         time.Duration // offset from now
		wantOverdue bool
		wantDueSoon bool
	}{
		{"one day late", -24 * time.Hour, true, false},
		{"one second late", -time.Second, true, false},
		{"due exactly now is due soon, not overdue", 0, false, true},
		{"thirty minutes ahead", 30 * time.Minute, false, true},
		{"exactly sixty minutes ahead", 60 * time.Minute, false, true},
		{"sixty minutes and a second ahead", 60*time.Minute + time.Second, false, false},
		{"tomorrow", 24 * time.Hour, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, reminders := newReminderFixture(t)
			mustCreate(t, engine, service.TaskInput{
				Title:   "Probe",
				DueDate: timePtr(now.Add(tt.due)),
			})

			snapshot, err := reminders.CheckReminders(context.Background(), testUser, now)
			if err != nil {
				t.Fatal(err)
			}
			if got := snapshot.OverdueCount() == 1; got != tt.wantOverdue {
				t.Errorf("overdue = %v, want %v", got, tt.wantOverdue)
			}
			if got := snapshot.DueSoonCount() == 1; got != tt.wantDueSoon {
				t.Errorf("due soon = %v, want %v", got, tt.wantDueSoon)
			}
		})
	}
}

func TestCheckRemindersExclusions(t *testing.T) {
	now := time.Date(2025, time.June, 10, 14, 30, 0, 0, time.UTC)

	t.Run("completed tasks are skipped", func(t *testing.T) {
		engine, reminders := newReminderFixture(t)
		task := mustCreate(t, engine, service.TaskInput{
			Title:   "Late but done",
			DueDate: timePtr(now.Add(-48 * time.Hour)),
		})
		if _, _, err := engine.CompleteTask(context.Background(), testUser, task.ID); err != nil {
			t.Fatal(err)
		}

		snapshot, err := reminders.CheckReminders(context.Background(), testUser, now)
		if err != nil {
			t.Fatal(err)
		}
		if !snapshot.Empty() {
			t.Errorf("completed task must not appear in any bucket: %+v", snapshot)
		}
	})

	t.Run("tasks without due dates are skipped", func(t *testing.T) {
		engine, reminders := newReminderFixture(t)
		mustCreate(t, engine, service.TaskInput{Title: "Someday"})

		snapshot, err := reminders.CheckReminders(context.Background(), testUser, now)
		if err != nil {
			t.Fatal(err)
		}
		if !snapshot.Empty() {
			t.Errorf("no-due-date task must not appear: %+v", snapshot)
		}
	})

	t.Run("date-only due dates are skipped regardless of age", func(t *testing.T) {
		engine, reminders := newReminderFixture(t)
		longPast := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
		mustCreate(t, engine, service.TaskInput{
			Title:   "Bare date",
			DueDate: &longPast,
		})

		snapshot, err := reminders.CheckReminders(context.Background(), testUser, now)
		if err != nil {
			t.Fatal(err)
		}
		if !snapshot.Empty() {
			t.Errorf("date-only task must not appear: %+v", snapshot)
		}
	})
}

func TestCheckRemindersDoesNotMutate(t *testing.T) {
	now := time.Date(2025, time.June, 10, 14, 30, 0, 0, time.UTC)
	engine, reminders := newReminderFixture(t)
	task := mustCreate(t, engine, service.TaskInput{
		Title:   "Late",
		DueDate: timePtr(now.Add(-time.Hour)),
	})

	if _, err := reminders.CheckReminders(context.Background(), testUser, now); err != nil {
		t.Fatal(err)
	}

	stored, err := engine.GetTask(context.Background(), testUser, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Completed || stored.UpdatedAt != nil {
		t.Errorf("CheckReminders must not mutate tasks: %+v", stored)
	}
}

func TestCheckRemindersSortsByDueDate(t *testing.T) {
	now := time.Date(2025, time.June, 10, 14, 30, 0, 0, time.UTC)
	engine, reminders := newReminderFixture(t)
	mustCreate(t, engine, service.TaskInput{Title: "Later", DueDate: timePtr(now.Add(-time.Hour))})
	mustCreate(t, engine, service.TaskInput{Title: "Earliest", DueDate: timePtr(now.Add(-72 * time.Hour))})

	snapshot, err := reminders.CheckReminders(context.Background(), testUser, now)
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.OverdueCount() != 2 {
		t.Fatalf("expected 2 overdue, got %d", snapshot.OverdueCount())
	}
	if snapshot.OverdueTasks[0].Title != "Earliest" {
		t.Errorf("overdue must be sorted by due date, got %q first", snapshot.OverdueTasks[0].Title)
	}
}

func TestSummary(t *testing.T) {
	now := time.Date(2025, time.June, 10, 14, 30, 0, 0, time.UTC)
	engine, reminders := newReminderFixture(t)

	t.Run("empty when nothing due", func(t *testing.T) {
		summary, err := reminders.Summary(context.Background(), testUser, now)
		if err != nil {
			t.Fatal(err)
		}
		if summary != "" {
			t.Errorf("expected empty summary, got %q", summary)
		}
	})

	mustCreate(t, engine, service.TaskInput{
		Title:   "Pay <rent>",
		Tags:    []string{"home"},
		DueDate: timePtr(now.Add(-time.Hour)),
	})
	mustCreate(t, engine, service.TaskInput{
		Title:   "Call bank",
		DueDate: timePtr(now.Add(20 * time.Minute)),
	})

	t.Run("renders both buckets with escaping", func(t *testing.T) {
		summary, err := reminders.Summary(context.Background(), testUser, now)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(summary, "Overdue (1)") || !strings.Contains(summary, "Due soon (1)") {
			t.Errorf("summary missing buckets:\n%s", summary)
		}
		if !strings.Contains(summary, "Pay &lt;rent&gt;") {
			t.Errorf("summary must HTML-escape titles:\n%s", summary)
		}
		if !strings.Contains(summary, "due in 20 min") {
			t.Errorf("summary missing minutes until due:\n%s", summary)
		}
	})
}
