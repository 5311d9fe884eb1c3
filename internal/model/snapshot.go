package model

// ReminderSnapshot is a derived view over the active task set as of a
// given instant. It is computed fresh on every request and never stored.
type ReminderSnapshot struct {
	OverdueTasks []Task
	DueSoonTasks []Task
}

func (s ReminderSnapshot) OverdueCount() int { return len(s.OverdueTasks) }

func (s ReminderSnapshot) DueSoonCount() int { return len(s.DueSoonTasks) }

// Empty reports whether nothing needs attention.
func (s ReminderSnapshot) Empty() bool {
	return len(s.OverdueTasks) == 0 && len(s.DueSoonTasks) == 0
}
