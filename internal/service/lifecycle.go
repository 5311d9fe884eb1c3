package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"tasktracker/internal/model"
	"tasktracker/internal/recurrence"
)

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// TaskInput carries the fields required to create a task.
type TaskInput struct {
	Title       string
	Description string
	Priority    model.Priority
	Tags        []string
	DueDate     *time.Time
	Recurrence  model.Recurrence
}

// TaskUpdate carries a partial update. Nil fields keep their prior
// values.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	Tags        []string
	DueDate     *time.Time
	Recurrence  *model.Recurrence
}

// Engine orchestrates the task lifecycle: validation, persistence,
// recurrence rescheduling on completion. It holds no state beyond its
// repository handle; callers inject a repository at construction.
type Engine struct {
	repo TaskRepository
}

func NewEngine(repo TaskRepository) *Engine {
	return &Engine{repo: repo}
}

// CreateTask validates input and persists a new task. A recurrence
// other than none requires a due date.
func (e *Engine) CreateTask(ctx context.Context, userID uint, input TaskInput) (*model.Task, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	description, err := validateDescription(input.Description)
	if err != nil {
		return nil, err
	}
	tags, err := model.NormalizeTags(input.Tags)
	if err != nil {
		return nil, validationf("%v", err)
	}
	if input.Recurrence != model.RecurrenceNone && input.DueDate == nil {
		return nil, validationf("a recurring task requires a due date")
	}

	task := model.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Priority:    input.Priority,
		Tags:        tags,
		DueDate:     input.DueDate,
		Recurrence:  input.Recurrence,
		CreatedAt:   timeNow(),
	}
	if task.Recurrence == "" {
		task.Recurrence = model.RecurrenceNone
	}

	if err := e.repo.Create(ctx, &task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

// UpdateTask applies a partial update. Omitted fields retain prior
// values; the recurrence/due-date invariant is re-checked against the
// merged result before anything is written.
func (e *Engine) UpdateTask(ctx context.Context, userID uint, id string, upd TaskUpdate) (*model.Task, error) {
	task, err := e.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title, err := validateTitle(*upd.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if upd.Description != nil {
		description, err := validateDescription(*upd.Description)
		if err != nil {
			return nil, err
		}
		task.Description = description
	}
	if upd.Priority != nil {
		task.Priority = *upd.Priority
	}
	if upd.Tags != nil {
		tags, err := model.NormalizeTags(upd.Tags)
		if err != nil {
			return nil, validationf("%v", err)
		}
		task.Tags = tags
	}
	if upd.DueDate != nil {
		task.DueDate = upd.DueDate
	}
	if upd.Recurrence != nil {
		task.Recurrence = *upd.Recurrence
	}
	if task.Recurrence != model.RecurrenceNone && task.DueDate == nil {
		return nil, validationf("a recurring task requires a due date")
	}

	now := timeNow()
	task.UpdatedAt = &now
	if err := e.repo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// CompleteTask marks the task done. For a recurring task with a due
// date it also creates the successor: a fresh task carrying the same
// descriptive fields with the due date advanced by the recurrence rule.
// Both writes land atomically through the repository; a task that is
// already completed is left untouched and no successor is created.
func (e *Engine) CompleteTask(ctx context.Context, userID uint, id string) (*model.Task, *model.Task, error) {
	task, err := e.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	if task.Completed {
		return task, nil, nil
	}

	now := timeNow()
	completed := *task
	completed.Completed = true
	completed.UpdatedAt = &now

	var successor *model.Task
	if task.IsRecurring() {
		nextDue, err := recurrence.NextOccurrence(*task.DueDate, task.Recurrence)
		if err != nil {
			return nil, nil, fmt.Errorf("advance due date: %w", err)
		}
		successor = &model.Task{
			UserID:      task.UserID,
			Title:       task.Title,
			Description: task.Description,
			Priority:    task.Priority,
			Tags:        slices.Clone(task.Tags),
			DueDate:     &nextDue,
			Recurrence:  task.Recurrence,
			CreatedAt:   now,
		}
	}

	applied, err := e.repo.CompleteAndSpawn(ctx, &completed, successor)
	if err != nil {
		return nil, nil, fmt.Errorf("complete task: %w", err)
	}
	if !applied {
		// Lost the race to a concurrent completion; report the stored
		// state without a successor of our own.
		stored, err := e.repo.FindByID(ctx, userID, id)
		if err != nil {
			return nil, nil, err
		}
		return stored, nil, nil
	}
	return &completed, successor, nil
}

// ToggleCompletion flips the completed flag. Unlike CompleteTask it
// never reschedules: toggling back to incomplete does not undo a
// spawned successor, and toggling to complete spawns none.
func (e *Engine) ToggleCompletion(ctx context.Context, userID uint, id string) (*model.Task, error) {
	task, err := e.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	task.Completed = !task.Completed
	now := timeNow()
	task.UpdatedAt = &now
	if err := e.repo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task permanently. Its id is never reused.
func (e *Engine) DeleteTask(ctx context.Context, userID uint, id string) error {
	return e.repo.Delete(ctx, userID, id)
}

// GetTask returns a single task by id.
func (e *Engine) GetTask(ctx context.Context, userID uint, id string) (*model.Task, error) {
	return e.repo.FindByID(ctx, userID, id)
}

// ListTasks returns the user's tasks in creation order.
func (e *Engine) ListTasks(ctx context.Context, userID uint) ([]model.Task, error) {
	return e.repo.ListByUser(ctx, userID)
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", validationf("title is required")
	}
	if utf8.RuneCountInString(title) > model.TitleMaxLen {
		return "", validationf("title cannot exceed %d characters", model.TitleMaxLen)
	}
	return title, nil
}

func validateDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	if utf8.RuneCountInString(description) > model.DescriptionMaxLen {
		return "", validationf("description cannot exceed %d characters", model.DescriptionMaxLen)
	}
	return description, nil
}
