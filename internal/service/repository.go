package service

import (
	"context"

	"tasktracker/internal/model"
)

// TaskRepository is the storage collaborator consumed by the engine.
// Implementations must provide read-modify-write consistency for a
// single task: CompleteAndSpawn applies its guard and both writes as
// one unit, so concurrent completion attempts on the same task never
// produce two successors.
type TaskRepository interface {
	// Create persists a new task. The task's ID is assigned during
	// creation if empty.
	Create(ctx context.Context, task *model.Task) error

	// FindByID returns the task with the given id for the user, or
	// ErrTaskNotFound.
	FindByID(ctx context.Context, userID uint, id string) (*model.Task, error)

	// Save writes back a modified task, or returns ErrTaskNotFound if
	// it no longer exists.
	Save(ctx context.Context, task *model.Task) error

	// ListByUser returns the user's tasks ordered by creation time.
	ListByUser(ctx context.Context, userID uint) ([]model.Task, error)

	// Delete removes the task, or returns ErrTaskNotFound.
	Delete(ctx context.Context, userID uint, id string) error

	// CompleteAndSpawn marks completed done and creates successor (which
	// may be nil) in a single atomic unit. It applies only if the stored
	// task is not yet completed; the returned bool reports whether the
	// write took effect. A lost race leaves both tasks untouched.
	CompleteAndSpawn(ctx context.Context, completed *model.Task, successor *model.Task) (bool, error)
}
