package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/model"
	"tasktracker/internal/service"
)

// MemoryTaskRepository is an in-process task store with the same
// contract as the gorm-backed repository. It backs the ephemeral
// (no-database) mode and gives tests a fresh repository per case.
type MemoryTaskRepository struct {
	mu    sync.Mutex
	tasks map[string]model.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: make(map[string]model.Task)}
}

func (r *MemoryTaskRepository) Create(ctx context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(task)
}

func (r *MemoryTaskRepository) createLocked(task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *MemoryTaskRepository) FindByID(ctx context.Context, userID uint, id string) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return nil, service.ErrTaskNotFound
	}
	return &task, nil
}

func (r *MemoryTaskRepository) Save(ctx context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return service.ErrTaskNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *MemoryTaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tasks []model.Task
	for _, task := range r.tasks {
		if task.UserID == userID {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *MemoryTaskRepository) Delete(ctx context.Context, userID uint, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return service.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepository) CompleteAndSpawn(ctx context.Context, completed *model.Task, successor *model.Task) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks[completed.ID]
	if !ok || stored.UserID != completed.UserID {
		return false, service.ErrTaskNotFound
	}
	if stored.Completed {
		return false, nil
	}
	r.tasks[completed.ID] = *completed
	if successor != nil {
		if err := r.createLocked(successor); err != nil {
			// Restore the previous state so the pair stays atomic.
			r.tasks[completed.ID] = stored
			return false, err
		}
	}
	return true, nil
}
