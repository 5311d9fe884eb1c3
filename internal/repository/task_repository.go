package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tasktracker/internal/model"
	"tasktracker/internal/service"
)

// TaskRepository is the persistent task store backed by gorm.
// It implements service.TaskRepository.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID uint, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND id = ?", task.UserID, task.ID).
		Select("title", "description", "completed", "priority", "tags", "due_date", "recurrence", "updated_at").
		Updates(task)
	if res.Error != nil {
		return fmt.Errorf("save task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return service.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID uint, id string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return service.ErrTaskNotFound
	}
	return nil
}

// CompleteAndSpawn marks the task completed and creates its successor in
// one transaction. The completed=false guard makes the write a no-op if
// another caller completed the task first, so at most one successor ever
// exists per completion.
func (r *TaskRepository) CompleteAndSpawn(ctx context.Context, completed *model.Task, successor *model.Task) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Task{}).
			Where("user_id = ? AND id = ? AND completed = ?", completed.UserID, completed.ID, false).
			Updates(map[string]any{
				"completed":  true,
				"updated_at": completed.UpdatedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("mark completed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		if successor != nil {
			if err := tx.Create(successor).Error; err != nil {
				return fmt.Errorf("create successor: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}
