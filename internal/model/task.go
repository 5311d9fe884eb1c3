package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Field limits enforced by the lifecycle engine.
const (
	TitleMaxLen       = 100
	DescriptionMaxLen = 500
	TagMaxLen         = 20
)

// Task represents a single tracked item.
type Task struct {
	ID          string `gorm:"primaryKey"`
	UserID      uint   `gorm:"index"`
	Title       string
	Description string
	Completed   bool       `gorm:"default:false"`
	Priority    Priority   `gorm:"default:0"`
	Tags        []string   `gorm:"serializer:json"`
	DueDate     *time.Time `gorm:"index"`
	Recurrence  Recurrence `gorm:"default:none"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`
}

// BeforeCreate assigns an opaque identifier. IDs are never reused or
// reassigned for the lifetime of a task.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsDateOnly reports whether the due date carries no time of day.
// A due date at exactly midnight is treated as a bare date and is
// excluded from time-based reminder classification.
func (t *Task) IsDateOnly() bool {
	if t.DueDate == nil {
		return false
	}
	d := *t.DueDate
	return d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 && d.Nanosecond() == 0
}

// IsRecurring reports whether completing the task should spawn a
// successor. A recurrence without a due date is treated as non-recurring.
func (t *Task) IsRecurring() bool {
	return t.Recurrence != RecurrenceNone && t.DueDate != nil
}
