package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskPriority represents the urgency of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// TaskStatus represents the workflow state of a task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
	StatusBlocked    TaskStatus = "BLOCKED"
)

// ValidPriority reports whether p is one of the known priorities
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the known statuses
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusBlocked:
		return true
	}
	return false
}

// Task is a unit of work owned by exactly one column at a time.
// Position is a zero-based dense index within the owning column; the
// {ColumnID, Position} pair is mutated only through TaskService operations.
type Task struct {
	BaseModel
	ColumnID    uuid.UUID    `gorm:"type:uuid;not null;index:idx_tasks_column_id" json:"column_id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	DueDate     *time.Time   `gorm:"type:timestamp;index:idx_tasks_due_date" json:"due_date,omitempty"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	CreatorID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_tasks_creator_id" json:"creator_id"`
	Position    int          `gorm:"not null" json:"position"`
	Assignments []Assignment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	Column      Column       `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE" json:"column,omitempty"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}
