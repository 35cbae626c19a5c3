package dto

import (
	"time"

	"github.com/google/uuid"

	"task-board-api/internal/domain"
)

// CreateTaskRequest represents the request to create a task in a column.
// Status is always forced to TODO on creation; priority defaults to MEDIUM.
type CreateTaskRequest struct {
	Title           string              `json:"title" binding:"required" example:"Implement login page"`
	Description     string              `json:"description" binding:"max=2000"`
	DueDate         *time.Time          `json:"dueDate,omitempty" example:"2024-03-31T23:59:59Z"`
	Priority        domain.TaskPriority `json:"priority,omitempty" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssignedUserIDs []uuid.UUID         `json:"assignedUserIds,omitempty" binding:"omitempty,dive,uuid"`
}

// UpdateTaskRequest represents a partial task update. Nil fields are left
// untouched; there is no way to clear a field back to empty through this
// request. A non-nil AssignedUserIDs (even empty) replaces the full
// assignment set.
type UpdateTaskRequest struct {
	Title           *string              `json:"title" binding:"omitempty,min=1,max=255"`
	Description     *string              `json:"description" binding:"omitempty,max=2000"`
	DueDate         *time.Time           `json:"dueDate,omitempty"`
	Priority        *domain.TaskPriority `json:"priority,omitempty" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status          *domain.TaskStatus   `json:"status,omitempty" binding:"omitempty,oneof=TODO IN_PROGRESS DONE BLOCKED"`
	AssignedUserIDs []uuid.UUID          `json:"assignedUserIds,omitempty" binding:"omitempty,dive,uuid"`
}

// MoveTaskRequest represents the request to move a task to a target column
// at a new order. NewOrder is clamped to the valid range of the target.
type MoveTaskRequest struct {
	TargetColumnID uuid.UUID `json:"targetColumnId" binding:"required"`
	NewOrder       *int      `json:"newOrder" binding:"required"`
}

// AssignmentResponse represents a (task, user) assignment
type AssignmentResponse struct {
	ID         uuid.UUID `json:"assignmentId"`
	TaskID     uuid.UUID `json:"taskId"`
	UserID     uuid.UUID `json:"userId"`
	AssignedAt time.Time `json:"assignedAt"`
}

// TaskResponse represents a task with its assignments
type TaskResponse struct {
	ID              uuid.UUID            `json:"taskId"`
	ColumnID        uuid.UUID            `json:"columnId"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	DueDate         *time.Time           `json:"dueDate,omitempty"`
	Priority        domain.TaskPriority  `json:"priority"`
	Status          domain.TaskStatus    `json:"status"`
	CreatorID       uuid.UUID            `json:"creatorId"`
	Position        int                  `json:"position"`
	AssignedUserIDs []uuid.UUID          `json:"assignedUserIds"`
	Assignments     []AssignmentResponse `json:"assignments,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}
