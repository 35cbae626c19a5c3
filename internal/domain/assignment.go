package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assignment records that a user is responsible for a task.
// The (TaskID, UserID) pair is unique; duplicates are rejected at the store.
type Assignment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID     uuid.UUID `gorm:"type:uuid;not null;index:idx_assignments_task_id;uniqueIndex:uq_assignments_task_user" json:"task_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_assignments_user_id;uniqueIndex:uq_assignments_task_user" json:"user_id"`
	AssignedAt time.Time `gorm:"type:timestamp;not null" json:"assigned_at"`
	Task       Task      `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"task,omitempty"`
}

// BeforeCreate generates the id and stamps the assignment time client-side
func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now().UTC()
	}
	return nil
}

// TableName specifies the table name for Assignment
func (Assignment) TableName() string {
	return "task_assignments"
}
