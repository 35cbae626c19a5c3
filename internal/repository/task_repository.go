package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-board-api/internal/domain"
)

// TaskRepository defines the interface for task data access. Assignments are
// written only through task operations; a task and its assignment set always
// change in one transaction.
type TaskRepository interface {
	CreateWithAssignments(ctx context.Context, task *domain.Task, assigneeIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByColumnID(ctx context.Context, columnID uuid.UUID) ([]*domain.Task, error)
	CountByColumnID(ctx context.Context, columnID uuid.UUID) (int64, error)
	Update(ctx context.Context, task *domain.Task) error
	UpdateWithAssignments(ctx context.Context, task *domain.Task, assigneeIDs []uuid.UUID) error
	SavePlacements(ctx context.Context, tasks []*domain.Task) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	FindInDateRange(ctx context.Context, start, end time.Time) ([]*domain.Task, error)
	FindByAssignedUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
}

// taskRepositoryImpl is the GORM implementation of TaskRepository
type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

// CreateWithAssignments persists a task and one assignment row per assignee
// in a single transaction, so a mid-sequence failure can never leave a task
// without its assignment set. The unique index on (task_id, user_id) rejects
// duplicates and rolls the whole creation back.
func (r *taskRepositoryImpl) CreateWithAssignments(ctx context.Context, task *domain.Task, assigneeIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		for _, userID := range assigneeIDs {
			assignment := &domain.Assignment{TaskID: task.ID, UserID: userID}
			if err := tx.Create(assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a task by its ID with assignments preloaded
func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).
		Preload("Assignments").
		First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByColumnID finds all tasks of a column ordered by ascending position
func (r *taskRepositoryImpl) FindByColumnID(ctx context.Context, columnID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("column_id = ?", columnID).
		Order("position ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountByColumnID counts the tasks of a column
func (r *taskRepositoryImpl) CountByColumnID(ctx context.Context, columnID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("column_id = ?", columnID).
		Count(&count).Error
	return count, err
}

// Update saves all mutable task fields. Associations are omitted so a task
// loaded with preloaded assignments never re-creates rows the assignment
// repository has replaced.
func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error; err != nil {
		return err
	}
	return nil
}

// UpdateWithAssignments saves the mutable task fields and replaces the full
// assignment set in one transaction: all current rows are deleted, then one
// row per user id is inserted. There is no per-user diffing.
func (r *taskRepositoryImpl) UpdateWithAssignments(ctx context.Context, task *domain.Task, assigneeIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&domain.Assignment{}).Error; err != nil {
			return err
		}
		for _, userID := range assigneeIDs {
			assignment := &domain.Assignment{TaskID: task.ID, UserID: userID}
			if err := tx.Create(assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SavePlacements persists the {column_id, position} pair of every task in a
// single transaction. Used by move so the touched columns are renumbered
// atomically and a crash can never leave positions non-dense.
func (r *taskRepositoryImpl) SavePlacements(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, task := range tasks {
			if err := tx.Model(&domain.Task{}).
				Where("id = ?", task.ID).
				Updates(map[string]interface{}{
					"column_id": task.ColumnID,
					"position":  task.Position,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteCascade deletes a task together with its assignments in a single
// transaction. Surviving siblings keep their positions; only move renumbers.
func (r *taskRepositoryImpl) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&domain.Assignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Task{}, "id = ?", id).Error
	})
}

// FindInDateRange finds tasks whose due date falls within [start, end]
func (r *taskRepositoryImpl) FindInDateRange(ctx context.Context, start, end time.Time) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ?", start, end).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByAssignedUserID finds all tasks assigned to a user
func (r *taskRepositoryImpl) FindByAssignedUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Preload("Assignments").
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("task_assignments.user_id = ?", userID).
		Order("tasks.due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
