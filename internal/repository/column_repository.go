package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
)

// ColumnRepository defines the interface for column data access
type ColumnRepository interface {
	Create(ctx context.Context, column *domain.Column) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Column, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

// columnRepositoryImpl is the GORM implementation of ColumnRepository
type columnRepositoryImpl struct {
	db *gorm.DB
}

// NewColumnRepository creates a new instance of ColumnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &columnRepositoryImpl{db: db}
}

// Create creates a new column
func (r *columnRepositoryImpl) Create(ctx context.Context, column *domain.Column) error {
	if err := r.db.WithContext(ctx).Create(column).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a column by its ID
func (r *columnRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	var column domain.Column
	if err := r.db.WithContext(ctx).First(&column, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// FindByBoardID finds all columns of a board ordered by ascending position
func (r *columnRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error) {
	var columns []*domain.Column
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position ASC").
		Find(&columns).Error; err != nil {
		return nil, err
	}
	return columns, nil
}

// DeleteCascade deletes a column together with its tasks and their
// assignments in a single transaction. Surviving sibling columns keep their
// positions; only move renumbers.
func (r *columnRepositoryImpl) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("task_id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
				Model(&domain.Task{}).Select("id").Where("column_id = ?", id)).
			Delete(&domain.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("column_id = ?", id).Delete(&domain.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Column{}, "id = ?", id).Error
	})
}
