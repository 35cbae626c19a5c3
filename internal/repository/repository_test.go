package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-board-api/internal/domain"
)

// setupTestDB creates an in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&domain.Board{},
		&domain.Column{},
		&domain.Task{},
		&domain.Assignment{},
	)
	require.NoError(t, err, "failed to migrate test schema")

	return db
}

func seedBoard(t *testing.T, db *gorm.DB) *domain.Board {
	t.Helper()
	board := &domain.Board{ChannelID: uuid.New()}
	require.NoError(t, db.Create(board).Error)
	return board
}

func seedColumn(t *testing.T, db *gorm.DB, boardID uuid.UUID, position int) *domain.Column {
	t.Helper()
	column := &domain.Column{BoardID: boardID, Title: "column", Position: position}
	require.NoError(t, db.Create(column).Error)
	return column
}

func seedTask(t *testing.T, db *gorm.DB, columnID uuid.UUID, position int) *domain.Task {
	t.Helper()
	task := &domain.Task{
		ColumnID:  columnID,
		Title:     "task",
		Priority:  domain.PriorityMedium,
		Status:    domain.StatusTodo,
		CreatorID: uuid.New(),
		Position:  position,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func seedAssignment(t *testing.T, db *gorm.DB, taskID, userID uuid.UUID) *domain.Assignment {
	t.Helper()
	assignment := &domain.Assignment{TaskID: taskID, UserID: userID}
	require.NoError(t, db.Create(assignment).Error)
	return assignment
}

func dueIn(d time.Duration) *time.Time {
	due := time.Now().UTC().Add(d)
	return &due
}

func testContext() context.Context {
	return context.Background()
}
