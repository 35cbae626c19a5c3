package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"task-board-api/internal/client"
	"task-board-api/internal/domain"
)

// MockBoardRepository is a mock implementation of BoardRepository
type MockBoardRepository struct {
	CreateFunc          func(ctx context.Context, board *domain.Board) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindByChannelIDFunc func(ctx context.Context, channelID uuid.UUID) (*domain.Board, error)
}

func (m *MockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, board)
	}
	return nil
}

func (m *MockBoardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBoardRepository) FindByChannelID(ctx context.Context, channelID uuid.UUID) (*domain.Board, error) {
	if m.FindByChannelIDFunc != nil {
		return m.FindByChannelIDFunc(ctx, channelID)
	}
	return nil, nil
}

// MockColumnRepository is a mock implementation of ColumnRepository
type MockColumnRepository struct {
	CreateFunc        func(ctx context.Context, column *domain.Column) error
	FindByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Column, error)
	FindByBoardIDFunc func(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error)
	DeleteCascadeFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *MockColumnRepository) Create(ctx context.Context, column *domain.Column) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, column)
	}
	return nil
}

func (m *MockColumnRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockColumnRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockColumnRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	if m.DeleteCascadeFunc != nil {
		return m.DeleteCascadeFunc(ctx, id)
	}
	return nil
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	CreateWithAssignmentsFunc func(ctx context.Context, task *domain.Task, assigneeIDs []uuid.UUID) error
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByColumnIDFunc        func(ctx context.Context, columnID uuid.UUID) ([]*domain.Task, error)
	CountByColumnIDFunc       func(ctx context.Context, columnID uuid.UUID) (int64, error)
	UpdateFunc                func(ctx context.Context, task *domain.Task) error
	UpdateWithAssignmentsFunc func(ctx context.Context, task *domain.Task, assigneeIDs []uuid.UUID) error
	SavePlacementsFunc        func(ctx context.Context, tasks []*domain.Task) error
	DeleteCascadeFunc         func(ctx context.Context, id uuid.UUID) error
	FindInDateRangeFunc       func(ctx context.Context, start, end time.Time) ([]*domain.Task, error)
	FindByAssignedUserIDFunc  func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
}

func (m *MockTaskRepository) CreateWithAssignments(ctx context.Context, task *domain.Task, assigneeIDs []uuid.UUID) error {
	if m.CreateWithAssignmentsFunc != nil {
		return m.CreateWithAssignmentsFunc(ctx, task, assigneeIDs)
	}
	return nil
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByColumnID(ctx context.Context, columnID uuid.UUID) ([]*domain.Task, error) {
	if m.FindByColumnIDFunc != nil {
		return m.FindByColumnIDFunc(ctx, columnID)
	}
	return nil, nil
}

func (m *MockTaskRepository) CountByColumnID(ctx context.Context, columnID uuid.UUID) (int64, error) {
	if m.CountByColumnIDFunc != nil {
		return m.CountByColumnIDFunc(ctx, columnID)
	}
	return 0, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) UpdateWithAssignments(ctx context.Context, task *domain.Task, assigneeIDs []uuid.UUID) error {
	if m.UpdateWithAssignmentsFunc != nil {
		return m.UpdateWithAssignmentsFunc(ctx, task, assigneeIDs)
	}
	return nil
}

func (m *MockTaskRepository) SavePlacements(ctx context.Context, tasks []*domain.Task) error {
	if m.SavePlacementsFunc != nil {
		return m.SavePlacementsFunc(ctx, tasks)
	}
	return nil
}

func (m *MockTaskRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	if m.DeleteCascadeFunc != nil {
		return m.DeleteCascadeFunc(ctx, id)
	}
	return nil
}

func (m *MockTaskRepository) FindInDateRange(ctx context.Context, start, end time.Time) ([]*domain.Task, error) {
	if m.FindInDateRangeFunc != nil {
		return m.FindInDateRangeFunc(ctx, start, end)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByAssignedUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	if m.FindByAssignedUserIDFunc != nil {
		return m.FindByAssignedUserIDFunc(ctx, userID)
	}
	return nil, nil
}

// dispatchedNotification records one Dispatch call
type dispatchedNotification struct {
	UserID uuid.UUID
	TaskID uuid.UUID
	Kind   client.NotificationKind
}

// RecordingDispatcher collects dispatched notifications for inspection.
// Safe for concurrent use because the task service dispatches from a
// background goroutine.
type RecordingDispatcher struct {
	mu    sync.Mutex
	calls []dispatchedNotification
}

func (d *RecordingDispatcher) Dispatch(ctx context.Context, userID, taskID uuid.UUID, kind client.NotificationKind) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dispatchedNotification{UserID: userID, TaskID: taskID, Kind: kind})
	return nil
}

func (d *RecordingDispatcher) Calls() []dispatchedNotification {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]dispatchedNotification, len(d.calls))
	copy(out, d.calls)
	return out
}
