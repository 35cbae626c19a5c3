package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-board-api/internal/client"
	"task-board-api/internal/domain"
	"task-board-api/internal/dto"
	"task-board-api/internal/metrics"
	"task-board-api/internal/ordering"
	"task-board-api/internal/repository"
	"task-board-api/internal/response"
)

// dispatchTimeout bounds the background notification fan-out after the
// triggering operation has already committed.
const dispatchTimeout = 10 * time.Second

// moveLockAttempts bounds how often a move re-locks after the task was
// relocated by a concurrent move between the read and the lock.
const moveLockAttempts = 3

// TaskService defines the interface for task business logic
type TaskService interface {
	CreateTask(ctx context.Context, columnID, creatorID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetColumnTasks(ctx context.Context, columnID uuid.UUID) ([]*dto.TaskResponse, error)
	GetTask(ctx context.Context, taskID uuid.UUID) (*dto.TaskResponse, error)
	UpdateTask(ctx context.Context, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	MoveTask(ctx context.Context, taskID uuid.UUID, req *dto.MoveTaskRequest) (*dto.TaskResponse, error)
	DeleteTask(ctx context.Context, taskID uuid.UUID) error
	GetTasksByDateRange(ctx context.Context, start, end time.Time) ([]*dto.TaskResponse, error)
	GetTasksByAssignee(ctx context.Context, userID uuid.UUID) ([]*dto.TaskResponse, error)
}

// taskServiceImpl is the implementation of TaskService
type taskServiceImpl struct {
	taskRepo    repository.TaskRepository
	columnRepo  repository.ColumnRepository
	dispatcher  client.NotificationDispatcher
	columnLocks *keyedLocks
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	columnRepo repository.ColumnRepository,
	dispatcher client.NotificationDispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) TaskService {
	return &taskServiceImpl{
		taskRepo:    taskRepo,
		columnRepo:  columnRepo,
		dispatcher:  dispatcher,
		columnLocks: newKeyedLocks(),
		metrics:     m,
		logger:      logger,
	}
}

// CreateTask appends a new task to a column. Status always starts at TODO
// and priority defaults to MEDIUM. One TASK_ASSIGNED notification is
// dispatched per unique assignee after the task is persisted; dispatch
// failures never fail the creation.
func (s *taskServiceImpl) CreateTask(ctx context.Context, columnID, creatorID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Task title must not be blank", "")
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invalid task priority", string(priority))
	}

	if _, err := s.columnRepo.FindByID(ctx, columnID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Column not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find column", err.Error())
	}

	assigneeIDs := uniqueUserIDs(req.AssignedUserIDs)

	s.columnLocks.Lock(columnID)
	defer s.columnLocks.Unlock(columnID)

	count, err := s.taskRepo.CountByColumnID(ctx, columnID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count column tasks", err.Error())
	}

	task := &domain.Task{
		ColumnID:    columnID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    priority,
		Status:      domain.StatusTodo,
		CreatorID:   creatorID,
		Position:    int(count),
	}
	if err := s.taskRepo.CreateWithAssignments(ctx, task, assigneeIDs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create task", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementTaskCreated()
	}
	s.logger.Info("Task created",
		zap.String("task_id", task.ID.String()),
		zap.String("column_id", columnID.String()),
		zap.Int("position", task.Position),
		zap.Int("assignees", len(assigneeIDs)),
	)

	// Notifications go out after the task and its assignments are
	// committed, off the request path.
	s.dispatchAsync(task.ID, assigneeIDs, client.NotificationTaskAssigned)

	created, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload task", err.Error())
	}
	return toTaskResponse(created), nil
}

// GetColumnTasks returns the tasks of a column in ascending position
func (s *taskServiceImpl) GetColumnTasks(ctx context.Context, columnID uuid.UUID) ([]*dto.TaskResponse, error) {
	if _, err := s.columnRepo.FindByID(ctx, columnID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Column not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find column", err.Error())
	}

	tasks, err := s.taskRepo.FindByColumnID(ctx, columnID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load column tasks", err.Error())
	}
	return toTaskResponses(tasks), nil
}

// GetTask retrieves a task by ID with its assignments
func (s *taskServiceImpl) GetTask(ctx context.Context, taskID uuid.UUID) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find task", err.Error())
	}
	return toTaskResponse(task), nil
}

// UpdateTask applies a partial update. Nil request fields leave the task
// untouched. A non-nil assignee list replaces the full assignment set and
// sends no notifications.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find task", err.Error())
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, response.NewAppError(response.ErrCodeValidation, "Task title must not be blank", "")
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Priority != nil {
		if !domain.ValidPriority(*req.Priority) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid task priority", string(*req.Priority))
		}
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid task status", string(*req.Status))
		}
		task.Status = *req.Status
	}

	if req.AssignedUserIDs != nil {
		if err := s.taskRepo.UpdateWithAssignments(ctx, task, uniqueUserIDs(req.AssignedUserIDs)); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update task", err.Error())
		}
	} else {
		if err := s.taskRepo.Update(ctx, task); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update task", err.Error())
		}
	}

	updated, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload task", err.Error())
	}
	return toTaskResponse(updated), nil
}

// MoveTask moves a task to a target column at a requested order. The task is
// removed from its source column, the source is renumbered, and the task is
// inserted into the target at the clamped order, renumbering the target. Both
// touched columns are written in one transaction.
func (s *taskServiceImpl) MoveTask(ctx context.Context, taskID uuid.UUID, req *dto.MoveTaskRequest) (*dto.TaskResponse, error) {
	if req.NewOrder == nil {
		return nil, response.NewAppError(response.ErrCodeValidation, "newOrder is required", "")
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find task", err.Error())
	}

	if _, err := s.columnRepo.FindByID(ctx, req.TargetColumnID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Target column not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find target column", err.Error())
	}

	targetColumnID := req.TargetColumnID

	// The source column was read before any lock was held, so a concurrent
	// move may relocate the task in the meantime. Lock the pair, re-read the
	// task, and retry with the fresh pair until the locked source matches.
	var sourceColumnID uuid.UUID
	locked := false
	for attempt := 0; attempt < moveLockAttempts; attempt++ {
		sourceColumnID = task.ColumnID
		s.columnLocks.LockPair(sourceColumnID, targetColumnID)

		task, err = s.taskRepo.FindByID(ctx, taskID)
		if err != nil {
			s.columnLocks.UnlockPair(sourceColumnID, targetColumnID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find task", err.Error())
		}
		if task.ColumnID == sourceColumnID {
			locked = true
			break
		}
		s.columnLocks.UnlockPair(sourceColumnID, targetColumnID)
	}
	if !locked {
		return nil, response.NewAppError(response.ErrCodeConflict, "Task is being moved concurrently", taskID.String())
	}
	defer s.columnLocks.UnlockPair(sourceColumnID, targetColumnID)

	sourceTasks, err := s.taskRepo.FindByColumnID(ctx, sourceColumnID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load source column tasks", err.Error())
	}

	task.ColumnID = targetColumnID

	var placements []*domain.Task
	if sourceColumnID == targetColumnID {
		seq := ordering.RemoveAndCompact(sourceTasks, taskID)
		seq = ordering.InsertAt(seq, task, *req.NewOrder)
		if err := ordering.Dense(seq); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Column positions lost density after move", err.Error())
		}
		placements = seq
	} else {
		targetTasks, err := s.taskRepo.FindByColumnID(ctx, targetColumnID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load target column tasks", err.Error())
		}

		sourceSeq := ordering.RemoveAndCompact(sourceTasks, taskID)
		targetSeq := ordering.InsertAt(targetTasks, task, *req.NewOrder)
		if err := ordering.Dense(sourceSeq); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Source column positions lost density after move", err.Error())
		}
		if err := ordering.Dense(targetSeq); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Target column positions lost density after move", err.Error())
		}
		placements = append(sourceSeq, targetSeq...)
	}

	if err := s.taskRepo.SavePlacements(ctx, placements); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to persist task placements", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementTaskMoved()
	}
	s.logger.Info("Task moved",
		zap.String("task_id", taskID.String()),
		zap.String("source_column_id", sourceColumnID.String()),
		zap.String("target_column_id", targetColumnID.String()),
		zap.Int("position", task.Position),
	)

	return toTaskResponse(task), nil
}

// DeleteTask deletes a task together with its assignments. Surviving sibling
// tasks keep their positions.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find task", err.Error())
	}

	if err := s.taskRepo.DeleteCascade(ctx, taskID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete task", err.Error())
	}

	s.logger.Info("Task deleted",
		zap.String("task_id", taskID.String()),
		zap.String("column_id", task.ColumnID.String()),
	)
	return nil
}

// GetTasksByDateRange returns tasks with a due date inside [start, end]
func (s *taskServiceImpl) GetTasksByDateRange(ctx context.Context, start, end time.Time) ([]*dto.TaskResponse, error) {
	if end.Before(start) {
		return nil, response.NewAppError(response.ErrCodeValidation, "End date must not be before start date", "")
	}

	tasks, err := s.taskRepo.FindInDateRange(ctx, start, end)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load tasks by date range", err.Error())
	}
	return toTaskResponses(tasks), nil
}

// GetTasksByAssignee returns all tasks assigned to a user
func (s *taskServiceImpl) GetTasksByAssignee(ctx context.Context, userID uuid.UUID) ([]*dto.TaskResponse, error) {
	tasks, err := s.taskRepo.FindByAssignedUserID(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load tasks by assignee", err.Error())
	}
	return toTaskResponses(tasks), nil
}

// dispatchAsync fans out one notification per user in the background. The
// dispatcher itself swallows transport failures, so nothing here can reach
// the caller.
func (s *taskServiceImpl) dispatchAsync(taskID uuid.UUID, userIDs []uuid.UUID, kind client.NotificationKind) {
	if len(userIDs) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		for _, userID := range userIDs {
			_ = s.dispatcher.Dispatch(ctx, userID, taskID, kind)
		}
	}()
}

// uniqueUserIDs deduplicates user ids preserving first-seen order
func uniqueUserIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// toTaskResponse converts a task domain model to a response DTO
func toTaskResponse(task *domain.Task) *dto.TaskResponse {
	assignedUserIDs := make([]uuid.UUID, 0, len(task.Assignments))
	assignments := make([]dto.AssignmentResponse, 0, len(task.Assignments))
	for _, a := range task.Assignments {
		assignedUserIDs = append(assignedUserIDs, a.UserID)
		assignments = append(assignments, dto.AssignmentResponse{
			ID:         a.ID,
			TaskID:     a.TaskID,
			UserID:     a.UserID,
			AssignedAt: a.AssignedAt,
		})
	}
	return &dto.TaskResponse{
		ID:              task.ID,
		ColumnID:        task.ColumnID,
		Title:           task.Title,
		Description:     task.Description,
		DueDate:         task.DueDate,
		Priority:        task.Priority,
		Status:          task.Status,
		CreatorID:       task.CreatorID,
		Position:        task.Position,
		AssignedUserIDs: assignedUserIDs,
		Assignments:     assignments,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}
}

func toTaskResponses(tasks []*domain.Task) []*dto.TaskResponse {
	out := make([]*dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task))
	}
	return out
}
