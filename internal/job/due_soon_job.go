package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"task-board-api/internal/client"
	"task-board-api/internal/domain"
	"task-board-api/internal/repository"
)

// DueSoonJob reminds assignees about tasks whose due date falls inside the
// configured window. Implements cron.Job.
type DueSoonJob struct {
	taskRepo   repository.TaskRepository
	dispatcher client.NotificationDispatcher
	window     time.Duration
	logger     *zap.Logger
}

// NewDueSoonJob creates a new DueSoonJob instance
func NewDueSoonJob(
	taskRepo repository.TaskRepository,
	dispatcher client.NotificationDispatcher,
	window time.Duration,
	logger *zap.Logger,
) *DueSoonJob {
	return &DueSoonJob{
		taskRepo:   taskRepo,
		dispatcher: dispatcher,
		window:     window,
		logger:     logger,
	}
}

// Run scans for tasks due within the window and dispatches one TASK_DUE_SOON
// notification per assignee. Completed tasks are skipped; delivery is
// best-effort.
func (j *DueSoonJob) Run() {
	ctx := context.Background()

	now := time.Now().UTC()
	tasks, err := j.taskRepo.FindInDateRange(ctx, now, now.Add(j.window))
	if err != nil {
		j.logger.Error("Failed to find tasks due soon", zap.Error(err))
		return
	}

	if len(tasks) == 0 {
		return
	}

	notified := 0
	for _, task := range tasks {
		if task.Status == domain.StatusDone {
			continue
		}
		for _, assignment := range task.Assignments {
			_ = j.dispatcher.Dispatch(ctx, assignment.UserID, task.ID, client.NotificationTaskDueSoon)
			notified++
		}
	}

	j.logger.Info("Due-soon job completed",
		zap.Int("tasks_in_window", len(tasks)),
		zap.Int("notifications", notified),
	)
}
