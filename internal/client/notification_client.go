package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"task-board-api/internal/metrics"
)

// NotificationKind represents the type of a task notification
type NotificationKind string

const (
	NotificationTaskAssigned NotificationKind = "TASK_ASSIGNED"
	NotificationTaskUpdated  NotificationKind = "TASK_UPDATED"
	NotificationTaskDueSoon  NotificationKind = "TASK_DUE_SOON"
)

// TaskNotification represents a notification to be sent to a user about a task
type TaskNotification struct {
	UserID     uuid.UUID        `json:"userId"`
	TaskID     uuid.UUID        `json:"taskId"`
	Kind       NotificationKind `json:"type"`
	OccurredAt string           `json:"occurredAt,omitempty"`
}

// NotificationDispatcher defines the interface for notification delivery.
// The contract is best-effort, fire-and-forget, at-most-once: transport
// failures are logged and swallowed, never propagated to the caller and
// never retried.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, userID, taskID uuid.UUID, kind NotificationKind) error
}

// notificationClient implements NotificationDispatcher over HTTP
type notificationClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewNotificationClient creates a new notification service client
func NewNotificationClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) NotificationDispatcher {
	return &notificationClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// Dispatch sends a single task notification to the notification service
func (c *notificationClient) Dispatch(ctx context.Context, userID, taskID uuid.UUID, kind NotificationKind) error {
	url := fmt.Sprintf("%s/api/internal/notifications", c.baseURL)

	event := TaskNotification{
		UserID:     userID,
		TaskID:     taskID,
		Kind:       kind,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}

	jsonBody, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("Failed to marshal task notification",
			zap.Error(err),
			zap.String("kind", string(kind)),
		)
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		c.logger.Error("Failed to create notification request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(url, "POST", statusCode, duration, err)
	}

	if err != nil {
		c.logger.Error("Failed to send task notification",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("task_id", taskID.String()),
			zap.Duration("duration", duration),
		)
		// Graceful degradation: log error but don't fail the main operation
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if c.metrics != nil {
			c.metrics.IncrementNotificationSent(string(kind))
		}
		c.logger.Info("Task notification sent",
			zap.String("kind", string(kind)),
			zap.String("user_id", userID.String()),
			zap.String("task_id", taskID.String()),
			zap.Duration("duration", duration),
		)
		return nil
	}

	c.logger.Warn("Notification service returned non-success status",
		zap.Int("status_code", resp.StatusCode),
		zap.String("kind", string(kind)),
		zap.String("task_id", taskID.String()),
		zap.Duration("duration", duration),
	)

	// Graceful degradation
	return nil
}

// NoOpNotificationDispatcher is a no-op implementation for when
// notifications are disabled
type NoOpNotificationDispatcher struct{}

func NewNoOpNotificationDispatcher() NotificationDispatcher {
	return &NoOpNotificationDispatcher{}
}

func (c *NoOpNotificationDispatcher) Dispatch(ctx context.Context, userID, taskID uuid.UUID, kind NotificationKind) error {
	return nil
}
