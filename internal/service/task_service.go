package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ion-assistant/internal/dto"
	"ion-assistant/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskService struct {
	taskStore TaskStore
	logger    *zap.Logger
}

func NewTaskService(taskStore TaskStore, logger *zap.Logger) *TaskService {
	return &TaskService{
		taskStore: taskStore,
		logger:    logger,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title", ErrEmptyField)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Geral"
	}

	now := time.Now()
	task := &models.Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     sanitizeUTF8(title),
		Category:  category,
		Status:    models.TaskPendente,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return taskToResponse(task), nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID) ([]*dto.TaskResponse, error) {
	tasks, err := s.taskStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = taskToResponse(task)
	}
	return responses, nil
}

// SetStatus flips a task between pendente and concluido, stamping
// completed_at so the maintenance sweep knows when to purge it.
func (s *TaskService) SetStatus(ctx context.Context, userID, id uuid.UUID, status models.TaskStatus) error {
	var completedAt *time.Time
	if status == models.TaskConcluido {
		now := time.Now()
		completedAt = &now
	}
	return s.taskStore.SetStatus(ctx, userID, id, status, completedAt)
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	return s.taskStore.Delete(ctx, userID, id)
}

// PurgeCompleted removes tasks finished longer than the TTL ago. Invoked by
// the maintenance scheduler.
func (s *TaskService) PurgeCompleted(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-models.CompletedTaskTTL)
	purged, err := s.taskStore.PurgeCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("Purged completed tasks", zap.Int64("count", purged))
	}
	return purged, nil
}

func taskToResponse(task *models.Task) *dto.TaskResponse {
	resp := &dto.TaskResponse{
		ID:        task.ID.String(),
		Title:     task.Title,
		Category:  task.Category,
		Status:    string(task.Status),
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
	}
	if task.CompletedAt != nil {
		resp.CompletedAt = task.CompletedAt.Format(time.RFC3339)
	}
	return resp
}
