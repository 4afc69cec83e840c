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

var ErrInvalidRecurrence = fmt.Errorf("recorrência inválida, use Unico, Diario, Semanal ou Mensal")

type ReminderService struct {
	reminderStore ReminderStore
	hours         *HoursStore
	suggest       *SuggestionService
	logger        *zap.Logger
}

func NewReminderService(reminderStore ReminderStore, hours *HoursStore, suggest *SuggestionService, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		reminderStore: reminderStore,
		hours:         hours,
		suggest:       suggest,
		logger:        logger,
	}
}

// CreateReminder resolves the natural-language date, validates the
// recurrence and persists the reminder. A missing date falls back to a
// suggested slot. The confirmed hour feeds the preferred-hours store so
// later suggestions match the user's habits.
func (s *ReminderService) CreateReminder(ctx context.Context, userID uuid.UUID, req *dto.CreateReminderRequest) (*dto.ReminderResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title", ErrEmptyField)
	}

	recurrence := models.Recurrence(strings.TrimSpace(req.Recurrence))
	if recurrence == "" {
		recurrence = models.RecorrenciaUnico
	}
	if !recurrence.Valid() {
		return nil, ErrInvalidRecurrence
	}

	now := time.Now()
	var remindAt time.Time
	if strings.TrimSpace(req.Date) == "" && s.suggest != nil {
		remindAt = s.suggest.SuggestTime(ctx, userID, title, now)
	} else {
		var err error
		remindAt, err = ResolveReminderTime(req.Date, recurrence, now)
		if err != nil {
			return nil, err
		}
	}

	reminder := &models.Reminder{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      sanitizeUTF8(title),
		RemindAt:   remindAt,
		Recurrence: recurrence,
		Phone:      strings.TrimSpace(req.Phone),
		CreatedAt:  now,
	}

	if err := s.reminderStore.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	s.hours.Record(userID, ReminderBucket(title), remindAt.Hour())

	s.logger.Info("Reminder created",
		zap.String("user_id", userID.String()),
		zap.Time("remind_at", remindAt),
		zap.String("recurrence", string(recurrence)))

	return reminderToResponse(reminder), nil
}

func (s *ReminderService) ListReminders(ctx context.Context, userID uuid.UUID) ([]*dto.ReminderResponse, error) {
	reminders, err := s.reminderStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ReminderResponse, len(reminders))
	for i, reminder := range reminders {
		responses[i] = reminderToResponse(reminder)
	}
	return responses, nil
}

func (s *ReminderService) DeleteReminder(ctx context.Context, userID, id uuid.UUID) error {
	return s.reminderStore.Delete(ctx, userID, id)
}

func reminderToResponse(reminder *models.Reminder) *dto.ReminderResponse {
	return &dto.ReminderResponse{
		ID:         reminder.ID.String(),
		Title:      reminder.Title,
		RemindAt:   reminder.RemindAt.Format(time.RFC3339),
		Recurrence: string(reminder.Recurrence),
		Phone:      reminder.Phone,
		CreatedAt:  reminder.CreatedAt.Format(time.RFC3339),
	}
}
