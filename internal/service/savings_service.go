package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ion-assistant/internal/dto"
	"ion-assistant/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var ErrBoxNotFound = errors.New("caixinha não encontrada")

type SavingsService struct {
	savingsStore SavingsStore
	logger       *zap.Logger
}

func NewSavingsService(savingsStore SavingsStore, logger *zap.Logger) *SavingsService {
	return &SavingsService{
		savingsStore: savingsStore,
		logger:       logger,
	}
}

func (s *SavingsService) CreateBox(ctx context.Context, userID uuid.UUID, req *dto.CreateSavingsBoxRequest) (*dto.SavingsBoxResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrEmptyField)
	}
	if req.Goal <= 0 {
		return nil, fmt.Errorf("%w: goal", ErrInvalidAmount)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Geral"
	}

	var deadline *time.Time
	if raw := strings.TrimSpace(req.Deadline); raw != "" {
		parsed, ok := parseFlexibleDate(raw, time.Local)
		if !ok {
			return nil, ErrUnparseableDate
		}
		deadline = &parsed
	}

	now := time.Now()
	box := &models.SavingsBox{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       sanitizeUTF8(name),
		GoalAmount: req.Goal,
		Deadline:   deadline,
		Category:   category,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.savingsStore.Create(ctx, box); err != nil {
		return nil, fmt.Errorf("failed to create savings box: %w", err)
	}

	return savingsToResponse(box), nil
}

func (s *SavingsService) ListBoxes(ctx context.Context, userID uuid.UUID) ([]*dto.SavingsBoxResponse, error) {
	boxes, err := s.savingsStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.SavingsBoxResponse, len(boxes))
	for i, box := range boxes {
		responses[i] = savingsToResponse(box)
	}
	return responses, nil
}

// Deposit adds to the box's accumulated amount. Deposits only ever grow it;
// withdrawals do not exist.
func (s *SavingsService) Deposit(ctx context.Context, userID, id uuid.UUID, amount float64) (*dto.SavingsBoxResponse, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: deposit", ErrInvalidAmount)
	}

	box, err := s.savingsStore.Deposit(ctx, userID, id, amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBoxNotFound
		}
		return nil, fmt.Errorf("failed to deposit: %w", err)
	}

	if box.Completed() {
		s.logger.Info("Savings goal reached",
			zap.String("user_id", userID.String()),
			zap.String("box", box.Name))
	}

	return savingsToResponse(box), nil
}

// DepositByName resolves a box by its name, case-insensitively. Used by the
// assistant, which only ever knows boxes by name.
func (s *SavingsService) DepositByName(ctx context.Context, userID uuid.UUID, name string, amount float64) (*dto.SavingsBoxResponse, error) {
	boxes, err := s.savingsStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, box := range boxes {
		if strings.EqualFold(box.Name, strings.TrimSpace(name)) {
			return s.Deposit(ctx, userID, box.ID, amount)
		}
	}
	return nil, ErrBoxNotFound
}

func savingsToResponse(box *models.SavingsBox) *dto.SavingsBoxResponse {
	resp := &dto.SavingsBoxResponse{
		ID:          box.ID.String(),
		Name:        box.Name,
		Goal:        box.GoalAmount,
		Accumulated: box.Accumulated,
		Category:    box.Category,
		Progress:    box.Progress(),
		Completed:   box.Completed(),
		CreatedAt:   box.CreatedAt.Format(time.RFC3339),
	}
	if box.LastDeposit != nil {
		resp.LastDeposit = *box.LastDeposit
	}
	if box.Deadline != nil {
		resp.Deadline = box.Deadline.Format("2006-01-02")
	}
	return resp
}
