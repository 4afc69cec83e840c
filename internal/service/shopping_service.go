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

type ShoppingService struct {
	shoppingStore ShoppingStore
	logger        *zap.Logger
}

func NewShoppingService(shoppingStore ShoppingStore, logger *zap.Logger) *ShoppingService {
	return &ShoppingService{
		shoppingStore: shoppingStore,
		logger:        logger,
	}
}

func (s *ShoppingService) CreateItem(ctx context.Context, userID uuid.UUID, req *dto.CreateShoppingItemRequest) (*dto.ShoppingItemResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrEmptyField)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Outros"
	}

	item := &models.ShoppingItem{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      sanitizeUTF8(name),
		Category:  category,
		Status:    models.ItemPendente,
		Selecao:   strings.TrimSpace(req.List),
		CreatedAt: time.Now(),
	}

	if err := s.shoppingStore.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create shopping item: %w", err)
	}

	return shoppingToResponse(item), nil
}

// ListItems returns the user's items, optionally scoped to a named list.
// Placeholder rows that back empty lists are filtered out of the result.
func (s *ShoppingService) ListItems(ctx context.Context, userID uuid.UUID, list string) ([]*dto.ShoppingItemResponse, error) {
	items, err := s.shoppingStore.ListByUser(ctx, userID, strings.TrimSpace(list))
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ShoppingItemResponse, 0, len(items))
	for _, item := range items {
		if models.IsListPlaceholder(item.Name) {
			continue
		}
		responses = append(responses, shoppingToResponse(item))
	}
	return responses, nil
}

// ListNames returns the user's named lists, derived from the distinct
// selecao values present among the items.
func (s *ShoppingService) ListNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.shoppingStore.ListNames(ctx, userID)
}

// CreateList materializes an empty named list by inserting its placeholder
// row. Creating a list that already exists is a no-op at the name level: a
// second placeholder is harmless and invisible to listings.
func (s *ShoppingService) CreateList(ctx context.Context, userID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name", ErrEmptyField)
	}

	names, err := s.shoppingStore.ListNames(ctx, userID)
	if err != nil {
		return err
	}
	for _, existing := range names {
		if strings.EqualFold(existing, name) {
			return nil
		}
	}

	placeholder := &models.ShoppingItem{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      models.ListPlaceholderName(name),
		Category:  "Outros",
		Status:    models.ItemPendente,
		Selecao:   name,
		CreatedAt: time.Now(),
	}
	return s.shoppingStore.Create(ctx, placeholder)
}

func (s *ShoppingService) SetItemStatus(ctx context.Context, userID, id uuid.UUID, status models.ShoppingStatus) error {
	return s.shoppingStore.SetStatus(ctx, userID, id, status)
}

func (s *ShoppingService) DeleteItem(ctx context.Context, userID, id uuid.UUID) error {
	return s.shoppingStore.Delete(ctx, userID, id)
}

func shoppingToResponse(item *models.ShoppingItem) *dto.ShoppingItemResponse {
	return &dto.ShoppingItemResponse{
		ID:        item.ID.String(),
		Name:      item.Name,
		Category:  item.Category,
		Status:    string(item.Status),
		List:      item.Selecao,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
	}
}
