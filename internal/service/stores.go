package service

import (
	"context"
	"time"

	"ion-assistant/internal/models"

	"github.com/google/uuid"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them; tests substitute in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	CreateBatch(ctx context.Context, transactions []*models.Transaction) error
	ListByUser(ctx context.Context, userID uuid.UUID, since *time.Time) ([]*models.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type CategoryStore interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Category, error)
}

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	SetStatus(ctx context.Context, userID, id uuid.UUID, status models.TaskStatus, completedAt *time.Time) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	PurgeCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type ReminderStore interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Reminder, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type ShoppingStore interface {
	Create(ctx context.Context, item *models.ShoppingItem) error
	ListByUser(ctx context.Context, userID uuid.UUID, selecao string) ([]*models.ShoppingItem, error)
	ListNames(ctx context.Context, userID uuid.UUID) ([]string, error)
	SetStatus(ctx context.Context, userID, id uuid.UUID, status models.ShoppingStatus) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type SavingsStore interface {
	Create(ctx context.Context, box *models.SavingsBox) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.SavingsBox, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SavingsBox, error)
	Deposit(ctx context.Context, userID, id uuid.UUID, amount float64) (*models.SavingsBox, error)
}
