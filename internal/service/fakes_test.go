package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"ion-assistant/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory store fakes shared by the service tests.

type fakeTransactionStore struct {
	mu           sync.Mutex
	transactions []*models.Transaction
}

func (f *fakeTransactionStore) Create(_ context.Context, tx *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions = append(f.transactions, tx)
	return nil
}

func (f *fakeTransactionStore) CreateBatch(_ context.Context, transactions []*models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions = append(f.transactions, transactions...)
	return nil
}

func (f *fakeTransactionStore) ListByUser(_ context.Context, userID uuid.UUID, since *time.Time) ([]*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range f.transactions {
		if tx.UserID != userID {
			continue
		}
		if since != nil && tx.Date.Before(*since) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (f *fakeTransactionStore) Delete(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, tx := range f.transactions {
		if tx.UserID == userID && tx.ID == id {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeCategoryStore struct {
	mu         sync.Mutex
	categories []*models.Category
	calls      int
}

func (f *fakeCategoryStore) GetOrCreate(_ context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, cat := range f.categories {
		if cat.UserID == userID && strings.EqualFold(cat.Name, name) {
			return cat, nil
		}
	}
	cat := &models.Category{ID: uuid.New(), UserID: userID, Name: name, CreatedAt: time.Now()}
	f.categories = append(f.categories, cat)
	return cat, nil
}

func (f *fakeCategoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Category
	for _, cat := range f.categories {
		if cat.UserID == userID {
			out = append(out, cat)
		}
	}
	return out, nil
}

type fakeTaskStore struct {
	mu    sync.Mutex
	tasks []*models.Task
}

func (f *fakeTaskStore) Create(_ context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
	return nil
}

func (f *fakeTaskStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Task
	for _, task := range f.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) SetStatus(_ context.Context, userID, id uuid.UUID, status models.TaskStatus, completedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, task := range f.tasks {
		if task.UserID == userID && task.ID == id {
			task.Status = status
			task.CompletedAt = completedAt
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTaskStore) Delete(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, task := range f.tasks {
		if task.UserID == userID && task.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTaskStore) PurgeCompletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*models.Task
	var purged int64
	for _, task := range f.tasks {
		if task.Status == models.TaskConcluido && task.CompletedAt != nil && task.CompletedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, task)
	}
	f.tasks = kept
	return purged, nil
}

type fakeReminderStore struct {
	mu        sync.Mutex
	reminders []*models.Reminder
}

func (f *fakeReminderStore) Create(_ context.Context, reminder *models.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, reminder)
	return nil
}

func (f *fakeReminderStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Reminder
	for _, reminder := range f.reminders {
		if reminder.UserID == userID {
			out = append(out, reminder)
		}
	}
	return out, nil
}

func (f *fakeReminderStore) Delete(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, reminder := range f.reminders {
		if reminder.UserID == userID && reminder.ID == id {
			f.reminders = append(f.reminders[:i], f.reminders[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeShoppingStore struct {
	mu    sync.Mutex
	items []*models.ShoppingItem
}

func (f *fakeShoppingStore) Create(_ context.Context, item *models.ShoppingItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, item)
	return nil
}

func (f *fakeShoppingStore) ListByUser(_ context.Context, userID uuid.UUID, selecao string) ([]*models.ShoppingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ShoppingItem
	for _, item := range f.items {
		if item.UserID != userID {
			continue
		}
		if selecao != "" && item.Selecao != selecao {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeShoppingStore) ListNames(_ context.Context, userID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	var names []string
	for _, item := range f.items {
		if item.UserID == userID && item.Selecao != "" && !seen[item.Selecao] {
			seen[item.Selecao] = true
			names = append(names, item.Selecao)
		}
	}
	return names, nil
}

func (f *fakeShoppingStore) SetStatus(_ context.Context, userID, id uuid.UUID, status models.ShoppingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.UserID == userID && item.ID == id {
			item.Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeShoppingStore) Delete(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if item.UserID == userID && item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeSavingsStore struct {
	mu    sync.Mutex
	boxes []*models.SavingsBox
}

func (f *fakeSavingsStore) Create(_ context.Context, box *models.SavingsBox) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boxes = append(f.boxes, box)
	return nil
}

func (f *fakeSavingsStore) GetByID(_ context.Context, userID, id uuid.UUID) (*models.SavingsBox, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, box := range f.boxes {
		if box.UserID == userID && box.ID == id {
			return box, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSavingsStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.SavingsBox, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SavingsBox
	for _, box := range f.boxes {
		if box.UserID == userID {
			out = append(out, box)
		}
	}
	return out, nil
}

func (f *fakeSavingsStore) Deposit(_ context.Context, userID, id uuid.UUID, amount float64) (*models.SavingsBox, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, box := range f.boxes {
		if box.UserID == userID && box.ID == id {
			box.Accumulated += amount
			box.LastDeposit = &amount
			box.UpdatedAt = time.Now()
			return box, nil
		}
	}
	return nil, pgx.ErrNoRows
}
