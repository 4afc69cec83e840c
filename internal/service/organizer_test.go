package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ion-assistant/internal/dto"
	"ion-assistant/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTaskLifecycle(t *testing.T) {
	store := &fakeTaskStore{}
	svc := NewTaskService(store, zap.NewNop())
	userID := uuid.New()

	created, err := svc.CreateTask(context.Background(), userID, &dto.CreateTaskRequest{Title: "Lavar roupa"})
	require.NoError(t, err)
	assert.Equal(t, "pendente", created.Status)
	assert.Equal(t, "Geral", created.Category)

	id := uuid.MustParse(created.ID)
	require.NoError(t, svc.SetStatus(context.Background(), userID, id, models.TaskConcluido))

	tasks, err := svc.ListTasks(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "concluido", tasks[0].Status)
	assert.NotEmpty(t, tasks[0].CompletedAt)

	// Back to pendente clears the completion stamp.
	require.NoError(t, svc.SetStatus(context.Background(), userID, id, models.TaskPendente))
	tasks, _ = svc.ListTasks(context.Background(), userID)
	assert.Empty(t, tasks[0].CompletedAt)
}

func TestCreateTask_EmptyTitle(t *testing.T) {
	svc := NewTaskService(&fakeTaskStore{}, zap.NewNop())

	_, err := svc.CreateTask(context.Background(), uuid.New(), &dto.CreateTaskRequest{Title: "   "})
	assert.ErrorIs(t, err, ErrEmptyField)
}

func TestPurgeCompleted(t *testing.T) {
	store := &fakeTaskStore{}
	svc := NewTaskService(store, zap.NewNop())
	userID := uuid.New()

	old := time.Now().Add(-2 * models.CompletedTaskTTL)
	recent := time.Now().Add(-time.Hour)

	store.tasks = []*models.Task{
		{ID: uuid.New(), UserID: userID, Title: "antiga", Status: models.TaskConcluido, CompletedAt: &old},
		{ID: uuid.New(), UserID: userID, Title: "recente", Status: models.TaskConcluido, CompletedAt: &recent},
		{ID: uuid.New(), UserID: userID, Title: "aberta", Status: models.TaskPendente},
	}

	purged, err := svc.PurgeCompleted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	remaining, _ := svc.ListTasks(context.Background(), userID)
	assert.Len(t, remaining, 2)
}

func newTestReminderService(t *testing.T) (*ReminderService, *fakeReminderStore, *HoursStore) {
	t.Helper()
	store := &fakeReminderStore{}
	hours := NewHoursStore(filepath.Join(t.TempDir(), "hours.json"), zap.NewNop())
	return NewReminderService(store, hours, nil, zap.NewNop()), store, hours
}

func TestCreateReminder(t *testing.T) {
	svc, store, hours := newTestReminderService(t)
	userID := uuid.New()

	created, err := svc.CreateReminder(context.Background(), userID, &dto.CreateReminderRequest{
		Title: "Consulta com dentista",
		Date:  "amanhã às 15h",
	})
	require.NoError(t, err)

	assert.Equal(t, "Unico", created.Recurrence)
	require.Len(t, store.reminders, 1)
	assert.Equal(t, 15, store.reminders[0].RemindAt.Hour())
	assert.True(t, store.reminders[0].RemindAt.After(time.Now()))

	// The confirmed hour feeds the preferred-hours history.
	hour, ok := hours.Preferred(userID, BucketMedical)
	require.True(t, ok)
	assert.Equal(t, 15, hour)
}

func TestCreateReminder_Validation(t *testing.T) {
	svc, _, _ := newTestReminderService(t)
	userID := uuid.New()

	_, err := svc.CreateReminder(context.Background(), userID, &dto.CreateReminderRequest{
		Title: "", Date: "amanhã",
	})
	assert.ErrorIs(t, err, ErrEmptyField)

	_, err = svc.CreateReminder(context.Background(), userID, &dto.CreateReminderRequest{
		Title: "Algo", Date: "sem data nenhuma",
	})
	assert.ErrorIs(t, err, ErrUnparseableDate)

	_, err = svc.CreateReminder(context.Background(), userID, &dto.CreateReminderRequest{
		Title: "Algo", Date: "amanhã", Recurrence: "Quinzenal",
	})
	assert.ErrorIs(t, err, ErrInvalidRecurrence)
}

func TestShoppingLists(t *testing.T) {
	store := &fakeShoppingStore{}
	svc := NewShoppingService(store, zap.NewNop())
	userID := uuid.New()

	require.NoError(t, svc.CreateList(context.Background(), userID, "Mercado"))

	// The empty list exists through its placeholder row, invisible in
	// listings.
	names, err := svc.ListNames(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mercado"}, names)

	items, err := svc.ListItems(context.Background(), userID, "Mercado")
	require.NoError(t, err)
	assert.Empty(t, items)

	// Creating the same list again is a no-op.
	require.NoError(t, svc.CreateList(context.Background(), userID, "mercado"))
	assert.Len(t, store.items, 1)

	_, err = svc.CreateItem(context.Background(), userID, &dto.CreateShoppingItemRequest{
		Name: "Leite", List: "Mercado",
	})
	require.NoError(t, err)

	items, err = svc.ListItems(context.Background(), userID, "Mercado")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Leite", items[0].Name)
}

func TestShoppingItemStatus(t *testing.T) {
	store := &fakeShoppingStore{}
	svc := NewShoppingService(store, zap.NewNop())
	userID := uuid.New()

	created, err := svc.CreateItem(context.Background(), userID, &dto.CreateShoppingItemRequest{Name: "Pão"})
	require.NoError(t, err)
	assert.Equal(t, "pendente", created.Status)

	id := uuid.MustParse(created.ID)
	require.NoError(t, svc.SetItemStatus(context.Background(), userID, id, models.ItemComprado))

	items, _ := svc.ListItems(context.Background(), userID, "")
	assert.Equal(t, "comprado", items[0].Status)
}

func TestSavingsDepositMonotonic(t *testing.T) {
	store := &fakeSavingsStore{}
	svc := NewSavingsService(store, zap.NewNop())
	userID := uuid.New()

	created, err := svc.CreateBox(context.Background(), userID, &dto.CreateSavingsBoxRequest{
		Name: "Viagem", Goal: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, created.Accumulated)
	assert.False(t, created.Completed)

	id := uuid.MustParse(created.ID)

	after, err := svc.Deposit(context.Background(), userID, id, 400)
	require.NoError(t, err)
	assert.Equal(t, 400.0, after.Accumulated)
	assert.Equal(t, 400.0, after.LastDeposit)
	assert.Equal(t, 0.4, after.Progress)
	assert.False(t, after.Completed)

	after, err = svc.Deposit(context.Background(), userID, id, 700)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, after.Accumulated)
	assert.True(t, after.Completed)
	assert.Equal(t, 1.0, after.Progress)
}

func TestSavingsDeposit_Validation(t *testing.T) {
	store := &fakeSavingsStore{}
	svc := NewSavingsService(store, zap.NewNop())
	userID := uuid.New()

	_, err := svc.Deposit(context.Background(), userID, uuid.New(), -10)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Deposit(context.Background(), userID, uuid.New(), 10)
	assert.ErrorIs(t, err, ErrBoxNotFound)

	_, err = svc.CreateBox(context.Background(), userID, &dto.CreateSavingsBoxRequest{Name: "X", Goal: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSavingsDepositByName(t *testing.T) {
	store := &fakeSavingsStore{}
	svc := NewSavingsService(store, zap.NewNop())
	userID := uuid.New()

	_, err := svc.CreateBox(context.Background(), userID, &dto.CreateSavingsBoxRequest{
		Name: "Reserva de Emergência", Goal: 500,
	})
	require.NoError(t, err)

	resp, err := svc.DepositByName(context.Background(), userID, "reserva de emergência", 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, resp.Accumulated)

	_, err = svc.DepositByName(context.Background(), userID, "Inexistente", 100)
	assert.ErrorIs(t, err, ErrBoxNotFound)
}
