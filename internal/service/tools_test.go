package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry(t *testing.T) (*ToolRegistry, *fakeTransactionStore) {
	t.Helper()
	log := zap.NewNop()

	txStore := &fakeTransactionStore{}
	finance := NewFinanceService(txStore, &fakeCategoryStore{}, nil, log)
	tasks := NewTaskService(&fakeTaskStore{}, log)
	hours := NewHoursStore(t.TempDir()+"/hours.json", log)
	reminders := NewReminderService(&fakeReminderStore{}, hours, nil, log)
	shopping := NewShoppingService(&fakeShoppingStore{}, log)
	savings := NewSavingsService(&fakeSavingsStore{}, log)

	return NewToolRegistry(finance, tasks, reminders, shopping, savings), txStore
}

func TestRegistry_Schemas(t *testing.T) {
	registry, _ := newTestRegistry(t)

	schemas := registry.Schemas()
	require.NotEmpty(t, schemas)

	names := make(map[string]bool)
	for _, schema := range schemas {
		assert.Equal(t, "function", schema.Type)
		assert.NotEmpty(t, schema.Function.Description)
		names[schema.Function.Name] = true
	}

	for _, want := range []string{
		"create_transaction", "list_transactions",
		"create_task", "list_tasks",
		"create_reminder", "list_reminders",
		"create_shopping_item", "list_shopping_items",
		"create_savings_box", "add_deposit", "list_savings_boxes",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	out, err := registry.Dispatch(context.Background(), uuid.New(), "explodir", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Contains(t, out, "Ferramenta desconhecida")
}

func TestDispatch_ValidationErrorsBecomeText(t *testing.T) {
	registry, txStore := newTestRegistry(t)
	userID := uuid.New()

	// Invalid amount comes back as tool output, not as a Go error.
	out, err := registry.Dispatch(context.Background(), userID, "create_transaction",
		json.RawMessage(`{"description":"Almoço","amount":0}`))
	require.NoError(t, err)
	assert.Contains(t, out, "valor")
	assert.Empty(t, txStore.transactions)

	out, err = registry.Dispatch(context.Background(), userID, "create_reminder",
		json.RawMessage(`{"title":"Algo","date":"rabisco sem sentido"}`))
	require.NoError(t, err)
	assert.Contains(t, out, "não consegui entender a data")
}

func TestDispatch_CreateTransaction(t *testing.T) {
	registry, txStore := newTestRegistry(t)
	userID := uuid.New()

	out, err := registry.Dispatch(context.Background(), userID, "create_transaction",
		json.RawMessage(`{"description":"Almoço","amount":30}`))
	require.NoError(t, err)

	assert.Contains(t, out, "Almoço")
	assert.Contains(t, out, "saida")
	assert.Contains(t, out, "Alimentação")
	require.Len(t, txStore.transactions, 1)
}

func TestConversationImmutability(t *testing.T) {
	base := NewConversation("sistema").WithUser("oi")

	withTool := base.WithToolResult("c1", "feito")
	withAnswer := base.WithAssistant(ChatMessage{Content: "olá"})

	assert.Equal(t, 2, base.Len())
	assert.Equal(t, 3, withTool.Len())
	assert.Equal(t, 3, withAnswer.Len())

	// Branches do not share tails.
	assert.Equal(t, "tool", withTool.Messages()[2].Role)
	assert.Equal(t, "assistant", withAnswer.Messages()[2].Role)
	assert.Equal(t, "user", base.Messages()[1].Role)
}
