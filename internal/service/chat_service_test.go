package service

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"ion-assistant/internal/models"
	"ion-assistant/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedClient returns canned completions in order and records every
// request it saw.
type scriptedClient struct {
	responses []ChatMessage
	requests  [][]ChatMessage
}

func (c *scriptedClient) ChatCompletion(_ context.Context, messages []ChatMessage, _ []ToolSchema) (*ChatMessage, error) {
	c.requests = append(c.requests, messages)
	idx := len(c.requests) - 1
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	msg := c.responses[idx]
	return &msg, nil
}

type chatFixture struct {
	chat     *ChatService
	client   *scriptedClient
	txStore  *fakeTransactionStore
	shopping *fakeShoppingStore
	tasks    *fakeTaskStore
}

func newChatFixture(t *testing.T, responses ...ChatMessage) *chatFixture {
	t.Helper()
	log := zap.NewNop()

	txStore := &fakeTransactionStore{}
	catStore := &fakeCategoryStore{}
	taskStore := &fakeTaskStore{}
	reminderStore := &fakeReminderStore{}
	shoppingStore := &fakeShoppingStore{}
	savingsStore := &fakeSavingsStore{}

	hours := NewHoursStore(t.TempDir()+"/hours.json", log)

	finance := NewFinanceService(txStore, catStore, nil, log)
	tasks := NewTaskService(taskStore, log)
	reminders := NewReminderService(reminderStore, hours, nil, log)
	shopping := NewShoppingService(shoppingStore, log)
	savings := NewSavingsService(savingsStore, log)

	registry := NewToolRegistry(finance, tasks, reminders, shopping, savings)
	client := &scriptedClient{responses: responses}
	chat := NewChatService(client, registry, config.ChatConfig{MaxToolRounds: 5}, log)

	return &chatFixture{
		chat:     chat,
		client:   client,
		txStore:  txStore,
		shopping: shoppingStore,
		tasks:    taskStore,
	}
}

func toolCallMsg(calls ...ToolCall) ChatMessage {
	return ChatMessage{Role: "assistant", ToolCalls: calls}
}

func call(id, name, args string) ToolCall {
	return ToolCall{ID: id, Type: "function", Function: FunctionCall{Name: name, Arguments: args}}
}

func TestChat_DirectAnswer(t *testing.T) {
	f := newChatFixture(t, ChatMessage{Role: "assistant", Content: "Olá! Como posso ajudar?"})

	reply, err := f.chat.Chat(context.Background(), uuid.New(), "oi")
	require.NoError(t, err)

	assert.Equal(t, "Olá! Como posso ajudar?", reply)
	assert.Len(t, f.client.requests, 1)
}

func TestChat_ToolCallRound(t *testing.T) {
	f := newChatFixture(t,
		toolCallMsg(call("c1", "create_transaction", `{"description":"Almoço","amount":30}`)),
		ChatMessage{Role: "assistant", Content: "Registrei seu almoço de R$ 30."},
	)
	userID := uuid.New()

	reply, err := f.chat.Chat(context.Background(), userID, "gastei 30 no almoço")
	require.NoError(t, err)

	assert.Equal(t, "Registrei seu almoço de R$ 30.", reply)
	require.Len(t, f.txStore.transactions, 1)
	assert.Equal(t, models.TypeSaida, f.txStore.transactions[0].Type)

	// Second request must carry the assistant turn and the tool result.
	second := f.client.requests[1]
	last := second[len(second)-1]
	assert.Equal(t, "tool", last.Role)
	assert.Equal(t, "c1", last.ToolCallID)
	assert.Contains(t, last.Content, "Almoço")
}

func TestChat_ToolResultsKeepCallOrder(t *testing.T) {
	f := newChatFixture(t,
		toolCallMsg(
			call("c1", "create_task", `{"title":"Lavar o carro"}`),
			call("c2", "create_task", `{"title":"Pagar contas"}`),
			call("c3", "list_tasks", `{}`),
		),
		ChatMessage{Role: "assistant", Content: "Feito."},
	)

	_, err := f.chat.Chat(context.Background(), uuid.New(), "organiza minhas tarefas")
	require.NoError(t, err)

	second := f.client.requests[1]
	tail := second[len(second)-3:]
	assert.Equal(t, "c1", tail[0].ToolCallID)
	assert.Equal(t, "c2", tail[1].ToolCallID)
	assert.Equal(t, "c3", tail[2].ToolCallID)
	assert.Contains(t, tail[0].Content, "Lavar o carro")
	assert.Contains(t, tail[1].Content, "Pagar contas")
}

func TestChat_RoundCapApology(t *testing.T) {
	// The model never stops asking for tools.
	f := newChatFixture(t, toolCallMsg(call("c1", "list_tasks", `{}`)))

	reply, err := f.chat.Chat(context.Background(), uuid.New(), "loop")
	require.NoError(t, err)

	assert.Equal(t, toolLoopApology, reply)
	assert.Len(t, f.client.requests, 5)
}

func TestChat_SelfCorrection(t *testing.T) {
	f := newChatFixture(t,
		ChatMessage{Role: "assistant", Content: "Vou criar a tarefa para você."},
		toolCallMsg(call("c1", "create_task", `{"title":"Estudar Go"}`)),
		ChatMessage{Role: "assistant", Content: "Tarefa criada!"},
	)

	reply, err := f.chat.Chat(context.Background(), uuid.New(), "cria uma tarefa de estudar go")
	require.NoError(t, err)

	assert.Equal(t, "Tarefa criada!", reply)
	require.Len(t, f.tasks.tasks, 1)

	// The nudge goes on the wire as a system message.
	second := f.client.requests[1]
	last := second[len(second)-1]
	assert.Equal(t, "system", last.Role)
	assert.Equal(t, correctiveNudge, last.Content)
}

func TestChat_SelfCorrectionOnlyOnce(t *testing.T) {
	f := newChatFixture(t,
		ChatMessage{Role: "assistant", Content: "Vou criar a tarefa."},
		ChatMessage{Role: "assistant", Content: "Vou criar a tarefa agora mesmo."},
	)

	reply, err := f.chat.Chat(context.Background(), uuid.New(), "cria a tarefa")
	require.NoError(t, err)

	// A second narration passes through untouched.
	assert.Equal(t, "Vou criar a tarefa agora mesmo.", reply)
	assert.Len(t, f.client.requests, 2)
}

func TestChat_ShoppingClarifyingQuestion(t *testing.T) {
	f := newChatFixture(t,
		toolCallMsg(call("c1", "create_shopping_item", `{"name":"Leite"}`)),
		ChatMessage{Role: "assistant", Content: "Em qual lista devo adicionar?"},
	)
	userID := uuid.New()

	// Two named lists exist before the chat.
	require.NoError(t, f.shopping.Create(context.Background(), &models.ShoppingItem{
		ID: uuid.New(), UserID: userID, Name: "Arroz", Selecao: "Mercado", Status: models.ItemPendente,
	}))
	require.NoError(t, f.shopping.Create(context.Background(), &models.ShoppingItem{
		ID: uuid.New(), UserID: userID, Name: "Sabonete", Selecao: "Farmácia", Status: models.ItemPendente,
	}))

	reply, err := f.chat.Chat(context.Background(), userID, "adiciona leite nas compras")
	require.NoError(t, err)

	assert.Equal(t, "Em qual lista devo adicionar?", reply)

	// No item was written; the tool answered with a question instead.
	items, _ := f.shopping.ListByUser(context.Background(), userID, "")
	assert.Len(t, items, 2)

	second := f.client.requests[1]
	last := second[len(second)-1]
	assert.Contains(t, last.Content, "Mercado")
	assert.Contains(t, last.Content, "Farmácia")
}

func TestChat_SingleListIsImplicit(t *testing.T) {
	f := newChatFixture(t,
		toolCallMsg(call("c1", "create_shopping_item", `{"name":"Leite"}`)),
		ChatMessage{Role: "assistant", Content: "Adicionei leite à lista Mercado."},
	)
	userID := uuid.New()

	require.NoError(t, f.shopping.Create(context.Background(), &models.ShoppingItem{
		ID: uuid.New(), UserID: userID, Name: "Arroz", Selecao: "Mercado", Status: models.ItemPendente,
	}))

	_, err := f.chat.Chat(context.Background(), userID, "adiciona leite")
	require.NoError(t, err)

	items, _ := f.shopping.ListByUser(context.Background(), userID, "Mercado")
	require.Len(t, items, 2)
	assert.Equal(t, "Leite", items[1].Name)
}

func TestStreamReply(t *testing.T) {
	chat := NewChatService(nil, &ToolRegistry{}, config.ChatConfig{CharDelay: 0}, zap.NewNop())

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	start := time.Now()
	require.NoError(t, chat.StreamReply(w, "Olá, tudo bem?"))

	assert.Equal(t, "Olá, tudo bem?", buf.String())
	assert.Less(t, time.Since(start), time.Second)
}

func TestStreamReply_PreservesUTF8(t *testing.T) {
	chat := NewChatService(nil, &ToolRegistry{}, config.ChatConfig{}, zap.NewNop())

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, chat.StreamReply(w, "ação café維"))

	assert.Equal(t, "ação café維", buf.String())
	assert.True(t, strings.HasSuffix(buf.String(), "維"))
}
