package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ion-assistant/internal/dto"

	"github.com/google/uuid"
)

// toolHandler executes one assistant tool call. Handlers always answer with
// a human-readable Portuguese string: validation problems and clarifying
// questions travel back to the model as tool output, never as Go errors.
// A returned error means infrastructure failed, not that the user was wrong.
type toolHandler func(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, error)

type toolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	handler     toolHandler
}

// ToolRegistry holds the assistant's callable tools keyed by name.
type ToolRegistry struct {
	tools map[string]toolDefinition
	order []string
}

func (r *ToolRegistry) register(def toolDefinition) {
	if r.tools == nil {
		r.tools = make(map[string]toolDefinition)
	}
	r.tools[def.Name] = def
	r.order = append(r.order, def.Name)
}

// Schemas returns the wire-format tool list sent with every completion.
func (r *ToolRegistry) Schemas() []ToolSchema {
	schemas := make([]ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		def := r.tools[name]
		schemas = append(schemas, ToolSchema{
			Type: "function",
			Function: FunctionSchema{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return schemas
}

// Dispatch runs the named tool. An unknown name is reported back to the
// model as tool output so it can recover on the next round.
func (r *ToolRegistry) Dispatch(ctx context.Context, userID uuid.UUID, name string, args json.RawMessage) (string, error) {
	def, ok := r.tools[name]
	if !ok {
		return fmt.Sprintf("Ferramenta desconhecida: %s", name), nil
	}
	return def.handler(ctx, userID, args)
}

func stringProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func numberProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": desc}
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// NewToolRegistry wires every assistant tool to its domain service.
func NewToolRegistry(
	finance *FinanceService,
	tasks *TaskService,
	reminders *ReminderService,
	shopping *ShoppingService,
	savings *SavingsService,
) *ToolRegistry {
	r := &ToolRegistry{}

	r.register(toolDefinition{
		Name:        "create_transaction",
		Description: "Registra uma transação financeira (gasto ou receita). Tipo e categoria são inferidos da descrição quando omitidos.",
		Parameters: objectSchema(map[string]interface{}{
			"description": stringProp("Descrição da transação, ex: 'Almoço'"),
			"amount":      numberProp("Valor em reais, maior que zero"),
			"type":        stringProp("'entrada' ou 'saida'. Deixe vazio para inferir."),
			"category":    stringProp("Categoria. Deixe vazio para inferir."),
			"date":        stringProp("Data no formato AAAA-MM-DD. Vazio usa hoje."),
		}, "description", "amount"),
		handler: func(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, error) {
			var req dto.CreateTransactionRequest
			if err := json.Unmarshal(args, &req); err != nil {
				return "Argumentos inválidos para create_transaction.", nil
			}
			resp, err := finance.CreateTransaction(ctx, userID, &req)
			if err != nil {
				return toolUserError(err)
			}
			return fmt.Sprintf("Transação registrada: %s, R$ %.2f (%s, categoria %s).",
				resp.Description, resp.Amount, resp.Type, resp.Category), nil
		},
	})

	r.register(toolDefinition{
		Name:        "list_transactions",
		Description: "Lista as transações do usuário em um período.",
		Parameters: objectSchema(map[string]interface{}{
			"period": stringProp("'hoje', 'semana', 'mes' ou vazio para todas"),
		}),
		handler: func(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, error) {
			var in struct {
				Period string `json:"period"`
			}
			_ = json.Unmarshal(args, &in)
			txs, err := finance.ListTransactions(ctx, userID, in.Period)
			if err != nil {
				return toolUserError(err)
			}
			if len(txs) == 0 {
				return "Nenhuma transação encontrada no período.", nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%d transações:\n", len(txs))
			for _, tx := range txs {
				fmt.Fprintf(&b, "- %s: R$ %.2f (%s, %s) em %s\n",
					tx.Description, tx.Amount, tx.Type, tx.Category, tx.Date)
			}
			return b.String(), nil
		},
	})

	r.register(toolDefinition{
		Name:        "create_task",
		Description: "Cria uma tarefa pendente.",
		Parameters: objectSchema(map[string]interface{}{
			"title":    stringProp("Título da tarefa"),
			"category": stringProp("Categoria, opcional"),
		}, "title"),
		handler: func(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, error) {
			var req dto.CreateTaskRequest
			if err := json.Unmarshal(args, &req); err != nil {
				return "Argumentos inválidos para create_task.", nil
			}
			resp, err := tasks.CreateTask(ctx, userID, &req)
			if err != nil {
				return toolUserError(err)
			}
			return fmt.Sprintf("Tarefa criada: %s (categoria %s).", resp.Title, resp.Category), nil
		},
	})

	r.register(toolDefinition{
		Name:        "list_tasks",
		Description: "Lista as tarefas do usuário.",
		Parameters:  objectSchema(map[string]interface{}{}),
		handler: func(ctx context.Context, userID uuid.UUID, _ json.RawMessage) (string, error) {
			list, err := tasks.ListTasks(ctx, userID)
			if err != nil {
				return toolUserError(err)
			}
			if len(list) == 0 {
				return "Nenhuma tarefa cadastrada.", nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%d tarefas:\n", len(list))
			for _, task := range list {
				fmt.Fprintf(&b, "- %s (%s, %s)\n", task.Title, task.Category, task.Status)
			}
			return b.String(), nil
		},
	})

	r.register(toolDefinition{
		Name:        "create_reminder",
		Description: "Agenda um lembrete. Aceita datas naturais em português, ex: 'amanhã às 15h'.",
		Parameters: objectSchema(map[string]interface{}{
			"title":      stringProp("O que lembrar"),
			"date":       stringProp("Quando lembrar, data natural ou ISO. Vazio deixa o sistema sugerir um horário."),
			"recurrence": stringProp("'Unico', 'Diario', 'Semanal' ou 'Mensal'. Vazio é Unico."),
			"phone":      stringProp("Telefone de destino, opcional"),
		}, "title"),
		handler: func(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, error) {
			var req dto.CreateReminderRequest
			if err := json.Unmarshal(args, &req); err != nil {
				return "Argumentos inválidos para create_reminder.", nil
			}
			resp, err := reminders.CreateReminder(ctx, userID, &req)
			if err != nil {
				return toolUserError(err)
			}
			return fmt.Sprintf("Lembrete agendado: %s em %s (%s).",
				resp.Title, resp.RemindAt, resp.Recurrence), nil
		},
	})

	r.register(toolDefinition{
		Name:        "list_reminders",
		Description: "Lista os lembretes do usuário em ordem cronológica.",
		Parameters:  objectSchema(map[string]interface{}{}),
		handler: func(ctx context.Context, userID uuid.UUID, _ json.RawMessage) (string, error) {
			list, err := reminders.ListReminders(ctx, userID)
			if err != nil {
				return toolUserError(err)
			}
			if len(list) == 0 {
				return "Nenhum lembrete agendado.", nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%d lembretes:\n", len(list))
			for _, reminder := range list {
				fmt.Fprintf(&b, "- %s em %s (%s)\n", reminder.Title, reminder.RemindAt, reminder.Recurrence)
			}
			return b.String(), nil
		},
	})

	r.register(toolDefinition{
		Name:        "create_shopping_item",
		Description: "Adiciona um item à lista de compras. Informe 'list' quando o usuário tiver mais de uma lista nomeada.",
		Parameters: objectSchema(map[string]interface{}{
			"name":     stringProp("Nome do item"),
			"category": stringProp("Categoria, opcional"),
			"list":     stringProp("Nome da lista de destino, opcional"),
		}, "name"),
		handler: func(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, error) {
			var req dto.CreateShoppingItemRequest
			if err := json.Unmarshal(args, &req); err != nil {
				return "Argumentos inválidos para create_shopping_item.", nil
			}

			// With several named lists and no target, ask instead of
			// guessing. Nothing is written on this path.
			if strings.TrimSpace(req.List) == "" {
				names, err := shopping.ListNames(ctx, userID)
				if err != nil {
					return toolUserError(err)
				}
				if len(names) >= 2 {
					return fmt.Sprintf("Em qual lista devo adicionar '%s'? Listas disponíveis: %s.",
						req.Name, strings.Join(names, ", ")), nil
				}
				if len(names) == 1 {
					req.List = names[0]
				}
			}

			resp, err := shopping.CreateItem(ctx, userID, &req)
			if err != nil {
				return toolUserError(err)
			}
			if resp.List != "" {
				return fmt.Sprintf("Item adicionado: %s na lista %s.", resp.Name, resp.List), nil
			}
			return fmt.Sprintf("Item adicionado: %s.", resp.Name), nil
		},
	})

	r.register(toolDefinition{
		Name:        "list_shopping_items",
		Description: "Lista os itens de compras, opcionalmente de uma lista nomeada.",
		Parameters: objectSchema(map[string]interface{}{
			"list": stringProp("Nome da lista, vazio para todos os itens"),
		}),
		handler: func(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, error) {
			var in struct {
				List string `json:"list"`
			}
			_ = json.Unmarshal(args, &in)
			items, err := shopping.ListItems(ctx, userID, in.List)
			if err != nil {
				return toolUserError(err)
			}
			if len(items) == 0 {
				return "Nenhum item na lista de compras.", nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%d itens:\n", len(items))
			for _, item := range items {
				fmt.Fprintf(&b, "- %s (%s, %s)\n", item.Name, item.Category, item.Status)
			}
			return b.String(), nil
		},
	})

	r.register(toolDefinition{
		Name:        "create_savings_box",
		Description: "Cria uma caixinha de economia com meta em reais.",
		Parameters: objectSchema(map[string]interface{}{
			"name":     stringProp("Nome da caixinha"),
			"goal":     numberProp("Meta em reais, maior que zero"),
			"deadline": stringProp("Prazo AAAA-MM-DD, opcional"),
			"category": stringProp("Categoria, opcional"),
		}, "name", "goal"),
		handler: func(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, error) {
			var req dto.CreateSavingsBoxRequest
			if err := json.Unmarshal(args, &req); err != nil {
				return "Argumentos inválidos para create_savings_box.", nil
			}
			resp, err := savings.CreateBox(ctx, userID, &req)
			if err != nil {
				return toolUserError(err)
			}
			return fmt.Sprintf("Caixinha criada: %s com meta de R$ %.2f.", resp.Name, resp.Goal), nil
		},
	})

	r.register(toolDefinition{
		Name:        "add_deposit",
		Description: "Deposita um valor em uma caixinha existente, pelo nome.",
		Parameters: objectSchema(map[string]interface{}{
			"box":    stringProp("Nome da caixinha"),
			"amount": numberProp("Valor a depositar, maior que zero"),
		}, "box", "amount"),
		handler: func(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, error) {
			var in struct {
				Box    string  `json:"box"`
				Amount float64 `json:"amount"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "Argumentos inválidos para add_deposit.", nil
			}
			resp, err := savings.DepositByName(ctx, userID, in.Box, in.Amount)
			if err != nil {
				return toolUserError(err)
			}
			if resp.Completed {
				return fmt.Sprintf("Depósito de R$ %.2f feito. Parabéns, a caixinha %s atingiu a meta de R$ %.2f!",
					in.Amount, resp.Name, resp.Goal), nil
			}
			return fmt.Sprintf("Depósito de R$ %.2f feito na caixinha %s. Acumulado: R$ %.2f de R$ %.2f (%.0f%%).",
				in.Amount, resp.Name, resp.Accumulated, resp.Goal, resp.Progress*100), nil
		},
	})

	r.register(toolDefinition{
		Name:        "list_savings_boxes",
		Description: "Lista as caixinhas do usuário com progresso.",
		Parameters:  objectSchema(map[string]interface{}{}),
		handler: func(ctx context.Context, userID uuid.UUID, _ json.RawMessage) (string, error) {
			boxes, err := savings.ListBoxes(ctx, userID)
			if err != nil {
				return toolUserError(err)
			}
			if len(boxes) == 0 {
				return "Nenhuma caixinha criada.", nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%d caixinhas:\n", len(boxes))
			for _, box := range boxes {
				fmt.Fprintf(&b, "- %s: R$ %.2f de R$ %.2f (%.0f%%)\n",
					box.Name, box.Accumulated, box.Goal, box.Progress*100)
			}
			return b.String(), nil
		},
	})

	return r
}

// toolUserError folds a domain validation error into tool output. Only
// unexpected failures keep propagating as Go errors.
func toolUserError(err error) (string, error) {
	if isValidationError(err) {
		return err.Error(), nil
	}
	return "", err
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidAmount,
		ErrEmptyField,
		ErrUnparseableDate,
		ErrInvalidRecurrence,
		ErrBoxNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
