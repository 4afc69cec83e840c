package service

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"
	"time"

	"ion-assistant/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// completionClient is the slice of the OpenAI client the orchestrator
// needs. Tests substitute a scripted fake.
type completionClient interface {
	ChatCompletion(ctx context.Context, messages []ChatMessage, tools []ToolSchema) (*ChatMessage, error)
}

const chatSystemPrompt = `Você é o ION, assistente pessoal em português do Brasil.

Você ajuda o usuário a registrar gastos e receitas, criar tarefas, agendar lembretes, gerenciar listas de compras e caixinhas de economia.

Regras:
- Sempre responda em português do Brasil, de forma curta e direta.
- Quando o usuário pedir uma ação, EXECUTE a ferramenta correspondente. Nunca diga que vai fazer algo sem chamar a ferramenta.
- Valores monetários são em reais (R$).
- Se faltar informação essencial, pergunte antes de executar.
- Após executar uma ferramenta, confirme o resultado ao usuário em uma frase.`

// toolLoopApology is the answer when the model keeps requesting tools past
// the round cap.
const toolLoopApology = "Desculpe, não consegui concluir sua solicitação. Pode tentar reformular o pedido?"

// intentPhrases betray a model that narrated an action instead of calling
// the tool. One corrective turn is spent nudging it to actually execute.
var intentPhrases = []string{
	"vou usar",
	"vou criar",
	"vou adicionar",
	"vou registrar",
	"vou agendar",
	"irei criar",
	"irei adicionar",
	"will use",
	"will create",
	"will add",
}

const correctiveNudge = "Você descreveu uma ação em vez de executá-la. Chame agora a ferramenta apropriada para concluir o pedido do usuário."

type ChatService struct {
	llm      completionClient
	registry *ToolRegistry
	cfg      config.ChatConfig
	logger   *zap.Logger
}

func NewChatService(llm completionClient, registry *ToolRegistry, cfg config.ChatConfig, logger *zap.Logger) *ChatService {
	return &ChatService{
		llm:      llm,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	}
}

// Chat runs the tool-calling loop for one user message and returns the
// final assistant reply. The loop is bounded: past the configured round
// cap the user gets an apology instead of another model turn.
func (s *ChatService) Chat(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	conv := NewConversation(chatSystemPrompt).WithUser(message)
	schemas := s.registry.Schemas()
	corrected := false

	for round := 0; round < s.cfg.MaxToolRounds; round++ {
		msg, err := s.llm.ChatCompletion(ctx, conv.Messages(), schemas)
		if err != nil {
			return "", err
		}

		if len(msg.ToolCalls) == 0 {
			if !corrected && narratesIntent(msg.Content) {
				corrected = true
				conv = conv.WithAssistant(*msg).WithSystem(correctiveNudge)
				continue
			}
			return msg.Content, nil
		}

		results, err := s.dispatchAll(ctx, userID, msg.ToolCalls)
		if err != nil {
			return "", err
		}

		conv = conv.WithAssistant(*msg)
		for i, call := range msg.ToolCalls {
			conv = conv.WithToolResult(call.ID, results[i])
		}
	}

	s.logger.Warn("Tool loop exhausted round cap",
		zap.String("user_id", userID.String()),
		zap.Int("rounds", s.cfg.MaxToolRounds))
	return toolLoopApology, nil
}

// dispatchAll runs the round's tool calls concurrently and returns their
// outputs positionally, matching the call order the model emitted.
func (s *ChatService) dispatchAll(ctx context.Context, userID uuid.UUID, calls []ToolCall) ([]string, error) {
	results := make([]string, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			s.logger.Info("Dispatching tool",
				zap.String("tool", call.Function.Name),
				zap.String("user_id", userID.String()))

			out, err := s.registry.Dispatch(gctx, userID, call.Function.Name, json.RawMessage(call.Function.Arguments))
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func narratesIntent(content string) bool {
	lower := strings.ToLower(content)
	for _, phrase := range intentPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// StreamReply writes the reply character by character with a typing-like
// cadence: whitespace flows faster, sentence ends pause longer. A zero
// configured delay streams instantly.
func (s *ChatService) StreamReply(w *bufio.Writer, reply string) error {
	for _, r := range reply {
		if _, err := w.WriteRune(r); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if d := s.charDelay(r); d > 0 {
			time.Sleep(d)
		}
	}
	return nil
}

func (s *ChatService) charDelay(r rune) time.Duration {
	base := s.cfg.CharDelay
	switch {
	case r == '.' || r == '!' || r == '?':
		return 6 * base
	case r == ' ' || r == '\n' || r == '\t':
		return base / 3
	default:
		return base
	}
}
