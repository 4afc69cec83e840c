package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"ion-assistant/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SuggestionService proposes a "good" hour to re-schedule a stale reminder
// or overdue task. Tiers: the user's remembered hours for the bucket, then
// an LLM suggestion with surrounding context, then current hour + 1 clamped
// to working hours. Every tier honors the minimum lead.
type SuggestionService struct {
	openai *OpenAIService
	hours  *HoursStore
	logger *zap.Logger
}

func NewSuggestionService(openai *OpenAIService, hours *HoursStore, logger *zap.Logger) *SuggestionService {
	return &SuggestionService{
		openai: openai,
		hours:  hours,
		logger: logger,
	}
}

var suggestedHourRe = regexp.MustCompile(`\b([01]?\d|2[0-3])\b`)

func (s *SuggestionService) SuggestTime(ctx context.Context, userID uuid.UUID, title string, now time.Time) time.Time {
	bucket := ReminderBucket(title)

	if hour, ok := s.hours.Preferred(userID, bucket); ok {
		return atHourWithLead(now, hour)
	}

	if hour, ok := s.askModel(ctx, title, bucket, now); ok {
		return atHourWithLead(now, hour)
	}

	// Last tier: current hour + 1, clamped to [8,18].
	hour := now.Hour() + 1
	if hour < 8 {
		hour = 8
	}
	if hour > 18 {
		hour = 18
	}
	return atHourWithLead(now, hour)
}

func (s *SuggestionService) askModel(ctx context.Context, title, bucket string, now time.Time) (int, bool) {
	if s.openai == nil {
		return 0, false
	}
	prompt := fmt.Sprintf(`Sugira o melhor horário (apenas a hora, 0-23) para um lembrete.

Lembrete: %s
Tipo: %s
Hora atual: %02d:%02d

Considere hábitos comuns: consultas médicas raramente depois das 17h, compras em horário comercial, exercícios cedo ou fim de tarde.
Responda SOMENTE com o número da hora.`, title, bucket, now.Hour(), now.Minute())

	msg, err := s.openai.ChatCompletion(ctx, []ChatMessage{{Role: "user", Content: prompt}}, nil)
	if err != nil {
		s.logger.Warn("Hour suggestion via model failed", zap.Error(err))
		return 0, false
	}

	m := suggestedHourRe.FindString(msg.Content)
	if m == "" {
		return 0, false
	}
	hour, err := strconv.Atoi(m)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

// atHourWithLead places the hour today, pushing to tomorrow when the slot
// would violate the minimum lead.
func atHourWithLead(now time.Time, hour int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if t.Before(now.Add(models.MinReminderLead)) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
