package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Coarse reminder buckets for remembering which hours a user tends to
// confirm. Derived from title keywords, not from transaction categories.
const (
	BucketExercise = "exercise"
	BucketShopping = "shopping"
	BucketMedical  = "medical"
	BucketGeneral  = "general"
)

const maxRememberedHours = 5

var bucketKeywords = []struct {
	bucket string
	words  []string
}{
	{BucketExercise, []string{"academia", "treino", "corrida", "caminhada", "exercício", "exercicio", "yoga"}},
	{BucketShopping, []string{"comprar", "compras", "mercado", "farmácia", "farmacia", "loja"}},
	{BucketMedical, []string{"médico", "medico", "consulta", "dentista", "exame", "remédio", "remedio", "vacina"}},
}

// ReminderBucket maps a reminder title to its coarse bucket.
func ReminderBucket(title string) string {
	lower := strings.ToLower(title)
	for _, entry := range bucketKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.bucket
			}
		}
	}
	return BucketGeneral
}

// HoursStore persists each user's confirmed reminder hours per bucket in a
// small JSON file, keeping at most the five most recent per bucket.
type HoursStore struct {
	path   string
	logger *zap.Logger

	mu   sync.Mutex
	data map[string]map[string][]int // user id -> bucket -> hours, newest first
}

func NewHoursStore(path string, logger *zap.Logger) *HoursStore {
	s := &HoursStore{
		path:   path,
		logger: logger,
		data:   make(map[string]map[string][]int),
	}
	s.load()
	return s
}

func (s *HoursStore) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read preferred hours file", zap.Error(err))
		}
		return
	}
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		s.logger.Warn("Failed to parse preferred hours file", zap.Error(err))
		s.data = make(map[string]map[string][]int)
	}
}

func (s *HoursStore) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferred hours: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return os.WriteFile(s.path, raw, 0644)
}

// Record remembers a confirmed hour for the user's bucket, newest first,
// dropping the oldest beyond the cap.
func (s *HoursStore) Record(userID uuid.UUID, bucket string, hour int) {
	if hour < 0 || hour > 23 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := userID.String()
	if s.data[key] == nil {
		s.data[key] = make(map[string][]int)
	}

	hours := append([]int{hour}, s.data[key][bucket]...)
	if len(hours) > maxRememberedHours {
		hours = hours[:maxRememberedHours]
	}
	s.data[key][bucket] = hours

	if err := s.save(); err != nil {
		s.logger.Warn("Failed to persist preferred hours", zap.Error(err))
	}
}

// Preferred returns the user's most frequently confirmed hour for the
// bucket, ties broken by recency.
func (s *HoursStore) Preferred(userID uuid.UUID, bucket string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hours := s.data[userID.String()][bucket]
	if len(hours) == 0 {
		return 0, false
	}

	counts := make(map[int]int)
	for _, h := range hours {
		counts[h]++
	}

	best := hours[0]
	for _, h := range hours { // newest first, so earlier entries win ties
		if counts[h] > counts[best] {
			best = h
		}
	}

	return best, true
}
