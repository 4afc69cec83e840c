package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ion-assistant/internal/dto"
	"ion-assistant/internal/models"
	"ion-assistant/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidAmount = errors.New("valor deve ser maior que zero")
	ErrEmptyField    = errors.New("campo obrigatório ausente")
)

type FinanceService struct {
	txStore  TransactionStore
	catStore CategoryStore
	summary  *cache.Cache[dto.TransactionSummaryResponse]
	logger   *zap.Logger
}

func NewFinanceService(txStore TransactionStore, catStore CategoryStore, summaryCache *cache.Cache[dto.TransactionSummaryResponse], logger *zap.Logger) *FinanceService {
	return &FinanceService{
		txStore:  txStore,
		catStore: catStore,
		summary:  summaryCache,
		logger:   logger,
	}
}

// CreateTransaction records a transaction, inferring type and category from
// the description when omitted. Category creation and the transaction
// insert are two independent round trips; a failed insert leaves the
// category behind, which is harmless.
func (s *FinanceService) CreateTransaction(ctx context.Context, userID uuid.UUID, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description", ErrEmptyField)
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	txType := models.TransactionType(req.Type)
	if !txType.Valid() {
		txType = InferTransactionType(description)
	}

	categoryName := strings.TrimSpace(req.Category)
	if categoryName == "" {
		categoryName = InferCategory(description)
	}

	category, err := s.catStore.GetOrCreate(ctx, userID, categoryName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	date := time.Now()
	if req.Date != "" {
		if parsed, ok := parseFlexibleDate(req.Date, date.Location()); ok {
			date = parsed
		}
	}

	tx := &models.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Description: sanitizeUTF8(description),
		Amount:      req.Amount,
		Type:        txType,
		Date:        date,
		CategoryID:  category.ID,
		CreatedAt:   time.Now(),
	}

	if err := s.txStore.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.invalidateSummaries(userID)

	return s.toResponse(tx, category.Name), nil
}

func (s *FinanceService) ListTransactions(ctx context.Context, userID uuid.UUID, period string) ([]*dto.TransactionResponse, error) {
	since := periodSince(period, time.Now())
	transactions, err := s.txStore.ListByUser(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TransactionResponse, len(transactions))
	for i, tx := range transactions {
		responses[i] = s.toResponse(tx, names[tx.CategoryID])
	}

	return responses, nil
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.txStore.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.invalidateSummaries(userID)
	return nil
}

// Summary aggregates income, expense and per-category totals for the
// period. Results are cached per user and dropped on any write.
func (s *FinanceService) Summary(ctx context.Context, userID uuid.UUID, period string) (*dto.TransactionSummaryResponse, error) {
	key := "summary:" + userID.String() + ":" + period
	if s.summary != nil {
		if cached, ok := s.summary.Get(key); ok {
			return &cached, nil
		}
	}

	since := periodSince(period, time.Now())
	transactions, err := s.txStore.ListByUser(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := dto.TransactionSummaryResponse{
		Period:     period,
		ByCategory: make(map[string]float64),
		Count:      len(transactions),
	}
	for _, tx := range transactions {
		if tx.Type == models.TypeEntrada {
			result.Income += tx.Amount
		} else {
			result.Expense += tx.Amount
		}
		result.ByCategory[names[tx.CategoryID]] += tx.Amount
	}
	result.Balance = result.Income - result.Expense

	if s.summary != nil {
		s.summary.Set(userID.String(), key, result)
	}

	return &result, nil
}

var csvHeader = []string{"descricao", "valor", "tipo", "data", "categoria"}

// ExportCSV writes the user's transactions as RFC 4180 CSV.
func (s *FinanceService) ExportCSV(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	transactions, err := s.txStore.ListByUser(ctx, userID, nil)
	if err != nil {
		return err
	}

	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, tx := range transactions {
		record := []string{
			tx.Description,
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			string(tx.Type),
			tx.Date.Format("2006-01-02"),
			names[tx.CategoryID],
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ImportCSV reads transactions back from CSV, stripping a UTF-8 BOM if
// present. Rows that fail to parse are skipped and reported, not fatal.
func (s *FinanceService) ImportCSV(ctx context.Context, userID uuid.UUID, r io.Reader) (*dto.ImportResult, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("arquivo CSV inválido: %w", err)
	}
	if len(records) == 0 {
		return &dto.ImportResult{}, nil
	}

	start := 0
	if isHeaderRow(records[0]) {
		start = 1
	}

	result := &dto.ImportResult{}
	var batch []*models.Transaction
	now := time.Now()

	for i, record := range records[start:] {
		line := start + i + 1
		if len(record) < 4 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: colunas insuficientes", line))
			continue
		}

		description := strings.TrimSpace(record[0])
		if description == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: descrição vazia", line))
			continue
		}

		amount, err := parseAmount(record[1])
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: %v", line, err))
			continue
		}

		txType := models.TransactionType(strings.TrimSpace(record[2]))
		if !txType.Valid() {
			txType = InferTransactionType(description)
		}

		date := now
		if parsed, ok := parseFlexibleDate(strings.TrimSpace(record[3]), now.Location()); ok {
			date = parsed
		}

		categoryName := defaultCategory
		if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
			categoryName = strings.TrimSpace(record[4])
		}
		category, err := s.catStore.GetOrCreate(ctx, userID, categoryName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}

		batch = append(batch, &models.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			Description: sanitizeUTF8(description),
			Amount:      amount,
			Type:        txType,
			Date:        date,
			CategoryID:  category.ID,
			CreatedAt:   now,
		})
	}

	if len(batch) > 0 {
		if err := s.txStore.CreateBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("failed to import transactions: %w", err)
		}
		s.invalidateSummaries(userID)
	}
	result.Imported = len(batch)

	return result, nil
}

func (s *FinanceService) categoryNames(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]string, error) {
	categories, err := s.catStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names, nil
}

func (s *FinanceService) invalidateSummaries(userID uuid.UUID) {
	if s.summary != nil {
		s.summary.InvalidateOwner(userID.String())
	}
}

func (s *FinanceService) toResponse(tx *models.Transaction, categoryName string) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:          tx.ID.String(),
		Description: tx.Description,
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		Category:    categoryName,
		Date:        tx.Date.Format("2006-01-02"),
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}

// periodSince maps a period tag to its lower date bound; nil means all.
func periodSince(period string, now time.Time) *time.Time {
	var since time.Time
	switch period {
	case "hoje":
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "semana":
		since = now.AddDate(0, 0, -7)
	case "mes", "mês":
		since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return nil
	}
	return &since
}

func parseFlexibleDate(raw string, loc *time.Location) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "02/01/2006", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseAmount(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("valor inválido: %q", raw)
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

func isHeaderRow(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "descricao")
}

// stripBOM removes a leading UTF-8 byte order mark, common in files
// exported from spreadsheet apps.
func stripBOM(r io.Reader) io.Reader {
	buffered := make([]byte, 3)
	n, _ := io.ReadFull(r, buffered)
	if n == 3 && buffered[0] == 0xEF && buffered[1] == 0xBB && buffered[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buffered[:n])), r)
}
