package repository

import (
	"context"
	"time"

	"ion-assistant/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

const transactionColumns = "id, usuario_id, descricao, valor, tipo, data, categoria_id, created_at"

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transacoes").
		Columns("id", "usuario_id", "descricao", "valor", "tipo", "data", "categoria_id", "created_at").
		Values(tx.ID, tx.UserID, tx.Description, tx.Amount, tx.Type, tx.Date, tx.CategoryID, tx.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) CreateBatch(ctx context.Context, transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	builder := squirrel.Insert("transacoes").
		Columns("id", "usuario_id", "descricao", "valor", "tipo", "data", "categoria_id", "created_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, tx := range transactions {
		builder = builder.Values(tx.ID, tx.UserID, tx.Description, tx.Amount, tx.Type, tx.Date, tx.CategoryID, tx.CreatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListByUser returns the user's transactions newest first, optionally
// bounded to dates at or after since.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, since *time.Time) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns).
		From("transacoes").
		Where(squirrel.Eq{"usuario_id": userID}).
		OrderBy("data DESC").
		PlaceholderFormat(squirrel.Dollar)

	if since != nil {
		query = query.Where(squirrel.GtOrEq{"data": *since})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Description, &tx.Amount, &tx.Type,
			&tx.Date, &tx.CategoryID, &tx.CreatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("transacoes").
		Where(squirrel.Eq{"id": id, "usuario_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
