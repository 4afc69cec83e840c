package repository

import (
	"context"
	"errors"
	"time"

	"ion-assistant/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

// GetOrCreate resolves a category id for (user, name), creating the row if
// it does not exist. Safe under concurrent callers: the insert is
// conflict-tolerant and the lookup is retried, so two racing calls converge
// on the same id.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	cat, err := r.getByName(ctx, userID, name)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	insert := squirrel.Insert("categoria_trasacoes").
		Columns("id", "usuario_id", "nome", "created_at").
		Values(uuid.New(), userID, name, time.Now()).
		Suffix("ON CONFLICT (usuario_id, nome) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := insert.ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return nil, err
	}

	return r.getByName(ctx, userID, name)
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Category, error) {
	query := squirrel.Select("id", "usuario_id", "nome", "created_at").
		From("categoria_trasacoes").
		Where(squirrel.Eq{"usuario_id": userID}).
		OrderBy("nome ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &cat)
	}

	return categories, rows.Err()
}

func (r *CategoryRepository) getByName(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	query := squirrel.Select("id", "usuario_id", "nome", "created_at").
		From("categoria_trasacoes").
		Where(squirrel.Eq{"usuario_id": userID, "nome": name}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var cat models.Category
	err = r.db.QueryRow(ctx, sql, args...).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &cat, nil
}
