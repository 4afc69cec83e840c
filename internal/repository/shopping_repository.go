package repository

import (
	"context"

	"ion-assistant/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ShoppingRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewShoppingRepository(db *pgxpool.Pool, logger *zap.Logger) *ShoppingRepository {
	return &ShoppingRepository{
		db:     db,
		logger: logger,
	}
}

const shoppingColumns = "id, usuario_id, nome, categoria, status, selecao, created_at"

func (r *ShoppingRepository) Create(ctx context.Context, item *models.ShoppingItem) error {
	query := squirrel.Insert("lista_de_compras").
		Columns("id", "usuario_id", "nome", "categoria", "status", "selecao", "created_at").
		Values(item.ID, item.UserID, item.Name, item.Category, item.Status, item.Selecao, item.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListByUser returns the user's items, optionally filtered to one selecao.
func (r *ShoppingRepository) ListByUser(ctx context.Context, userID uuid.UUID, selecao string) ([]*models.ShoppingItem, error) {
	query := squirrel.Select(shoppingColumns).
		From("lista_de_compras").
		Where(squirrel.Eq{"usuario_id": userID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if selecao != "" {
		query = query.Where(squirrel.Eq{"selecao": selecao})
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

	var items []*models.ShoppingItem
	for rows.Next() {
		var item models.ShoppingItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Name, &item.Category,
			&item.Status, &item.Selecao, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

// ListNames returns the distinct non-empty selecao values a user owns.
// A list's existence is carried by its rows, placeholder included.
func (r *ShoppingRepository) ListNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := squirrel.Select("DISTINCT selecao").
		From("lista_de_compras").
		Where(squirrel.Eq{"usuario_id": userID}).
		Where(squirrel.NotEq{"selecao": ""}).
		OrderBy("selecao ASC").
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

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func (r *ShoppingRepository) SetStatus(ctx context.Context, userID, id uuid.UUID, status models.ShoppingStatus) error {
	query := squirrel.Update("lista_de_compras").
		Set("status", status).
		Where(squirrel.Eq{"id": id, "usuario_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ShoppingRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("lista_de_compras").
		Where(squirrel.Eq{"id": id, "usuario_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
