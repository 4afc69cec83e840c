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

type SavingsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSavingsRepository(db *pgxpool.Pool, logger *zap.Logger) *SavingsRepository {
	return &SavingsRepository{
		db:     db,
		logger: logger,
	}
}

const savingsColumns = "id, usuario_id, nome, meta, acumulado, ultimo_deposito, prazo, categoria, created_at, updated_at"

func (r *SavingsRepository) Create(ctx context.Context, box *models.SavingsBox) error {
	query := squirrel.Insert("caixinha").
		Columns("id", "usuario_id", "nome", "meta", "acumulado", "ultimo_deposito", "prazo", "categoria", "created_at", "updated_at").
		Values(box.ID, box.UserID, box.Name, box.GoalAmount, box.Accumulated, box.LastDeposit, box.Deadline, box.Category, box.CreatedAt, box.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *SavingsRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.SavingsBox, error) {
	query := squirrel.Select(savingsColumns).
		From("caixinha").
		Where(squirrel.Eq{"id": id, "usuario_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var box models.SavingsBox
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&box.ID, &box.UserID, &box.Name, &box.GoalAmount, &box.Accumulated,
		&box.LastDeposit, &box.Deadline, &box.Category, &box.CreatedAt, &box.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &box, nil
}

func (r *SavingsRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SavingsBox, error) {
	query := squirrel.Select(savingsColumns).
		From("caixinha").
		Where(squirrel.Eq{"usuario_id": userID}).
		OrderBy("created_at ASC").
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

	var boxes []*models.SavingsBox
	for rows.Next() {
		var box models.SavingsBox
		if err := rows.Scan(
			&box.ID, &box.UserID, &box.Name, &box.GoalAmount, &box.Accumulated,
			&box.LastDeposit, &box.Deadline, &box.Category, &box.CreatedAt, &box.UpdatedAt,
		); err != nil {
			return nil, err
		}
		boxes = append(boxes, &box)
	}

	return boxes, rows.Err()
}

// Deposit adds amount to the accumulated total in a single statement, so
// concurrent deposits never lose an increment. Returns the updated box.
func (r *SavingsRepository) Deposit(ctx context.Context, userID, id uuid.UUID, amount float64) (*models.SavingsBox, error) {
	query := squirrel.Update("caixinha").
		Set("acumulado", squirrel.Expr("acumulado + ?", amount)).
		Set("ultimo_deposito", amount).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "usuario_id": userID}).
		Suffix("RETURNING " + savingsColumns).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var box models.SavingsBox
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&box.ID, &box.UserID, &box.Name, &box.GoalAmount, &box.Accumulated,
		&box.LastDeposit, &box.Deadline, &box.Category, &box.CreatedAt, &box.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &box, nil
}
