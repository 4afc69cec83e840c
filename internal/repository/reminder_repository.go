package repository

import (
	"context"

	"ion-assistant/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ReminderRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewReminderRepository(db *pgxpool.Pool, logger *zap.Logger) *ReminderRepository {
	return &ReminderRepository{
		db:     db,
		logger: logger,
	}
}

const reminderColumns = "id, usuario_id, titulo, data_para_lembrar, recorrencia, telefone, created_at"

func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	query := squirrel.Insert("lembretes").
		Columns("id", "usuario_id", "titulo", "data_para_lembrar", "recorrencia", "telefone", "created_at").
		Values(reminder.ID, reminder.UserID, reminder.Title, reminder.RemindAt, reminder.Recurrence, reminder.Phone, reminder.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ReminderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Reminder, error) {
	query := squirrel.Select(reminderColumns).
		From("lembretes").
		Where(squirrel.Eq{"usuario_id": userID}).
		OrderBy("data_para_lembrar ASC").
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

	var reminders []*models.Reminder
	for rows.Next() {
		var reminder models.Reminder
		if err := rows.Scan(
			&reminder.ID, &reminder.UserID, &reminder.Title, &reminder.RemindAt,
			&reminder.Recurrence, &reminder.Phone, &reminder.CreatedAt,
		); err != nil {
			return nil, err
		}
		reminders = append(reminders, &reminder)
	}

	return reminders, rows.Err()
}

func (r *ReminderRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("lembretes").
		Where(squirrel.Eq{"id": id, "usuario_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
