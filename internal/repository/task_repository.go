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

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

const taskColumns = "id, usuario_id, titulo, categoria, status, completed_at, created_at, updated_at"

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := squirrel.Insert("to_do").
		Columns("id", "usuario_id", "titulo", "categoria", "status", "completed_at", "created_at", "updated_at").
		Values(task.ID, task.UserID, task.Title, task.Category, task.Status, task.CompletedAt, task.CreatedAt, task.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	query := squirrel.Select(taskColumns).
		From("to_do").
		Where(squirrel.Eq{"usuario_id": userID}).
		OrderBy("created_at DESC").
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

	var tasks []*models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Title, &task.Category, &task.Status,
			&task.CompletedAt, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, &task)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) SetStatus(ctx context.Context, userID, id uuid.UUID, status models.TaskStatus, completedAt *time.Time) error {
	query := squirrel.Update("to_do").
		Set("status", status).
		Set("completed_at", completedAt).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "usuario_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("to_do").
		Where(squirrel.Eq{"id": id, "usuario_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// PurgeCompletedBefore removes completed tasks older than the cutoff across
// all users. Called by the maintenance sweep, never by read paths.
func (r *TaskRepository) PurgeCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := squirrel.Delete("to_do").
		Where(squirrel.Eq{"status": models.TaskConcluido}).
		Where(squirrel.Lt{"completed_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
