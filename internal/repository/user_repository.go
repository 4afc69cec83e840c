package repository

import (
	"context"

	"ion-assistant/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = "id, nome, email, telefone, status, avatar_url, senha, created_at, updated_at"

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := squirrel.Insert("usuarios").
		Columns("id", "nome", "email", "telefone", "status", "avatar_url", "senha", "created_at", "updated_at").
		Values(user.ID, user.Name, user.Email, user.Phone, user.Status, user.AvatarURL, user.Password, user.CreatedAt, user.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := squirrel.Select(userColumns).
		From("usuarios").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.scanOne(ctx, sql, args)
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	query := squirrel.Select(userColumns).
		From("usuarios").
		Where(squirrel.Eq{"telefone": phone}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.scanOne(ctx, sql, args)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := squirrel.Update("usuarios").
		Set("nome", user.Name).
		Set("email", user.Email).
		Set("avatar_url", user.AvatarURL).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *UserRepository) scanOne(ctx context.Context, sql string, args []interface{}) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.Status,
		&user.AvatarURL, &user.Password, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
