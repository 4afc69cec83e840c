package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"nome"`
	Email     string    `db:"email"`
	Phone     string    `db:"telefone"`
	Status    string    `db:"status"`
	AvatarURL string    `db:"avatar_url"`
	Password  string    `db:"senha"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
