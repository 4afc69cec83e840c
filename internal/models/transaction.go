package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeEntrada TransactionType = "entrada"
	TypeSaida   TransactionType = "saida"
)

func (t TransactionType) Valid() bool {
	return t == TypeEntrada || t == TypeSaida
}

type Transaction struct {
	ID          uuid.UUID       `db:"id"`
	UserID      uuid.UUID       `db:"usuario_id"`
	Description string          `db:"descricao"`
	Amount      float64         `db:"valor"`
	Type        TransactionType `db:"tipo"`
	Date        time.Time       `db:"data"`
	CategoryID  uuid.UUID       `db:"categoria_id"`
	CreatedAt   time.Time       `db:"created_at"`
}

// Category is a user-scoped transaction label, created lazily whenever a
// transaction names one that does not exist yet for that user.
type Category struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"usuario_id"`
	Name      string    `db:"nome"`
	CreatedAt time.Time `db:"created_at"`
}
