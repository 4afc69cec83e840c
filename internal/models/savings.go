package models

import (
	"time"

	"github.com/google/uuid"
)

// SavingsBox is the "caixinha": a named savings goal whose accumulated
// amount only ever grows through deposits.
type SavingsBox struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"usuario_id"`
	Name        string     `db:"nome"`
	GoalAmount  float64    `db:"meta"`
	Accumulated float64    `db:"acumulado"`
	LastDeposit *float64   `db:"ultimo_deposito"`
	Deadline    *time.Time `db:"prazo"`
	Category    string     `db:"categoria"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Completed is derived, never stored.
func (b *SavingsBox) Completed() bool {
	return b.Accumulated >= b.GoalAmount
}

// Progress reports the goal fraction reached, capped at 1.
func (b *SavingsBox) Progress() float64 {
	if b.GoalAmount <= 0 {
		return 1
	}
	p := b.Accumulated / b.GoalAmount
	if p > 1 {
		return 1
	}
	return p
}
