package models

import (
	"time"

	"github.com/google/uuid"
)

type Recurrence string

const (
	RecorrenciaUnico   Recurrence = "Unico"
	RecorrenciaDiario  Recurrence = "Diario"
	RecorrenciaSemanal Recurrence = "Semanal"
	RecorrenciaMensal  Recurrence = "Mensal"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecorrenciaUnico, RecorrenciaDiario, RecorrenciaSemanal, RecorrenciaMensal:
		return true
	}
	return false
}

// MinReminderLead is the minimum distance into the future a reminder may be
// scheduled at, enforced at every resolution tier.
const MinReminderLead = 15 * time.Minute

type Reminder struct {
	ID         uuid.UUID  `db:"id"`
	UserID     uuid.UUID  `db:"usuario_id"`
	Title      string     `db:"titulo"`
	RemindAt   time.Time  `db:"data_para_lembrar"`
	Recurrence Recurrence `db:"recorrencia"`
	Phone      string     `db:"telefone"`
	CreatedAt  time.Time  `db:"created_at"`
}
