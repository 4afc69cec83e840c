package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPendente  TaskStatus = "pendente"
	TaskConcluido TaskStatus = "concluido"
)

// CompletedTaskTTL is how long a finished task stays visible before the
// maintenance sweep purges it.
const CompletedTaskTTL = 24 * time.Hour

type Task struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"usuario_id"`
	Title       string     `db:"titulo"`
	Category    string     `db:"categoria"`
	Status      TaskStatus `db:"status"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
