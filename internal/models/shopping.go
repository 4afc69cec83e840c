package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ShoppingStatus string

const (
	ItemPendente ShoppingStatus = "pendente"
	ItemComprado ShoppingStatus = "comprado"
)

// Named shopping lists have no table of their own: a list exists as long as
// at least one row carries its selecao, and an empty list is represented by
// a placeholder item. Deleting the placeholder while the list still has real
// items is a known quirk of the source schema, preserved here.
const (
	listPlaceholderPrefix = "__LISTA_PLACEHOLDER_"
	listPlaceholderSuffix = "__"
)

func ListPlaceholderName(list string) string {
	return listPlaceholderPrefix + list + listPlaceholderSuffix
}

func IsListPlaceholder(itemName string) bool {
	return strings.HasPrefix(itemName, listPlaceholderPrefix) &&
		strings.HasSuffix(itemName, listPlaceholderSuffix)
}

type ShoppingItem struct {
	ID        uuid.UUID      `db:"id"`
	UserID    uuid.UUID      `db:"usuario_id"`
	Name      string         `db:"nome"`
	Category  string         `db:"categoria"`
	Status    ShoppingStatus `db:"status"`
	Selecao   string         `db:"selecao"`
	CreatedAt time.Time      `db:"created_at"`
}
