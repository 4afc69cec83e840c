package service

import (
	"strings"

	"ion-assistant/internal/models"
)

// Keyword tables for filling in omitted transaction fields. Matching is
// case-insensitive on the description; the first hit wins.

var incomeKeywords = []string{
	"salario", "salário", "recebi", "recebimento", "pagamento recebido",
	"venda", "vendi", "rendimento", "freela", "freelance", "bônus", "bonus",
	"reembolso", "restituição", "restituicao", "depósito", "deposito",
}

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"Alimentação", []string{
		"almoço", "almoco", "jantar", "café", "cafe", "lanche", "restaurante",
		"mercado", "supermercado", "padaria", "pizza", "ifood", "comida", "feira",
	}},
	{"Transporte", []string{
		"uber", "99", "taxi", "táxi", "gasolina", "combustível", "combustivel",
		"ônibus", "onibus", "metrô", "metro", "estacionamento", "pedágio", "pedagio",
	}},
	{"Saúde", []string{
		"farmácia", "farmacia", "remédio", "remedio", "médico", "medico",
		"consulta", "exame", "dentista", "plano de saúde", "plano de saude",
	}},
	{"Moradia", []string{
		"aluguel", "condomínio", "condominio", "luz", "energia", "água", "agua",
		"internet", "gás", "gas", "iptu",
	}},
	{"Lazer", []string{
		"cinema", "show", "viagem", "jogo", "streaming", "netflix", "spotify",
		"bar", "festa", "passeio",
	}},
	{"Salário", []string{
		"salario", "salário",
	}},
}

const defaultCategory = "Outros"

// InferTransactionType guesses entrada/saida from the description.
// Anything that doesn't read as income is an expense.
func InferTransactionType(description string) models.TransactionType {
	lower := strings.ToLower(description)
	for _, word := range incomeKeywords {
		if strings.Contains(lower, word) {
			return models.TypeEntrada
		}
	}
	return models.TypeSaida
}

// InferCategory guesses a category name from the description, falling back
// to "Outros".
func InferCategory(description string) string {
	lower := strings.ToLower(description)
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.category
			}
		}
	}
	return defaultCategory
}
