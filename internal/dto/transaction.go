package dto

type CreateTransactionRequest struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Type        string  `json:"type" validate:"omitempty,oneof=entrada saida"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

type TransactionResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
}

type TransactionSummaryResponse struct {
	Period     string             `json:"period"`
	Income     float64            `json:"income"`
	Expense    float64            `json:"expense"`
	Balance    float64            `json:"balance"`
	ByCategory map[string]float64 `json:"by_category"`
	Count      int                `json:"count"`
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
