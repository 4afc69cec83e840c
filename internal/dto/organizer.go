package dto

type CreateTaskRequest struct {
	Title    string `json:"title" validate:"required"`
	Category string `json:"category"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pendente concluido"`
}

type TaskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	CompletedAt string `json:"completed_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type CreateReminderRequest struct {
	Title      string `json:"title" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Recurrence string `json:"recurrence"`
	Phone      string `json:"phone"`
}

type ReminderResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	RemindAt   string `json:"remind_at"`
	Recurrence string `json:"recurrence"`
	Phone      string `json:"phone,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type CreateShoppingItemRequest struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
	List     string `json:"list"`
}

type UpdateShoppingItemRequest struct {
	Status string `json:"status" validate:"required,oneof=pendente comprado"`
}

type ShoppingItemResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Status    string `json:"status"`
	List      string `json:"list,omitempty"`
	CreatedAt string `json:"created_at"`
}

type CreateListRequest struct {
	Name string `json:"name" validate:"required"`
}

type CreateSavingsBoxRequest struct {
	Name     string  `json:"name" validate:"required"`
	Goal     float64 `json:"goal" validate:"required,gt=0"`
	Deadline string  `json:"deadline"`
	Category string  `json:"category"`
}

type DepositRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type SavingsBoxResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Goal        float64 `json:"goal"`
	Accumulated float64 `json:"accumulated"`
	LastDeposit float64 `json:"last_deposit,omitempty"`
	Deadline    string  `json:"deadline,omitempty"`
	Category    string  `json:"category"`
	Progress    float64 `json:"progress"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at"`
}
