package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseRequest body para POST /api/expenses.
type CreateExpenseRequest struct {
	ProjectID   string          `json:"project_id,omitempty"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	SpentAt     *time.Time      `json:"spent_at,omitempty"`
}

// ReviewExpenseRequest body para PUT /api/expenses/:id/review. Status: APPROVED | REJECTED.
type ReviewExpenseRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// ExpenseListRequest filtros de GET /api/expenses.
type ExpenseListRequest struct {
	PageRequest
	CreatedBy string `query:"created_by"`
	Status    string `query:"status"`
}

// ExpenseResponse gasto en respuestas.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id,omitempty"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	CreatedBy   string          `json:"created_by"`
	ReviewedBy  string          `json:"reviewed_by,omitempty"`
	ReviewNote  string          `json:"review_note,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	SpentAt     time.Time       `json:"spent_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpenseListResponse lista paginada de gastos.
type ExpenseListResponse struct {
	Items []ExpenseResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
