package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus estado de un gasto.
type ExpenseStatus string

// Estados de gasto.
const (
	ExpenseStatusPending  ExpenseStatus = "PENDING"
	ExpenseStatusApproved ExpenseStatus = "APPROVED"
	ExpenseStatusRejected ExpenseStatus = "REJECTED"
)

// Expense gasto reportado por un usuario, sujeto a aprobación.
type Expense struct {
	ID          string
	CompanyID   string
	ProjectID   string
	Description string
	Category    string
	Amount      decimal.Decimal
	Status      ExpenseStatus
	CreatedBy   string
	ReviewedBy  string
	ReviewNote  string
	ReviewedAt  *time.Time
	SpentAt     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
