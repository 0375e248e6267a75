package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryRequest período del resumen (YYYY-MM-DD). Sin inicio = primer día del mes; sin fin = hoy.
type SummaryRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// ReceivablesSummary cartera de la empresa.
type ReceivablesSummary struct {
	InvoiceCount int             `json:"invoice_count"`
	Invoiced     decimal.Decimal `json:"invoiced"`
	Collected    decimal.Decimal `json:"collected"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	Overdue      decimal.Decimal `json:"overdue"`
}

// SummaryResponse resumen operativo para GET /api/analytics/summary.
type SummaryResponse struct {
	StartDate       time.Time                  `json:"start_date"`
	EndDate         time.Time                  `json:"end_date"`
	TasksByStatus   map[string]int             `json:"tasks_by_status"`
	LeadsByStage    map[string]int             `json:"leads_by_stage"`
	ExpensesByState map[string]decimal.Decimal `json:"expenses_by_status"`
	Receivables     ReceivablesSummary         `json:"receivables"`
	WinRate         decimal.Decimal            `json:"win_rate"`
}
