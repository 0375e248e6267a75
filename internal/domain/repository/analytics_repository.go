package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusCount cantidad de registros en un estado.
type StatusCount struct {
	Status string
	Count  int
}

// ReceivablesResult agregado de cartera (facturas no anuladas) en un período.
type ReceivablesResult struct {
	InvoiceCount int
	Invoiced     decimal.Decimal // suma de total
	Collected    decimal.Decimal // suma de paid_amount
	Outstanding  decimal.Decimal // suma de balance
	Overdue      decimal.Decimal // suma de balance en facturas OVERDUE
}

// AnalyticsRepository consultas de solo lectura para el tablero de la empresa.
type AnalyticsRepository interface {
	// CountTasksByStatus agrupa las tareas de la empresa por estado.
	CountTasksByStatus(ctx context.Context, companyID string) ([]StatusCount, error)
	// CountLeadsByStage agrupa los leads de la empresa por etapa.
	CountLeadsByStage(ctx context.Context, companyID string) ([]StatusCount, error)
	// SumExpensesByStatus suma los gastos del período agrupados por estado.
	SumExpensesByStatus(ctx context.Context, companyID string, startDate, endDate time.Time) (map[string]decimal.Decimal, error)
	// GetReceivables devuelve la cartera de facturas emitidas en el período.
	// Usa COALESCE para devolver cero si no hay facturas.
	GetReceivables(ctx context.Context, companyID string, startDate, endDate time.Time) (*ReceivablesResult, error)
}
