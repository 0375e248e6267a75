package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero de la empresa.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// CountTasksByStatus agrupa las tareas por estado.
func (r *AnalyticsRepo) CountTasksByStatus(ctx context.Context, companyID string) ([]repository.StatusCount, error) {
	return r.countBy(ctx, `SELECT status, COUNT(*) FROM tasks WHERE company_id = $1 GROUP BY status ORDER BY status`, companyID)
}

// CountLeadsByStage agrupa los leads por etapa.
func (r *AnalyticsRepo) CountLeadsByStage(ctx context.Context, companyID string) ([]repository.StatusCount, error) {
	return r.countBy(ctx, `SELECT stage, COUNT(*) FROM leads WHERE company_id = $1 GROUP BY stage ORDER BY stage`, companyID)
}

func (r *AnalyticsRepo) countBy(ctx context.Context, query, companyID string) ([]repository.StatusCount, error) {
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	out := make([]repository.StatusCount, 0)
	for rows.Next() {
		var sc repository.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// SumExpensesByStatus suma gastos con spent_at en [startDate, endDate).
func (r *AnalyticsRepo) SumExpensesByStatus(ctx context.Context, companyID string, startDate, endDate time.Time) (map[string]decimal.Decimal, error) {
	const query = `
	SELECT status, COALESCE(SUM(amount), 0)
	FROM expenses
	WHERE company_id = $1 AND spent_at >= $2 AND spent_at < $3
	GROUP BY status`
	rows, err := r.q.Query(ctx, query, companyID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}
	defer rows.Close()
	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var status string
		var total decimal.Decimal
		if err := rows.Scan(&status, &total); err != nil {
			return nil, fmt.Errorf("scan expense sum: %w", err)
		}
		out[status] = total
	}
	return out, rows.Err()
}

// GetReceivables cartera de facturas no anuladas emitidas en [startDate, endDate).
// COALESCE devuelve cero si no hay facturas.
func (r *AnalyticsRepo) GetReceivables(ctx context.Context, companyID string, startDate, endDate time.Time) (*repository.ReceivablesResult, error) {
	const query = `
	SELECT
	    COUNT(*)                                                              AS invoice_count,
	    COALESCE(SUM(total), 0)                                               AS invoiced,
	    COALESCE(SUM(paid_amount), 0)                                         AS collected,
	    COALESCE(SUM(balance), 0)                                             AS outstanding,
	    COALESCE(SUM(balance) FILTER (WHERE status = 'OVERDUE'), 0)           AS overdue
	FROM invoices
	WHERE company_id = $1
	  AND status <> 'CANCELLED'
	  AND issue_date >= $2 AND issue_date < $3`
	var res repository.ReceivablesResult
	err := r.q.QueryRow(ctx, query, companyID, startDate, endDate).Scan(
		&res.InvoiceCount, &res.Invoiced, &res.Collected, &res.Outstanding, &res.Overdue,
	)
	if err != nil {
		return nil, fmt.Errorf("get receivables: %w", err)
	}
	return &res, nil
}
