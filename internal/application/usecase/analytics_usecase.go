package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// AnalyticsUseCase arma el resumen operativo de la empresa: tareas por estado, embudo
// comercial, gastos del período y cartera.
type AnalyticsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	authz         ports.Authorizer
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(analyticsRepo repository.AnalyticsRepository, authz ports.Authorizer) *AnalyticsUseCase {
	return &AnalyticsUseCase{analyticsRepo: analyticsRepo, authz: authz}
}

// Summary ejecuta las consultas en paralelo; si una falla se cancela el resto.
func (uc *AnalyticsUseCase) Summary(ctx context.Context, actor entity.Actor, req dto.SummaryRequest) (*dto.SummaryResponse, error) {
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceAnalytics, entity.ActionRead, ""); err != nil {
		return nil, err
	}
	startDate, endDate, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var (
		tasks       []repository.StatusCount
		leads       []repository.StatusCount
		expenses    map[string]decimal.Decimal
		receivables *repository.ReceivablesResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tasks, err = uc.analyticsRepo.CountTasksByStatus(gctx, actor.CompanyID)
		if err != nil {
			return fmt.Errorf("analytics: tareas: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		leads, err = uc.analyticsRepo.CountLeadsByStage(gctx, actor.CompanyID)
		if err != nil {
			return fmt.Errorf("analytics: leads: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		expenses, err = uc.analyticsRepo.SumExpensesByStatus(gctx, actor.CompanyID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("analytics: gastos: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		receivables, err = uc.analyticsRepo.GetReceivables(gctx, actor.CompanyID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("analytics: cartera: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.SummaryResponse{
		StartDate:       startDate,
		EndDate:         endDate,
		TasksByStatus:   countsToMap(tasks),
		LeadsByStage:    countsToMap(leads),
		ExpensesByState: make(map[string]decimal.Decimal, len(expenses)),
		WinRate:         winRate(leads),
	}
	for k, v := range expenses {
		out.ExpensesByState[k] = v.Round(2)
	}
	if receivables != nil {
		out.Receivables = dto.ReceivablesSummary{
			InvoiceCount: receivables.InvoiceCount,
			Invoiced:     receivables.Invoiced.Round(2),
			Collected:    receivables.Collected.Round(2),
			Outstanding:  receivables.Outstanding.Round(2),
			Overdue:      receivables.Overdue.Round(2),
		}
	}
	return out, nil
}

func countsToMap(rows []repository.StatusCount) map[string]int {
	m := make(map[string]int, len(rows))
	for _, r := range rows {
		m[r.Status] += r.Count
	}
	return m
}

// winRate porcentaje de leads ganados sobre los cerrados (WON + LOST).
func winRate(leads []repository.StatusCount) decimal.Decimal {
	m := countsToMap(leads)
	won := m[string(entity.LeadStageWon)]
	closed := won + m[string(entity.LeadStageLost)]
	if closed == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(won)).Div(decimal.NewFromInt(int64(closed))).Mul(hundred).Round(2)
}

// parsePeriod convierte los strings de fecha en time.Time; aplica valores por defecto si están vacíos.
func parsePeriod(startStr, endStr string) (start, end time.Time, err error) {
	now := time.Now()

	if endStr == "" {
		end = now
	} else {
		end, err = time.ParseInLocation(time.DateOnly, endStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date inválido", domain.ErrInvalidInput)
		}
		end = end.Add(24*time.Hour - time.Second) // inclusive hasta el final del día
	}

	if startStr == "" {
		// Primer día del mes actual
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		start, err = time.ParseInLocation(time.DateOnly, startStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date inválido", domain.ErrInvalidInput)
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date no puede ser posterior a end_date", domain.ErrInvalidInput)
	}
	return start, end, nil
}
