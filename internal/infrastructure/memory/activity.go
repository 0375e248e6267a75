package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

type auditRepo struct{ s *Store }

func (r auditRepo) Append(ctx context.Context, entry *entity.AuditEntry) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, *entry)
	return nil
}

func (r auditRepo) ListByEntity(ctx context.Context, companyID, entityType, entityID string) ([]*entity.AuditEntry, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.AuditEntry, 0)
	for _, e := range r.s.audit {
		if e.CompanyID == companyID && e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, &e)
		}
	}
	return out, nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r notificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	list := make([]entity.Notification, 0)
	for _, n := range r.s.notifications {
		if n.TargetUserID == userID && (!unreadOnly || !n.Read) {
			list = append(list, n)
		}
	}
	r.s.mu.RUnlock()
	newestFirst(list, func(n entity.Notification) (time.Time, string) { return n.CreatedAt, n.ID })
	out := make([]*entity.Notification, 0, len(list))
	for _, n := range page(list, limit, offset) {
		out = append(out, &n)
	}
	return out, nil
}

func (r notificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.TargetUserID != userID {
		return domain.ErrNotFound
	}
	n.Read = true
	r.s.notifications[id] = n
	return nil
}

type analyticsRepo struct{ s *Store }

func (r analyticsRepo) CountTasksByStatus(ctx context.Context, companyID string) ([]repository.StatusCount, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int{}
	for _, t := range r.s.tasks {
		if t.CompanyID == companyID {
			counts[string(t.Status)]++
		}
	}
	return toStatusCounts(counts), nil
}

func (r analyticsRepo) CountLeadsByStage(ctx context.Context, companyID string) ([]repository.StatusCount, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int{}
	for _, l := range r.s.leads {
		if l.CompanyID == companyID {
			counts[string(l.Stage)]++
		}
	}
	return toStatusCounts(counts), nil
}

func (r analyticsRepo) SumExpensesByStatus(ctx context.Context, companyID string, startDate, endDate time.Time) (map[string]decimal.Decimal, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[string]decimal.Decimal{}
	for _, e := range r.s.expenses {
		if e.CompanyID != companyID || e.SpentAt.Before(startDate) || !e.SpentAt.Before(endDate) {
			continue
		}
		out[string(e.Status)] = out[string(e.Status)].Add(e.Amount)
	}
	return out, nil
}

func (r analyticsRepo) GetReceivables(ctx context.Context, companyID string, startDate, endDate time.Time) (*repository.ReceivablesResult, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := &repository.ReceivablesResult{
		Invoiced:    decimal.Zero,
		Collected:   decimal.Zero,
		Outstanding: decimal.Zero,
		Overdue:     decimal.Zero,
	}
	for _, inv := range r.s.invoices {
		if inv.CompanyID != companyID || inv.Status == entity.InvoiceStatusCancelled ||
			inv.IssueDate.Before(startDate) || !inv.IssueDate.Before(endDate) {
			continue
		}
		res.InvoiceCount++
		res.Invoiced = res.Invoiced.Add(inv.Total)
		res.Collected = res.Collected.Add(inv.PaidAmount)
		res.Outstanding = res.Outstanding.Add(inv.Balance)
		if inv.Status == entity.InvoiceStatusOverdue {
			res.Overdue = res.Overdue.Add(inv.Balance)
		}
	}
	return res, nil
}

func toStatusCounts(m map[string]int) []repository.StatusCount {
	out := make([]repository.StatusCount, 0, len(m))
	for s, n := range m {
		out = append(out, repository.StatusCount{Status: s, Count: n})
	}
	return out
}
