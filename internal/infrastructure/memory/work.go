package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

type taskRepo struct{ s *Store }

func (r taskRepo) Create(ctx context.Context, task *entity.Task) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[task.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.tasks[task.ID] = *task
	return nil
}

func (r taskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r taskRepo) ListByCompany(ctx context.Context, companyID string, f repository.TaskFilter) ([]*entity.Task, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	list := make([]entity.Task, 0)
	for _, t := range r.s.tasks {
		if t.CompanyID != companyID ||
			(f.ProjectID != "" && t.ProjectID != f.ProjectID) ||
			(f.AssigneeID != "" && t.AssigneeID != f.AssigneeID) ||
			(f.Status != "" && t.Status != f.Status) {
			continue
		}
		list = append(list, t)
	}
	r.s.mu.RUnlock()
	newestFirst(list, func(t entity.Task) (time.Time, string) { return t.CreatedAt, t.ID })
	out := make([]*entity.Task, 0, len(list))
	for _, t := range page(list, f.Limit, f.Offset) {
		out = append(out, &t)
	}
	return out, nil
}

func (r taskRepo) UpdateStatus(ctx context.Context, id, companyID string, from, to entity.TaskStatus, at time.Time) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok || t.CompanyID != companyID || t.Status != from {
		return &domain.ConflictError{Entity: "task", ID: id}
	}
	t.Status = to
	t.UpdatedAt = at
	if to == entity.TaskStatusCompleted {
		t.CompletedAt = &at
	}
	r.s.tasks[id] = t
	return nil
}

type expenseRepo struct{ s *Store }

func (r expenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[e.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.expenses[e.ID] = *e
	return nil
}

func (r expenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r expenseRepo) ListByCompany(ctx context.Context, companyID string, f repository.ExpenseFilter) ([]*entity.Expense, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	list := make([]entity.Expense, 0)
	for _, e := range r.s.expenses {
		if e.CompanyID != companyID ||
			(f.CreatedBy != "" && e.CreatedBy != f.CreatedBy) ||
			(f.Status != "" && e.Status != f.Status) {
			continue
		}
		list = append(list, e)
	}
	r.s.mu.RUnlock()
	newestFirst(list, func(e entity.Expense) (time.Time, string) { return e.CreatedAt, e.ID })
	out := make([]*entity.Expense, 0, len(list))
	for _, e := range page(list, f.Limit, f.Offset) {
		out = append(out, &e)
	}
	return out, nil
}

func (r expenseRepo) Review(ctx context.Context, e *entity.Expense, from entity.ExpenseStatus) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.expenses[e.ID]
	if !ok || cur.CompanyID != e.CompanyID || cur.Status != from {
		return &domain.ConflictError{Entity: "expense", ID: e.ID}
	}
	cur.Status = e.Status
	cur.ReviewedBy = e.ReviewedBy
	cur.ReviewNote = e.ReviewNote
	cur.ReviewedAt = e.ReviewedAt
	cur.UpdatedAt = e.UpdatedAt
	r.s.expenses[e.ID] = cur
	return nil
}

func (r expenseRepo) Delete(ctx context.Context, id, companyID string, expected entity.ExpenseStatus) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.expenses[id]
	if !ok || cur.CompanyID != companyID || cur.Status != expected {
		return &domain.ConflictError{Entity: "expense", ID: id}
	}
	delete(r.s.expenses, id)
	return nil
}

type leadRepo struct{ s *Store }

func (r leadRepo) Create(ctx context.Context, l *entity.Lead) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leads[l.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.leads[l.ID] = *l
	return nil
}

func (r leadRepo) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.leads[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r leadRepo) ListByCompany(ctx context.Context, companyID string, f repository.LeadFilter) ([]*entity.Lead, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	list := make([]entity.Lead, 0)
	for _, l := range r.s.leads {
		if l.CompanyID != companyID ||
			(f.OwnerID != "" && l.OwnerID != f.OwnerID) ||
			(f.Stage != "" && l.Stage != f.Stage) {
			continue
		}
		list = append(list, l)
	}
	r.s.mu.RUnlock()
	newestFirst(list, func(l entity.Lead) (time.Time, string) { return l.CreatedAt, l.ID })
	out := make([]*entity.Lead, 0, len(list))
	for _, l := range page(list, f.Limit, f.Offset) {
		out = append(out, &l)
	}
	return out, nil
}

func (r leadRepo) UpdateStage(ctx context.Context, l *entity.Lead, from entity.LeadStage) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.leads[l.ID]
	if !ok || cur.CompanyID != l.CompanyID || cur.Stage != from {
		return &domain.ConflictError{Entity: "lead", ID: l.ID}
	}
	cur.Stage = l.Stage
	cur.LostReason = l.LostReason
	cur.UpdatedAt = l.UpdatedAt
	r.s.leads[l.ID] = cur
	return nil
}
