package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// journal guarda los valores previos de lo que toca una transacción para poder revertirla.
type journal struct {
	invoices map[string]*entity.Invoice // nil = no existía
	payments []string
}

// invoiceRepo: con j == nil cada escritura toma txMu (como un UPDATE fuera de
// transacción esperaría el bloqueo de fila); con j != nil el runner ya lo tiene.
type invoiceRepo struct {
	s *Store
	j *journal
}

func (r invoiceRepo) lock() func() {
	if r.j != nil {
		return func() {}
	}
	r.s.txMu.Lock()
	return r.s.txMu.Unlock
}

// remember registra el valor previo de la factura; debe llamarse con mu tomado.
func (r invoiceRepo) remember(id string) {
	if r.j == nil {
		return
	}
	if _, seen := r.j.invoices[id]; seen {
		return
	}
	if prev, ok := r.s.invoices[id]; ok {
		r.j.invoices[id] = &prev
		return
	}
	r.j.invoices[id] = nil
}

func (r invoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	defer r.lock()()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.invoices {
		if cur.ID == inv.ID || (cur.CompanyID == inv.CompanyID && cur.Number == inv.Number) {
			return domain.ErrDuplicate
		}
	}
	r.remember(inv.ID)
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r invoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r invoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r invoiceRepo) ListByCompany(ctx context.Context, companyID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	list := make([]entity.Invoice, 0)
	for _, inv := range r.s.invoices {
		if inv.CompanyID != companyID || (f.Status != "" && inv.Status != f.Status) {
			continue
		}
		list = append(list, inv)
	}
	r.s.mu.RUnlock()
	newestFirst(list, func(inv entity.Invoice) (time.Time, string) { return inv.CreatedAt, inv.ID })
	out := make([]*entity.Invoice, 0, len(list))
	for _, inv := range page(list, f.Limit, f.Offset) {
		out = append(out, &inv)
	}
	return out, nil
}

func (r invoiceRepo) ListPastDue(ctx context.Context, asOf time.Time, limit int) ([]*entity.Invoice, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	list := make([]entity.Invoice, 0)
	for _, inv := range r.s.invoices {
		if (inv.Status == entity.InvoiceStatusSent || inv.Status == entity.InvoiceStatusPartial) && inv.DueDate.Before(asOf) {
			list = append(list, inv)
		}
	}
	r.s.mu.RUnlock()
	newestFirst(list, func(inv entity.Invoice) (time.Time, string) { return inv.CreatedAt, inv.ID })
	out := make([]*entity.Invoice, 0, len(list))
	for _, inv := range page(list, limit, 0) {
		out = append(out, &inv)
	}
	return out, nil
}

func (r invoiceRepo) UpdateBalance(ctx context.Context, inv *entity.Invoice, prevPaid decimal.Decimal) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	defer r.lock()()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.invoices[inv.ID]
	if !ok || !cur.PaidAmount.Equal(prevPaid) {
		return &domain.ConflictError{Entity: "invoice", ID: inv.ID}
	}
	r.remember(inv.ID)
	cur.PaidAmount = inv.PaidAmount
	cur.Balance = inv.Balance
	cur.Status = inv.Status
	cur.UpdatedAt = inv.UpdatedAt
	r.s.invoices[inv.ID] = cur
	return nil
}

func (r invoiceRepo) UpdateStatus(ctx context.Context, id, companyID string, from, to entity.InvoiceStatus, at time.Time) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	defer r.lock()()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.invoices[id]
	if !ok || cur.CompanyID != companyID || cur.Status != from {
		return &domain.ConflictError{Entity: "invoice", ID: id}
	}
	r.remember(id)
	cur.Status = to
	cur.UpdatedAt = at
	r.s.invoices[id] = cur
	return nil
}

type paymentRepo struct {
	s *Store
	j *journal
}

func (r paymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[p.ID]; ok {
		return domain.ErrDuplicate
	}
	if !p.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	r.s.payments[p.ID] = *p
	if r.j != nil {
		r.j.payments = append(r.j.payments, p.ID)
	}
	return nil
}

func (r paymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	list := make([]entity.Payment, 0)
	for _, p := range r.s.payments {
		if p.InvoiceID == invoiceID {
			list = append(list, p)
		}
	}
	r.s.mu.RUnlock()
	newestFirst(list, func(p entity.Payment) (time.Time, string) { return p.CreatedAt, p.ID })
	out := make([]*entity.Payment, 0, len(list))
	for _, p := range list {
		out = append(out, &p)
	}
	return out, nil
}

// LedgerTxRunner ejecuta fn de forma serializada; si fn falla se revierten sus escrituras.
type LedgerTxRunner struct{ s *Store }

// LedgerTx devuelve el runner de transacciones de facturación del store.
func (s *Store) LedgerTx() *LedgerTxRunner { return &LedgerTxRunner{s: s} }

// RunLedger implementa billing.LedgerTxRunner.
func (t *LedgerTxRunner) RunLedger(ctx context.Context, fn func(repository.InvoiceRepository, repository.PaymentRepository) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	j := &journal{invoices: make(map[string]*entity.Invoice)}
	if err := fn(invoiceRepo{s: t.s, j: j}, paymentRepo{s: t.s, j: j}); err != nil {
		t.rollback(j)
		return err
	}
	return nil
}

func (t *LedgerTxRunner) rollback(j *journal) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, prev := range j.invoices {
		if prev == nil {
			delete(t.s.invoices, id)
			continue
		}
		t.s.invoices[id] = *prev
	}
	for _, id := range j.payments {
		delete(t.s.payments, id)
	}
}
