package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, company_id, customer_name, number, total, paid_amount, balance, status,
	issue_date, due_date, created_by, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.CustomerName, &inv.Number, &inv.Total, &inv.PaidAmount, &inv.Balance,
		&inv.Status, &inv.IssueDate, &inv.DueDate, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste la cabecera de la factura. El número es único por empresa.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.CustomerName, inv.Number, inv.Total, inv.PaidAmount, inv.Balance,
		inv.Status, inv.IssueDate, inv.DueDate, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de factura %s ya existe: %w", inv.Number, domain.ErrDuplicate)
		}
		if isCheckViolation(err) {
			return domain.ErrLedgerInconsistent
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate lee la factura bloqueando la fila hasta el fin de la transacción.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) get(ctx context.Context, query, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ListByCompany lista facturas de la empresa, más recientes primero.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE company_id = $1
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	return r.list(ctx, query, companyID, nullIfEmpty(string(f.Status)), limitOrAll(f.Limit), f.Offset)
}

// ListPastDue facturas SENT o PARTIAL vencidas antes de asOf (todas las empresas).
func (r *InvoiceRepo) ListPastDue(ctx context.Context, asOf time.Time, limit int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE status IN ('SENT', 'PARTIAL') AND due_date < $1
		ORDER BY due_date, id
		LIMIT $2`
	return r.list(ctx, query, asOf, limitOrAll(limit))
}

func (r *InvoiceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// UpdateBalance guarda el nuevo saldo solo si paid_amount persistido sigue siendo prevPaid.
// Los CHECK de la tabla garantizan balance = total - paid_amount y balance >= 0.
func (r *InvoiceRepo) UpdateBalance(ctx context.Context, inv *entity.Invoice, prevPaid decimal.Decimal) error {
	const query = `
		UPDATE invoices
		   SET paid_amount = $3, balance = $4, status = $5, updated_at = $6
		 WHERE id = $1 AND company_id = $2 AND paid_amount = $7`
	cmd, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.PaidAmount, inv.Balance, inv.Status, inv.UpdatedAt, prevPaid,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("factura %s: %w", inv.ID, domain.ErrLedgerInconsistent)
		}
		return fmt.Errorf("update invoice balance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.ConflictError{Entity: "invoice", ID: inv.ID}
	}
	return nil
}

// UpdateStatus escribe to solo si el estado persistido sigue siendo from.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, companyID string, from, to entity.InvoiceStatus, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $4, updated_at = $5 WHERE id = $1 AND company_id = $2 AND status = $3`,
		id, companyID, from, to, at,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.ConflictError{Entity: "invoice", ID: id}
	}
	return nil
}

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos; solo inserción.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create inserta el pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	const query = `
		INSERT INTO payments (id, invoice_id, company_id, amount, method, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.InvoiceID, p.CompanyID, p.Amount, p.Method, p.Reference, p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidAmount
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListByInvoice pagos de la factura, más recientes primero.
func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error) {
	const query = `
		SELECT id, invoice_id, company_id, amount, method, reference, created_by, created_at
		FROM payments WHERE invoice_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Payment, 0)
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.CompanyID, &p.Amount, &p.Method, &p.Reference, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
