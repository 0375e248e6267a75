package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// InvoiceFilter filtros de listado.
type InvoiceFilter struct {
	Status entity.InvoiceStatus
	Limit  int
	Offset int
}

// InvoiceRepository define el puerto de persistencia para Invoice (usable con pool o tx).
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate lee la factura bloqueando la fila (SELECT ... FOR UPDATE).
	// Solo tiene efecto dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	ListByCompany(ctx context.Context, companyID string, f InvoiceFilter) ([]*entity.Invoice, error)
	// ListPastDue devuelve facturas SENT o PARTIAL con vencimiento anterior a asOf.
	ListPastDue(ctx context.Context, asOf time.Time, limit int) ([]*entity.Invoice, error)
	// UpdateBalance guarda paid_amount, balance y status solo si paid_amount persistido
	// sigue siendo prevPaid. Si no, devuelve *domain.ConflictError.
	UpdateBalance(ctx context.Context, invoice *entity.Invoice, prevPaid decimal.Decimal) error
	// UpdateStatus escribe to solo si el estado persistido sigue siendo from.
	UpdateStatus(ctx context.Context, id, companyID string, from, to entity.InvoiceStatus, at time.Time) error
}

// PaymentRepository define el puerto de persistencia para Payment. Solo inserción.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
}
