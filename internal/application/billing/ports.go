package billing

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// LedgerTxRunner ejecuta fn dentro de una transacción que bloquea la factura y registra
// el pago. Si fn devuelve error se hace rollback y nada queda persistido.
type LedgerTxRunner interface {
	RunLedger(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}
