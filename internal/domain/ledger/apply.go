// Package ledger aplica pagos sobre el saldo de una factura con aritmética decimal exacta.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// MinorUnit precisión mínima de los montos (2 decimales).
var MinorUnit = decimal.New(1, -2)

// Snapshot estado monetario de una factura.
type Snapshot struct {
	Total      decimal.Decimal
	PaidAmount decimal.Decimal
	Balance    decimal.Decimal
	Status     entity.InvoiceStatus
}

// SnapshotOf extrae el estado monetario de la factura.
func SnapshotOf(inv *entity.Invoice) Snapshot {
	return Snapshot{Total: inv.Total, PaidAmount: inv.PaidAmount, Balance: inv.Balance, Status: inv.Status}
}

// Apply copia el snapshot sobre la factura.
func (s Snapshot) Apply(inv *entity.Invoice) {
	inv.PaidAmount = s.PaidAmount
	inv.Balance = s.Balance
	inv.Status = s.Status
}

// CheckAmount valida que amount sea positivo y tenga como máximo dos decimales.
func CheckAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &domain.InvalidAmountError{Amount: amount, Bound: decimal.Zero, Reason: "debe ser mayor que"}
	}
	if !amount.Equal(amount.Round(2)) {
		return &domain.InvalidAmountError{Amount: amount, Bound: MinorUnit, Reason: "precisión mínima"}
	}
	return nil
}

// ApplyPayment aplica amount al snapshot y devuelve el nuevo estado.
//
//	paid'    = paid + amount
//	balance' = total - paid'
//	status'  = PAID si balance' == 0; PARTIAL si paid' > 0; si no, sin cambio
func ApplyPayment(inv Snapshot, amount decimal.Decimal) (Snapshot, error) {
	if !inv.Balance.Equal(inv.Total.Sub(inv.PaidAmount)) || inv.Balance.IsNegative() {
		return Snapshot{}, fmt.Errorf("%w: total %s, pagado %s, saldo %s",
			domain.ErrLedgerInconsistent, inv.Total, inv.PaidAmount, inv.Balance)
	}
	if err := CheckAmount(amount); err != nil {
		return Snapshot{}, err
	}
	if amount.GreaterThan(inv.Balance) {
		return Snapshot{}, &domain.InvalidAmountError{Amount: amount, Bound: inv.Balance, Reason: "excede el saldo"}
	}

	out := inv
	out.PaidAmount = inv.PaidAmount.Add(amount)
	out.Balance = inv.Total.Sub(out.PaidAmount)
	switch {
	case out.Balance.IsZero():
		out.Status = entity.InvoiceStatusPaid
	case out.PaidAmount.IsPositive():
		out.Status = entity.InvoiceStatusPartial
	}
	if inv.Status == entity.InvoiceStatusCancelled {
		return Snapshot{}, &domain.InvalidTransitionError{Entity: "invoice", From: string(inv.Status), To: string(out.Status)}
	}
	return out, nil
}
