package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago.
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCard     = "CARD"
	PaymentMethodCheck    = "CHECK"
)

// Payment registro inmutable de un pago aplicado a una factura.
// Su creación es lo único que modifica el saldo de la factura.
type Payment struct {
	ID        string
	InvoiceID string
	CompanyID string
	Amount    decimal.Decimal // > 0
	Method    string
	Reference string
	CreatedBy string
	CreatedAt time.Time
}

// ValidPaymentMethod informa si m es un método de pago soportado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard, PaymentMethodCheck:
		return true
	}
	return false
}
