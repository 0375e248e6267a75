package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de una factura.
type InvoiceStatus string

// Estados de factura. PARTIAL y PAID solo se alcanzan aplicando pagos.
const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPartial   InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// Invoice cabecera de una factura de venta.
// Invariante: Balance == Total - PaidAmount y Balance >= 0.
type Invoice struct {
	ID           string
	CompanyID    string
	CustomerName string
	Number       string
	Total        decimal.Decimal // fijo desde la creación
	PaidAmount   decimal.Decimal // monótono no decreciente
	Balance      decimal.Decimal
	Status       InvoiceStatus
	IssueDate    time.Time
	DueDate      time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
