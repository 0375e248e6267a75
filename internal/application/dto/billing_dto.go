package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices. La factura nace en DRAFT sin pagos.
type CreateInvoiceRequest struct {
	CustomerName string          `json:"customer_name"`
	Number       string          `json:"number"`
	Total        decimal.Decimal `json:"total"`
	IssueDate    *time.Time      `json:"issue_date,omitempty"`
	DueDate      time.Time       `json:"due_date"`
}

// ChangeInvoiceStatusRequest body para PUT /api/invoices/:id/status.
type ChangeInvoiceStatusRequest struct {
	Status string `json:"status"`
}

// RecordPaymentRequest body para POST /api/invoices/:id/payments.
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
}

// InvoiceListRequest filtros de GET /api/invoices.
type InvoiceListRequest struct {
	PageRequest
	Status string `query:"status"`
}

// PaymentResponse pago aplicado a una factura.
type PaymentResponse struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// InvoiceResponse factura con saldo y, en el detalle, sus pagos.
type InvoiceResponse struct {
	ID           string            `json:"id"`
	CustomerName string            `json:"customer_name"`
	Number       string            `json:"number"`
	Total        decimal.Decimal   `json:"total"`
	PaidAmount   decimal.Decimal   `json:"paid_amount"`
	Balance      decimal.Decimal   `json:"balance"`
	Status       string            `json:"status"`
	NextStatus   []string          `json:"next_status"`
	IssueDate    time.Time         `json:"issue_date"`
	DueDate      time.Time         `json:"due_date"`
	CreatedBy    string            `json:"created_by"`
	Payments     []PaymentResponse `json:"payments,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// RecordPaymentResponse resultado de registrar un pago: el pago y la factura actualizada.
type RecordPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
}

// MarkOverdueResult resumen de la corrida de vencimientos.
type MarkOverdueResult struct {
	Checked int      `json:"checked"`
	Marked  int      `json:"marked"`
	Skipped []string `json:"skipped,omitempty"`
}
