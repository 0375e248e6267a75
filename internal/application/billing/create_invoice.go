// Package billing casos de uso de facturación: facturas, estados y pagos (ledger).
package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/ledger"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/domain/status"
)

// UseCase orquesta facturas y pagos.
type UseCase struct {
	txRunner    LedgerTxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	authz       ports.Authorizer
	notifier    ports.Notifier
	audit       ports.AuditSink
	retries     int
	log         zerolog.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner LedgerTxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	authz ports.Authorizer,
	notifier ports.Notifier,
	audit ports.AuditSink,
	retries int,
	log zerolog.Logger,
) *UseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &UseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		authz:       authz,
		notifier:    notifier,
		audit:       audit,
		retries:     retries,
		log:         log,
		now:         time.Now,
	}
}

// CreateInvoice crea una factura en DRAFT sin pagos (saldo = total).
func (uc *UseCase) CreateInvoice(ctx context.Context, actor entity.Actor, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceInvoices, entity.ActionCreate, ""); err != nil {
		return nil, err
	}
	customer := strings.TrimSpace(in.CustomerName)
	number := strings.TrimSpace(in.Number)
	if customer == "" || number == "" || in.DueDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if err := ledger.CheckAmount(in.Total); err != nil {
		return nil, err
	}
	now := uc.now()
	issue := now
	if in.IssueDate != nil {
		issue = *in.IssueDate
	}
	if in.DueDate.Before(issue) {
		return nil, domain.ErrInvalidInput
	}
	inv := &entity.Invoice{
		ID:           uuid.New().String(),
		CompanyID:    actor.CompanyID,
		CustomerName: customer,
		Number:       number,
		Total:        in.Total,
		PaidAmount:   decimal.Zero,
		Balance:      in.Total,
		Status:       entity.InvoiceStatusDraft,
		IssueDate:    issue,
		DueDate:      in.DueDate,
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, nil), nil
}

// GetInvoice devuelve la factura con sus pagos.
func (uc *UseCase) GetInvoice(ctx context.Context, actor entity.Actor, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceInvoices, entity.ActionRead, ""); err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, payments), nil
}

// ListInvoices lista facturas de la empresa.
func (uc *UseCase) ListInvoices(ctx context.Context, actor entity.Actor, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceInvoices, entity.ActionRead, ""); err != nil {
		return nil, err
	}
	st := entity.InvoiceStatus(in.Status)
	if st != "" && !status.Invoice.Valid(st) {
		return nil, domain.ErrInvalidInput
	}
	in.DefaultPage()
	list, err := uc.invoiceRepo.ListByCompany(ctx, actor.CompanyID, repository.InvoiceFilter{
		Status: st,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInvoiceResponse(inv, nil))
	}
	return &dto.InvoiceListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

func (uc *UseCase) load(ctx context.Context, actor entity.Actor, id string) (*entity.Invoice, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func toInvoiceResponse(inv *entity.Invoice, payments []*entity.Payment) *dto.InvoiceResponse {
	next := status.Invoice.Allowed(inv.Status)
	nextStr := make([]string, 0, len(next))
	for _, s := range next {
		nextStr = append(nextStr, string(s))
	}
	out := &dto.InvoiceResponse{
		ID:           inv.ID,
		CustomerName: inv.CustomerName,
		Number:       inv.Number,
		Total:        inv.Total,
		PaidAmount:   inv.PaidAmount,
		Balance:      inv.Balance,
		Status:       string(inv.Status),
		NextStatus:   nextStr,
		IssueDate:    inv.IssueDate,
		DueDate:      inv.DueDate,
		CreatedBy:    inv.CreatedBy,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, toPaymentResponse(p))
	}
	return out
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Method:    p.Method,
		Reference: p.Reference,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
}
