package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/retry"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/status"
)

// overdueBatch máximo de facturas revisadas por corrida de MarkOverdue.
const overdueBatch = 500

// ChangeStatus aplica una transición manual (enviar, vencer, anular). PARTIAL y PAID
// solo los produce el registro de pagos. Una factura con pagos no se anula.
func (uc *UseCase) ChangeStatus(ctx context.Context, actor entity.Actor, id string, in dto.ChangeInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	next := entity.InvoiceStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if next == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		invoice *entity.Invoice
		from    entity.InvoiceStatus
	)
	err := retry.OnConflict(ctx, uc.retries, func() error {
		inv, err := uc.load(ctx, actor, id)
		if err != nil {
			return err
		}
		if err := uc.authz.Authorize(ctx, actor, entity.ResourceInvoices, entity.ActionUpdate, ""); err != nil {
			return err
		}
		if next == entity.InvoiceStatusCancelled && !inv.PaidAmount.IsZero() {
			return &domain.InvalidTransitionError{Entity: "invoice", From: string(inv.Status), To: string(next)}
		}
		if err := status.Invoice.Transition(inv.Status, next); err != nil {
			return err
		}
		now := uc.now()
		if err := uc.invoiceRepo.UpdateStatus(ctx, inv.ID, inv.CompanyID, inv.Status, next, now); err != nil {
			return err
		}
		from = inv.Status
		inv.Status = next
		inv.UpdatedAt = now
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, entity.AuditEntry{
		CompanyID:  invoice.CompanyID,
		ActorID:    actor.ID,
		Action:     entity.AuditInvoiceStatus,
		EntityType: "invoice",
		EntityID:   invoice.ID,
		Payload:    map[string]any{"from": string(from), "to": string(next)},
	})
	return toInvoiceResponse(invoice, nil), nil
}

// MarkOverdue pasa a OVERDUE las facturas SENT o PARTIAL vencidas antes de asOf.
// Es una operación de sistema (CLI de operaciones), sin actor. Las facturas que cambian
// concurrentemente se omiten y quedan para la próxima corrida.
func (uc *UseCase) MarkOverdue(ctx context.Context, asOf time.Time) (*dto.MarkOverdueResult, error) {
	list, err := uc.invoiceRepo.ListPastDue(ctx, asOf, overdueBatch)
	if err != nil {
		return nil, err
	}
	res := &dto.MarkOverdueResult{Checked: len(list)}
	for _, inv := range list {
		if err := status.Invoice.Transition(inv.Status, entity.InvoiceStatusOverdue); err != nil {
			res.Skipped = append(res.Skipped, inv.ID)
			continue
		}
		now := uc.now()
		err := uc.invoiceRepo.UpdateStatus(ctx, inv.ID, inv.CompanyID, inv.Status, entity.InvoiceStatusOverdue, now)
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			uc.log.Warn().Str("invoice_id", inv.ID).Msg("factura modificada durante el vencimiento, se omite")
			res.Skipped = append(res.Skipped, inv.ID)
			continue
		}
		if err != nil {
			return res, err
		}
		res.Marked++
		uc.audit.Record(ctx, entity.AuditEntry{
			CompanyID:  inv.CompanyID,
			Action:     entity.AuditInvoiceStatus,
			EntityType: "invoice",
			EntityID:   inv.ID,
			Payload:    map[string]any{"from": string(inv.Status), "to": string(entity.InvoiceStatusOverdue), "as_of": asOf.Format(time.DateOnly)},
		})
	}
	uc.log.Info().Int("checked", res.Checked).Int("marked", res.Marked).Msg("vencimiento de facturas")
	return res, nil
}
