package billing

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/retry"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/ledger"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/pkg/money"
)

// RecordPayment aplica un pago a la factura. Dentro de una sola transacción se bloquea la
// fila, se recalcula el saldo con el ledger, se actualiza la factura (condicionada al
// paid_amount leído) y se inserta el pago. Si otra escritura ganó la carrera se relee y
// se revalida contra el saldo nuevo.
func (uc *UseCase) RecordPayment(ctx context.Context, actor entity.Actor, invoiceID string, in dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if !entity.ValidPaymentMethod(method) {
		return nil, domain.ErrInvalidInput
	}
	if err := ledger.CheckAmount(in.Amount); err != nil {
		return nil, err
	}
	if _, err := uc.load(ctx, actor, invoiceID); err != nil {
		return nil, err
	}
	if err := uc.authz.Authorize(ctx, actor, entity.ResourcePayments, entity.ActionCreate, ""); err != nil {
		return nil, err
	}

	var (
		invoice *entity.Invoice
		payment *entity.Payment
	)
	err := retry.OnConflict(ctx, uc.retries, func() error {
		return uc.txRunner.RunLedger(ctx, func(invoiceRepo repository.InvoiceRepository, paymentRepo repository.PaymentRepository) error {
			inv, err := invoiceRepo.GetForUpdate(ctx, invoiceID)
			if err != nil {
				return err
			}
			if inv == nil || inv.CompanyID != actor.CompanyID {
				return domain.ErrNotFound
			}
			next, err := ledger.ApplyPayment(ledger.SnapshotOf(inv), in.Amount)
			if err != nil {
				return err
			}
			prevPaid := inv.PaidAmount
			now := uc.now()
			next.Apply(inv)
			inv.UpdatedAt = now
			if err := invoiceRepo.UpdateBalance(ctx, inv, prevPaid); err != nil {
				return err
			}
			p := &entity.Payment{
				ID:        uuid.New().String(),
				InvoiceID: inv.ID,
				CompanyID: inv.CompanyID,
				Amount:    in.Amount,
				Method:    method,
				Reference: strings.TrimSpace(in.Reference),
				CreatedBy: actor.ID,
				CreatedAt: now,
			}
			if err := paymentRepo.Create(ctx, p); err != nil {
				return err
			}
			invoice, payment = inv, p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, entity.AuditEntry{
		CompanyID:  invoice.CompanyID,
		ActorID:    actor.ID,
		Action:     entity.AuditPaymentRecorded,
		EntityType: "invoice",
		EntityID:   invoice.ID,
		Payload: map[string]any{
			"payment_id": payment.ID,
			"amount":     payment.Amount.StringFixed(2),
			"method":     payment.Method,
			"balance":    invoice.Balance.StringFixed(2),
			"status":     string(invoice.Status),
		},
	})
	if invoice.CreatedBy != actor.ID {
		uc.notifier.Notify(ctx, entity.Notification{
			CompanyID:    invoice.CompanyID,
			TargetUserID: invoice.CreatedBy,
			Type:         entity.NotificationPaymentReceived,
			Title:        "Pago recibido",
			Message:      "Factura " + invoice.Number + ": pago de " + money.Format(payment.Amount) + ", saldo " + money.Format(invoice.Balance),
			Link:         "/invoices/" + invoice.ID,
		})
	}
	return &dto.RecordPaymentResponse{
		Payment: toPaymentResponse(payment),
		Invoice: *toInvoiceResponse(invoice, nil),
	}, nil
}
