// Package expenses casos de uso de gastos: registro, revisión (aprobación/rechazo) y baja.
package expenses

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/application/retry"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/ledger"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/domain/status"
	"github.com/jhoicas/Gestion-api/pkg/money"
)

// UseCase orquesta gastos.
type UseCase struct {
	repo     repository.ExpenseRepository
	authz    ports.Authorizer
	notifier ports.Notifier
	audit    ports.AuditSink
	retries  int
	// managerLimit tope que un MANAGER puede aprobar; cero = sin tope.
	managerLimit decimal.Decimal
	now          func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	repo repository.ExpenseRepository,
	authz ports.Authorizer,
	notifier ports.Notifier,
	audit ports.AuditSink,
	retries int,
	managerLimit decimal.Decimal,
) *UseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &UseCase{
		repo:         repo,
		authz:        authz,
		notifier:     notifier,
		audit:        audit,
		retries:      retries,
		managerLimit: managerLimit,
		now:          time.Now,
	}
}

// Create registra un gasto en PENDING a nombre del actor.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceExpenses, entity.ActionCreate, ""); err != nil {
		return nil, err
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := ledger.CheckAmount(in.Amount); err != nil {
		return nil, err
	}
	now := uc.now()
	spentAt := now
	if in.SpentAt != nil {
		spentAt = *in.SpentAt
	}
	e := &entity.Expense{
		ID:          uuid.New().String(),
		CompanyID:   actor.CompanyID,
		ProjectID:   in.ProjectID,
		Description: desc,
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		Status:      entity.ExpenseStatusPending,
		CreatedBy:   actor.ID,
		SpentAt:     spentAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return toResponse(e), nil
}

// Get devuelve un gasto de la empresa del actor.
func (uc *UseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.ExpenseResponse, error) {
	e, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceExpenses, entity.ActionRead, e.CreatedBy); err != nil {
		return nil, err
	}
	return toResponse(e), nil
}

// List lista gastos de la empresa.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, in dto.ExpenseListRequest) (*dto.ExpenseListResponse, error) {
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceExpenses, entity.ActionRead, ""); err != nil {
		return nil, err
	}
	st := entity.ExpenseStatus(in.Status)
	if st != "" && !status.Expense.Valid(st) {
		return nil, domain.ErrInvalidInput
	}
	in.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, actor.CompanyID, repository.ExpenseFilter{
		CreatedBy: in.CreatedBy,
		Status:    st,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toResponse(e))
	}
	return &dto.ExpenseListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// Review aprueba o rechaza un gasto PENDING. Nadie revisa sus propios gastos y un
// MANAGER no aprueba montos por encima del tope configurado.
func (uc *UseCase) Review(ctx context.Context, actor entity.Actor, id string, in dto.ReviewExpenseRequest) (*dto.ExpenseResponse, error) {
	next := entity.ExpenseStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if next != entity.ExpenseStatusApproved && next != entity.ExpenseStatusRejected {
		return nil, domain.ErrInvalidInput
	}
	var expense *entity.Expense
	err := retry.OnConflict(ctx, uc.retries, func() error {
		e, err := uc.load(ctx, actor, id)
		if err != nil {
			return err
		}
		if err := uc.authz.Authorize(ctx, actor, entity.ResourceExpenses, entity.ActionApprove, ""); err != nil {
			return err
		}
		if e.CreatedBy == actor.ID {
			return &domain.AuthorizationError{Resource: string(entity.ResourceExpenses), Action: string(entity.ActionApprove), Reason: "no puede revisar su propio gasto"}
		}
		if next == entity.ExpenseStatusApproved && actor.Role == entity.RoleManager &&
			uc.managerLimit.IsPositive() && e.Amount.GreaterThan(uc.managerLimit) {
			return &domain.AuthorizationError{Resource: string(entity.ResourceExpenses), Action: string(entity.ActionApprove), Reason: "monto supera el tope de aprobación " + uc.managerLimit.StringFixed(2)}
		}
		if err := status.Expense.Transition(e.Status, next); err != nil {
			return err
		}
		now := uc.now()
		from := e.Status
		e.Status = next
		e.ReviewedBy = actor.ID
		e.ReviewNote = strings.TrimSpace(in.Note)
		e.ReviewedAt = &now
		e.UpdatedAt = now
		if err := uc.repo.Review(ctx, e, from); err != nil {
			return err
		}
		expense = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	action, verb := entity.AuditExpenseApproved, "aprobado"
	if next == entity.ExpenseStatusRejected {
		action, verb = entity.AuditExpenseRejected, "rechazado"
	}
	uc.audit.Record(ctx, entity.AuditEntry{
		CompanyID:  expense.CompanyID,
		ActorID:    actor.ID,
		Action:     action,
		EntityType: "expense",
		EntityID:   expense.ID,
		Payload:    map[string]any{"amount": expense.Amount.StringFixed(2), "note": expense.ReviewNote},
	})
	uc.notifier.Notify(ctx, entity.Notification{
		CompanyID:    expense.CompanyID,
		TargetUserID: expense.CreatedBy,
		Type:         entity.NotificationExpenseReviewed,
		Title:        "Gasto " + verb,
		Message:      "Tu gasto \"" + expense.Description + "\" por " + money.Format(expense.Amount) + " fue " + verb,
		Link:         "/expenses/" + expense.ID,
	})
	return toResponse(expense), nil
}

// Delete elimina un gasto. El creador puede borrar el suyo mientras siga PENDING;
// un rol con expenses:delete puede borrarlo en cualquier estado.
func (uc *UseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	var deleted *entity.Expense
	err := retry.OnConflict(ctx, uc.retries, func() error {
		e, err := uc.load(ctx, actor, id)
		if err != nil {
			return err
		}
		owner := ""
		if e.Status == entity.ExpenseStatusPending {
			owner = e.CreatedBy
		}
		if err := uc.authz.Authorize(ctx, actor, entity.ResourceExpenses, entity.ActionDelete, owner); err != nil {
			return err
		}
		if err := uc.repo.Delete(ctx, e.ID, e.CompanyID, e.Status); err != nil {
			return err
		}
		deleted = e
		return nil
	})
	if err != nil {
		return err
	}
	uc.audit.Record(ctx, entity.AuditEntry{
		CompanyID:  deleted.CompanyID,
		ActorID:    actor.ID,
		Action:     entity.AuditExpenseDeleted,
		EntityType: "expense",
		EntityID:   deleted.ID,
		Payload:    map[string]any{"status": string(deleted.Status), "amount": deleted.Amount.StringFixed(2)},
	})
	return nil
}

func (uc *UseCase) load(ctx context.Context, actor entity.Actor, id string) (*entity.Expense, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil || e.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func toResponse(e *entity.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		Description: e.Description,
		Category:    e.Category,
		Amount:      e.Amount,
		Status:      string(e.Status),
		CreatedBy:   e.CreatedBy,
		ReviewedBy:  e.ReviewedBy,
		ReviewNote:  e.ReviewNote,
		ReviewedAt:  e.ReviewedAt,
		SpentAt:     e.SpentAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
