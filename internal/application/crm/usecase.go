// Package crm casos de uso del embudo comercial (leads).
package crm

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/application/retry"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/domain/status"
)

// UseCase orquesta leads.
type UseCase struct {
	leads    repository.LeadRepository
	users    repository.UserRepository
	authz    ports.Authorizer
	notifier ports.Notifier
	audit    ports.AuditSink
	retries  int
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	leads repository.LeadRepository,
	users repository.UserRepository,
	authz ports.Authorizer,
	notifier ports.Notifier,
	audit ports.AuditSink,
	retries int,
) *UseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &UseCase{
		leads:    leads,
		users:    users,
		authz:    authz,
		notifier: notifier,
		audit:    audit,
		retries:  retries,
		now:      time.Now,
	}
}

// CreateLead registra un lead en NEW. Si no se indica dueño, lo es el actor.
func (uc *UseCase) CreateLead(ctx context.Context, actor entity.Actor, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceLeads, entity.ActionCreate, ""); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.EstimatedValue.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	ownerID := actor.ID
	if in.OwnerID != "" && in.OwnerID != actor.ID {
		owner, err := uc.users.GetByID(ctx, in.OwnerID)
		if err != nil {
			return nil, err
		}
		if owner == nil || owner.CompanyID != actor.CompanyID {
			return nil, domain.ErrUserNotFound
		}
		ownerID = owner.ID
	}
	now := uc.now()
	lead := &entity.Lead{
		ID:             uuid.New().String(),
		CompanyID:      actor.CompanyID,
		Name:           name,
		ContactEmail:   strings.TrimSpace(in.ContactEmail),
		EstimatedValue: in.EstimatedValue,
		Stage:          entity.LeadStageNew,
		OwnerID:        ownerID,
		CreatedBy:      actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	return toResponse(lead), nil
}

// GetLead devuelve un lead de la empresa del actor.
func (uc *UseCase) GetLead(ctx context.Context, actor entity.Actor, id string) (*dto.LeadResponse, error) {
	lead, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceLeads, entity.ActionRead, lead.OwnerID); err != nil {
		return nil, err
	}
	return toResponse(lead), nil
}

// ListLeads lista leads de la empresa.
func (uc *UseCase) ListLeads(ctx context.Context, actor entity.Actor, in dto.LeadListRequest) (*dto.LeadListResponse, error) {
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceLeads, entity.ActionRead, ""); err != nil {
		return nil, err
	}
	stage := entity.LeadStage(in.Stage)
	if stage != "" && !status.Lead.Valid(stage) {
		return nil, domain.ErrInvalidInput
	}
	in.DefaultPage()
	list, err := uc.leads.ListByCompany(ctx, actor.CompanyID, repository.LeadFilter{
		OwnerID: in.OwnerID,
		Stage:   stage,
		Limit:   in.Limit,
		Offset:  in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.LeadResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toResponse(l))
	}
	return &dto.LeadListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// MoveStage avanza el lead en el embudo o lo marca LOST. Cerrar (WON/LOST) deja
// registro de auditoría y avisa al dueño si lo cerró otra persona.
func (uc *UseCase) MoveStage(ctx context.Context, actor entity.Actor, id string, in dto.MoveLeadStageRequest) (*dto.LeadResponse, error) {
	next := entity.LeadStage(strings.ToUpper(strings.TrimSpace(in.Stage)))
	if next == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		lead *entity.Lead
		from entity.LeadStage
	)
	err := retry.OnConflict(ctx, uc.retries, func() error {
		l, err := uc.load(ctx, actor, id)
		if err != nil {
			return err
		}
		if err := uc.authz.Authorize(ctx, actor, entity.ResourceLeads, entity.ActionUpdate, l.OwnerID); err != nil {
			return err
		}
		if err := status.Lead.Transition(l.Stage, next); err != nil {
			return err
		}
		from = l.Stage
		l.Stage = next
		if next == entity.LeadStageLost {
			l.LostReason = strings.TrimSpace(in.Reason)
		}
		l.UpdatedAt = uc.now()
		if err := uc.leads.UpdateStage(ctx, l, from); err != nil {
			return err
		}
		lead = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status.Lead.Terminal(next) {
		uc.audit.Record(ctx, entity.AuditEntry{
			CompanyID:  lead.CompanyID,
			ActorID:    actor.ID,
			Action:     entity.AuditLeadClosed,
			EntityType: "lead",
			EntityID:   lead.ID,
			Payload: map[string]any{
				"from":            string(from),
				"to":              string(next),
				"estimated_value": lead.EstimatedValue.StringFixed(2),
				"reason":          lead.LostReason,
			},
		})
		if lead.OwnerID != actor.ID {
			uc.notifier.Notify(ctx, entity.Notification{
				CompanyID:    lead.CompanyID,
				TargetUserID: lead.OwnerID,
				Type:         entity.NotificationLeadClosed,
				Title:        "Lead cerrado",
				Message:      "El lead \"" + lead.Name + "\" pasó a " + string(next),
				Link:         "/leads/" + lead.ID,
			})
		}
	}
	return toResponse(lead), nil
}

func (uc *UseCase) load(ctx context.Context, actor entity.Actor, id string) (*entity.Lead, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	lead, err := uc.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil || lead.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return lead, nil
}

func toResponse(l *entity.Lead) *dto.LeadResponse {
	next := status.Lead.Allowed(l.Stage)
	nextStr := make([]string, 0, len(next))
	for _, s := range next {
		nextStr = append(nextStr, string(s))
	}
	return &dto.LeadResponse{
		ID:             l.ID,
		Name:           l.Name,
		ContactEmail:   l.ContactEmail,
		EstimatedValue: l.EstimatedValue,
		Stage:          string(l.Stage),
		NextStages:     nextStr,
		OwnerID:        l.OwnerID,
		CreatedBy:      l.CreatedBy,
		LostReason:     l.LostReason,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}
