// Package authz resuelve el actor efectivo (rol + overrides persistidos) y delega la
// decisión en el gate de permisos del dominio.
package authz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/permission"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// Service casos de uso de autorización y administración de overrides.
type Service struct {
	gate      *permission.Gate
	overrides repository.PermissionOverrideRepository
	users     repository.UserRepository
	audit     ports.AuditSink
}

// NewService construye el servicio.
func NewService(
	gate *permission.Gate,
	overrides repository.PermissionOverrideRepository,
	users repository.UserRepository,
	audit ports.AuditSink,
) *Service {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &Service{gate: gate, overrides: overrides, users: users, audit: audit}
}

// Gate expone el gate de dominio para las pre-validaciones de escalamiento.
func (s *Service) Gate() *permission.Gate { return s.gate }

// Resolve carga los overrides persistidos del actor.
func (s *Service) Resolve(ctx context.Context, actor entity.Actor) (entity.Actor, error) {
	list, err := s.overrides.ListByUser(ctx, actor.ID)
	if err != nil {
		return actor, fmt.Errorf("cargar overrides: %w", err)
	}
	return actor.WithOverrides(list), nil
}

// Authorize resuelve los overrides del actor y evalúa (resource, action).
// ownerID vacío = sin regla de propiedad.
func (s *Service) Authorize(ctx context.Context, actor entity.Actor, resource entity.Resource, action entity.Action, ownerID string) error {
	resolved, err := s.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	return s.gate.Authorize(resolved, resource, action, ownerID)
}

// ListOverrides lista los overrides de un usuario de la misma empresa.
func (s *Service) ListOverrides(ctx context.Context, actor entity.Actor, userID string) ([]dto.PermissionOverrideResponse, error) {
	target, err := s.loadTarget(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Authorize(ctx, actor, entity.ResourcePermissions, entity.ActionRead, ""); err != nil {
		return nil, err
	}
	list, err := s.overrides.ListByUser(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PermissionOverrideResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOverrideResponse(o))
	}
	return out, nil
}

// SetOverride crea o reemplaza el override (resource, action) de un usuario.
func (s *Service) SetOverride(ctx context.Context, actor entity.Actor, userID string, in dto.SetPermissionOverrideRequest) (*dto.PermissionOverrideResponse, error) {
	resource, action := entity.Resource(in.Resource), entity.Action(in.Action)
	if !resource.Valid() || !action.Valid() || in.Granted == nil {
		return nil, domain.ErrInvalidInput
	}
	target, err := s.loadTarget(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeOverrideChange(resolved, target); err != nil {
		return nil, err
	}
	now := time.Now()
	o := &entity.PermissionOverride{
		ID:        uuid.New().String(),
		UserID:    target.ID,
		CompanyID: target.CompanyID,
		Resource:  resource,
		Action:    action,
		Granted:   *in.Granted,
		GrantedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.overrides.Upsert(ctx, o); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, entity.AuditEntry{
		CompanyID:  target.CompanyID,
		ActorID:    actor.ID,
		Action:     entity.AuditPermissionSet,
		EntityType: "user",
		EntityID:   target.ID,
		Payload:    map[string]any{"resource": in.Resource, "action": in.Action, "granted": *in.Granted},
	})
	out := toOverrideResponse(o)
	return &out, nil
}

// ClearOverride elimina el override (resource, action) de un usuario; vuelve a regir el rol.
func (s *Service) ClearOverride(ctx context.Context, actor entity.Actor, userID string, resource entity.Resource, action entity.Action) error {
	if !resource.Valid() || !action.Valid() {
		return domain.ErrInvalidInput
	}
	target, err := s.loadTarget(ctx, actor, userID)
	if err != nil {
		return err
	}
	resolved, err := s.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeOverrideChange(resolved, target); err != nil {
		return err
	}
	if err := s.overrides.Delete(ctx, target.ID, resource, action); err != nil {
		return err
	}
	s.audit.Record(ctx, entity.AuditEntry{
		CompanyID:  target.CompanyID,
		ActorID:    actor.ID,
		Action:     entity.AuditPermissionClear,
		EntityType: "user",
		EntityID:   target.ID,
		Payload:    map[string]any{"resource": string(resource), "action": string(action)},
	})
	return nil
}

func (s *Service) loadTarget(ctx context.Context, actor entity.Actor, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	if target.CompanyID != actor.CompanyID && actor.Role != entity.RoleSuperAdmin {
		return nil, domain.ErrUserNotFound
	}
	return target, nil
}

func toOverrideResponse(o *entity.PermissionOverride) dto.PermissionOverrideResponse {
	return dto.PermissionOverrideResponse{
		UserID:    o.UserID,
		Resource:  string(o.Resource),
		Action:    string(o.Action),
		Granted:   o.Granted,
		GrantedBy: o.GrantedBy,
		UpdatedAt: o.UpdatedAt,
	}
}
