package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/Gestion-api/internal/application/authz"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/application/retry"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// UserUseCase administración de usuarios de la empresa: roles y bajas.
// Las cuentas y credenciales las crea el subsistema de identidad.
type UserUseCase struct {
	repo    repository.UserRepository
	authz   *authz.Service
	audit   ports.AuditSink
	retries int
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, authz *authz.Service, audit ports.AuditSink, retries int) *UserUseCase {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &UserUseCase{repo: repo, authz: authz, audit: audit, retries: retries}
}

// List lista los usuarios de la empresa del actor.
func (uc *UserUseCase) List(ctx context.Context, actor entity.Actor, page dto.PageRequest) (*dto.UserListResponse, error) {
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceUsers, entity.ActionRead, ""); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, actor.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *entityToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// ChangeRole asigna un rol nuevo al usuario. Las reglas de escalamiento se evalúan antes
// que la matriz y los overrides, así que un override no puede saltarlas.
func (uc *UserUseCase) ChangeRole(ctx context.Context, actor entity.Actor, userID string, in dto.ChangeRoleRequest) (*dto.UserResponse, error) {
	newRole := entity.Role(strings.ToUpper(strings.TrimSpace(in.Role)))
	if !newRole.Valid() {
		return nil, domain.ErrInvalidInput
	}
	resolved, err := uc.authz.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	var (
		target *entity.User
		from   entity.Role
	)
	err = retry.OnConflict(ctx, uc.retries, func() error {
		u, err := uc.load(ctx, actor, userID)
		if err != nil {
			return err
		}
		if err := uc.authz.Gate().AuthorizeRoleChange(resolved, u, newRole); err != nil {
			return err
		}
		if err := uc.repo.UpdateRole(ctx, u.ID, u.Role, newRole); err != nil {
			return err
		}
		from = u.Role
		u.Role = newRole
		target = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, entity.AuditEntry{
		CompanyID:  target.CompanyID,
		ActorID:    actor.ID,
		Action:     entity.AuditUserRoleChanged,
		EntityType: "user",
		EntityID:   target.ID,
		Payload:    map[string]any{"from": string(from), "to": string(newRole)},
	})
	return entityToUserResponse(target), nil
}

// Delete elimina al usuario. La auto-eliminación se niega siempre.
func (uc *UserUseCase) Delete(ctx context.Context, actor entity.Actor, userID string) error {
	target, err := uc.load(ctx, actor, userID)
	if err != nil {
		return err
	}
	resolved, err := uc.authz.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	if err := uc.authz.Gate().AuthorizeUserDeletion(resolved, target); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, target.ID); err != nil {
		return err
	}
	uc.audit.Record(ctx, entity.AuditEntry{
		CompanyID:  target.CompanyID,
		ActorID:    actor.ID,
		Action:     entity.AuditUserDeleted,
		EntityType: "user",
		EntityID:   target.ID,
		Payload:    map[string]any{"email": target.Email, "role": string(target.Role)},
	})
	return nil
}

// load obtiene el usuario; los de otra empresa no son visibles salvo para SUPERADMIN.
func (uc *UserUseCase) load(ctx context.Context, actor entity.Actor, id string) (*entity.User, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || (user.CompanyID != actor.CompanyID && actor.Role != entity.RoleSuperAdmin) {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
