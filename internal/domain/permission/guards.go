package permission

import (
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

func denyUsers(action entity.Action, reason string) error {
	return &domain.AuthorizationError{Resource: string(entity.ResourceUsers), Action: string(action), Reason: reason}
}

// AuthorizeRoleChange valida que actor pueda asignar newRole a target.
// Las reglas de escalamiento se evalúan antes que los overrides y no pueden saltarse.
func (g *Gate) AuthorizeRoleChange(actor entity.Actor, target *entity.User, newRole entity.Role) error {
	if target == nil || !newRole.Valid() {
		return denyUsers(entity.ActionUpdate, "rol o usuario inválido")
	}
	if target.ID == actor.ID {
		return denyUsers(entity.ActionUpdate, "no puede cambiar su propio rol")
	}
	if actor.Role != entity.RoleSuperAdmin && target.CompanyID != actor.CompanyID {
		return denyUsers(entity.ActionUpdate, "usuario de otra empresa")
	}
	if newRole == entity.RoleSuperAdmin && actor.Role != entity.RoleSuperAdmin {
		return denyUsers(entity.ActionUpdate, "solo SUPERADMIN asigna SUPERADMIN")
	}
	if target.Role == entity.RoleSuperAdmin && actor.Role != entity.RoleSuperAdmin {
		return denyUsers(entity.ActionUpdate, "solo SUPERADMIN edita a un SUPERADMIN")
	}
	if actor.Role == entity.RoleManager && (newRole.Elevated() || target.Role.Elevated()) {
		return denyUsers(entity.ActionUpdate, "MANAGER no puede asignar ni editar roles MANAGER o superiores")
	}
	return g.Authorize(actor, entity.ResourceUsers, entity.ActionUpdate, "")
}

// AuthorizeUserDeletion valida que actor pueda eliminar a target. La auto-eliminación
// se niega siempre.
func (g *Gate) AuthorizeUserDeletion(actor entity.Actor, target *entity.User) error {
	if target == nil {
		return denyUsers(entity.ActionDelete, "usuario inválido")
	}
	if target.ID == actor.ID {
		return denyUsers(entity.ActionDelete, "no puede eliminar su propia cuenta")
	}
	if actor.Role != entity.RoleSuperAdmin && target.CompanyID != actor.CompanyID {
		return denyUsers(entity.ActionDelete, "usuario de otra empresa")
	}
	if target.Role == entity.RoleSuperAdmin && actor.Role != entity.RoleSuperAdmin {
		return denyUsers(entity.ActionDelete, "solo SUPERADMIN elimina a un SUPERADMIN")
	}
	if actor.Role == entity.RoleManager && target.Role.Elevated() {
		return denyUsers(entity.ActionDelete, "MANAGER no puede eliminar roles MANAGER o superiores")
	}
	return g.Authorize(actor, entity.ResourceUsers, entity.ActionDelete, "")
}

// AuthorizeOverrideChange valida que actor pueda crear o quitar overrides de target.
// Nadie edita sus propios overrides y un MANAGER no toca los de roles MANAGER o superiores.
func (g *Gate) AuthorizeOverrideChange(actor entity.Actor, target *entity.User) error {
	deny := func(reason string) error {
		return &domain.AuthorizationError{Resource: string(entity.ResourcePermissions), Action: string(entity.ActionUpdate), Reason: reason}
	}
	if target == nil {
		return deny("usuario inválido")
	}
	if target.ID == actor.ID {
		return deny("no puede modificar sus propios permisos")
	}
	if actor.Role != entity.RoleSuperAdmin && target.CompanyID != actor.CompanyID {
		return deny("usuario de otra empresa")
	}
	if target.Role == entity.RoleSuperAdmin && actor.Role != entity.RoleSuperAdmin {
		return deny("solo SUPERADMIN modifica permisos de un SUPERADMIN")
	}
	if actor.Role == entity.RoleManager && target.Role.Elevated() {
		return deny("MANAGER no puede modificar permisos de roles MANAGER o superiores")
	}
	return g.Authorize(actor, entity.ResourcePermissions, entity.ActionUpdate, "")
}
