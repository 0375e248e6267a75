// Package permission resuelve el permiso efectivo de un actor sobre (recurso, acción)
// combinando overrides por usuario, la matriz por rol y la propiedad del recurso.
package permission

import (
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// Gate evalúa permisos sobre una matriz fija. Es seguro para uso concurrente.
type Gate struct {
	matrix Matrix
}

// NewGate construye el gate. Con matrix nil usa DefaultMatrix.
func NewGate(matrix Matrix) *Gate {
	if matrix == nil {
		matrix = DefaultMatrix
	}
	return &Gate{matrix: matrix}
}

// Authorize decide si actor puede ejecutar action sobre resource.
// Orden (gana la primera coincidencia): override explícito, matriz por rol,
// propiedad del recurso (ownerID == actor.ID) para los pares de ownerGrants.
func (g *Gate) Authorize(actor entity.Actor, resource entity.Resource, action entity.Action, ownerID string) error {
	if actor.ID == "" || !actor.Role.Valid() {
		return &domain.AuthorizationError{Resource: string(resource), Action: string(action), Reason: "actor inválido"}
	}
	if !resource.Valid() || !action.Valid() {
		return &domain.AuthorizationError{Resource: string(resource), Action: string(action), Reason: "recurso o acción desconocidos"}
	}
	if granted, ok := actor.Overrides[entity.PermissionKey{Resource: resource, Action: action}]; ok {
		if granted {
			return nil
		}
		return &domain.AuthorizationError{Resource: string(resource), Action: string(action), Reason: "denegado explícitamente"}
	}
	if g.matrix.Allows(actor.Role, resource, action) {
		return nil
	}
	if ownerID != "" && ownerID == actor.ID && actor.Role != entity.RoleGuest {
		if _, ok := ownerGrants[entity.PermissionKey{Resource: resource, Action: action}]; ok {
			return nil
		}
	}
	return &domain.AuthorizationError{Resource: string(resource), Action: string(action)}
}

// Can es la versión booleana de Authorize.
func (g *Gate) Can(actor entity.Actor, resource entity.Resource, action entity.Action, ownerID string) bool {
	return g.Authorize(actor, resource, action, ownerID) == nil
}
