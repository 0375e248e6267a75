package permission

import "github.com/jhoicas/Gestion-api/internal/domain/entity"

// Matrix es el mapeo estático rol → conjunto de pares (recurso, acción) permitidos.
// Es de solo lectura después de la inicialización del paquete.
type Matrix map[entity.Role]map[entity.PermissionKey]struct{}

// Allows informa si el rol tiene concedido (resource, action) por defecto.
func (m Matrix) Allows(role entity.Role, resource entity.Resource, action entity.Action) bool {
	set, ok := m[role]
	if !ok {
		return false
	}
	_, ok = set[entity.PermissionKey{Resource: resource, Action: action}]
	return ok
}

func grants(resource entity.Resource, actions ...entity.Action) []entity.PermissionKey {
	keys := make([]entity.PermissionKey, 0, len(actions))
	for _, a := range actions {
		keys = append(keys, entity.PermissionKey{Resource: resource, Action: a})
	}
	return keys
}

func all(resource entity.Resource) []entity.PermissionKey {
	return grants(resource, entity.Actions()...)
}

func set(groups ...[]entity.PermissionKey) map[entity.PermissionKey]struct{} {
	s := make(map[entity.PermissionKey]struct{})
	for _, g := range groups {
		for _, k := range g {
			s[k] = struct{}{}
		}
	}
	return s
}

const (
	read    = entity.ActionRead
	create  = entity.ActionCreate
	update  = entity.ActionUpdate
	del     = entity.ActionDelete
	approve = entity.ActionApprove
)

// DefaultMatrix permisos por rol usados cuando no hay override explícito.
// SUPERADMIN y ADMIN tienen todo (las restricciones de ADMIN son las pre-validaciones
// de escalamiento en guards.go); MANAGER un subconjunto operativo; WORKER lectura y
// altas propias; GUEST solo lectura de proyectos y tareas.
var DefaultMatrix = Matrix{
	entity.RoleSuperAdmin: allResources(),
	entity.RoleAdmin:      allResources(),
	entity.RoleManager: set(
		grants(entity.ResourceProjects, read, create, update),
		all(entity.ResourceTasks),
		grants(entity.ResourceExpenses, read, create, update, approve),
		grants(entity.ResourceLeads, read, create, update),
		grants(entity.ResourceInvoices, read, create, update),
		grants(entity.ResourcePayments, read, create),
		grants(entity.ResourceUsers, read, update, del),
		grants(entity.ResourcePermissions, read, update),
		grants(entity.ResourceAnalytics, read),
		grants(entity.ResourceNotifications, read, update),
	),
	entity.RoleWorker: set(
		grants(entity.ResourceProjects, read),
		grants(entity.ResourceTasks, read, create),
		grants(entity.ResourceExpenses, read, create),
		grants(entity.ResourceLeads, read, create),
		grants(entity.ResourceInvoices, read),
		grants(entity.ResourceUsers, read),
		grants(entity.ResourceNotifications, read, update),
	),
	entity.RoleGuest: set(
		grants(entity.ResourceProjects, read),
		grants(entity.ResourceTasks, read),
	),
}

func allResources() map[entity.PermissionKey]struct{} {
	groups := make([][]entity.PermissionKey, 0, len(entity.Resources()))
	for _, r := range entity.Resources() {
		groups = append(groups, all(r))
	}
	return set(groups...)
}

// ownerGrants pares que el dueño del recurso obtiene aunque su rol no los tenga.
// El caso de uso decide cuándo hay dueño (p. ej. solo gastos PENDING para delete).
var ownerGrants = set(
	grants(entity.ResourceTasks, update),
	grants(entity.ResourceExpenses, update, del),
	grants(entity.ResourceLeads, update),
)
