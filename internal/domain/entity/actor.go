package entity

// Resource nombre de un recurso protegido por el gate de permisos.
type Resource string

// Recursos protegidos.
const (
	ResourceProjects      Resource = "projects"
	ResourceTasks         Resource = "tasks"
	ResourceExpenses      Resource = "expenses"
	ResourceLeads         Resource = "leads"
	ResourceInvoices      Resource = "invoices"
	ResourcePayments      Resource = "payments"
	ResourceUsers         Resource = "users"
	ResourcePermissions   Resource = "permissions"
	ResourceAnalytics     Resource = "analytics"
	ResourceNotifications Resource = "notifications"
)

// Action acción sobre un recurso.
type Action string

// Acciones reconocidas.
const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
)

// Resources devuelve todos los recursos conocidos.
func Resources() []Resource {
	return []Resource{
		ResourceProjects, ResourceTasks, ResourceExpenses, ResourceLeads, ResourceInvoices,
		ResourcePayments, ResourceUsers, ResourcePermissions, ResourceAnalytics, ResourceNotifications,
	}
}

// Actions devuelve todas las acciones conocidas.
func Actions() []Action {
	return []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionApprove}
}

// Valid informa si r es un recurso conocido.
func (r Resource) Valid() bool {
	for _, known := range Resources() {
		if r == known {
			return true
		}
	}
	return false
}

// Valid informa si a es una acción conocida.
func (a Action) Valid() bool {
	for _, known := range Actions() {
		if a == known {
			return true
		}
	}
	return false
}

// PermissionKey identifica un par (recurso, acción).
type PermissionKey struct {
	Resource Resource
	Action   Action
}

// Actor es el usuario autenticado que ejecuta una operación.
// Overrides contiene los permisos explícitos por usuario; ausencia = usar el rol.
type Actor struct {
	ID        string
	Role      Role
	CompanyID string
	Overrides map[PermissionKey]bool
}

// WithOverrides devuelve una copia del actor con los overrides indicados.
func (a Actor) WithOverrides(overrides []*PermissionOverride) Actor {
	m := make(map[PermissionKey]bool, len(overrides))
	for _, o := range overrides {
		if o == nil || o.UserID != a.ID {
			continue
		}
		m[PermissionKey{Resource: o.Resource, Action: o.Action}] = o.Granted
	}
	a.Overrides = m
	return a
}
