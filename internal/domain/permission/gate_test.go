package permission_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/permission"
)

const (
	companyA = "00000000-0000-0000-0000-00000000000a"
	companyB = "00000000-0000-0000-0000-00000000000b"
)

func actor(id string, role entity.Role) entity.Actor {
	return entity.Actor{ID: id, Role: role, CompanyID: companyA}
}

// golden lista, por rol, los pares "recurso:acción" permitidos por defecto.
// Todo lo que no aparece debe ser denegado.
var golden = map[entity.Role][]string{
	entity.RoleManager: {
		"projects:read", "projects:create", "projects:update",
		"tasks:read", "tasks:create", "tasks:update", "tasks:delete", "tasks:approve",
		"expenses:read", "expenses:create", "expenses:update", "expenses:approve",
		"leads:read", "leads:create", "leads:update",
		"invoices:read", "invoices:create", "invoices:update",
		"payments:read", "payments:create",
		"users:read", "users:update", "users:delete",
		"permissions:read", "permissions:update",
		"analytics:read",
		"notifications:read", "notifications:update",
	},
	entity.RoleWorker: {
		"projects:read",
		"tasks:read", "tasks:create",
		"expenses:read", "expenses:create",
		"leads:read", "leads:create",
		"invoices:read",
		"users:read",
		"notifications:read", "notifications:update",
	},
	entity.RoleGuest: {
		"projects:read",
		"tasks:read",
	},
}

func TestAuthorize_MatrizPorRol(t *testing.T) {
	gate := permission.NewGate(nil)

	for _, role := range entity.Roles() {
		allowed := map[string]bool{}
		for _, k := range golden[role] {
			allowed[k] = true
		}
		fullAccess := role == entity.RoleAdmin || role == entity.RoleSuperAdmin

		for _, res := range entity.Resources() {
			for _, act := range entity.Actions() {
				key := string(res) + ":" + string(act)
				err := gate.Authorize(actor("u-1", role), res, act, "")
				if fullAccess || allowed[key] {
					assert.NoError(t, err, "%s debe tener %s", role, key)
				} else {
					var authErr *domain.AuthorizationError
					require.ErrorAs(t, err, &authErr, "%s no debe tener %s", role, key)
					assert.Equal(t, string(res), authErr.Resource)
					assert.Equal(t, string(act), authErr.Action)
					assert.True(t, errors.Is(err, domain.ErrForbidden))
				}
			}
		}
	}
}

func TestAuthorize_OverrideConcedeLoQueElRolNiega(t *testing.T) {
	gate := permission.NewGate(nil)
	worker := actor("w-1", entity.RoleWorker).WithOverrides([]*entity.PermissionOverride{
		{UserID: "w-1", Resource: entity.ResourceInvoices, Action: entity.ActionCreate, Granted: true},
	})

	assert.NoError(t, gate.Authorize(worker, entity.ResourceInvoices, entity.ActionCreate, ""))
	assert.Error(t, gate.Authorize(worker, entity.ResourceInvoices, entity.ActionUpdate, ""),
		"el override solo aplica al par indicado")
}

func TestAuthorize_OverrideNiegaLoQueElRolPermite(t *testing.T) {
	gate := permission.NewGate(nil)
	admin := actor("a-1", entity.RoleAdmin).WithOverrides([]*entity.PermissionOverride{
		{UserID: "a-1", Resource: entity.ResourcePayments, Action: entity.ActionCreate, Granted: false},
	})

	err := gate.Authorize(admin, entity.ResourcePayments, entity.ActionCreate, "")
	var authErr *domain.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "payments", authErr.Resource)
	assert.Equal(t, "create", authErr.Action)
}

func TestAuthorize_OverrideDeOtroUsuarioSeIgnora(t *testing.T) {
	worker := actor("w-1", entity.RoleWorker).WithOverrides([]*entity.PermissionOverride{
		{UserID: "w-2", Resource: entity.ResourceInvoices, Action: entity.ActionCreate, Granted: true},
	})
	assert.Empty(t, worker.Overrides)
}

func TestAuthorize_DuenoPuedeBorrarSuGasto(t *testing.T) {
	gate := permission.NewGate(nil)
	worker := actor("w-1", entity.RoleWorker)

	assert.Error(t, gate.Authorize(worker, entity.ResourceExpenses, entity.ActionDelete, ""))
	assert.Error(t, gate.Authorize(worker, entity.ResourceExpenses, entity.ActionDelete, "otro"))
	assert.NoError(t, gate.Authorize(worker, entity.ResourceExpenses, entity.ActionDelete, "w-1"))
	assert.NoError(t, gate.Authorize(worker, entity.ResourceTasks, entity.ActionUpdate, "w-1"))
	assert.Error(t, gate.Authorize(worker, entity.ResourceInvoices, entity.ActionUpdate, "w-1"),
		"la propiedad solo concede los pares definidos")
}

func TestAuthorize_OverrideDenegadoGanaSobrePropiedad(t *testing.T) {
	gate := permission.NewGate(nil)
	worker := actor("w-1", entity.RoleWorker).WithOverrides([]*entity.PermissionOverride{
		{UserID: "w-1", Resource: entity.ResourceExpenses, Action: entity.ActionDelete, Granted: false},
	})
	assert.Error(t, gate.Authorize(worker, entity.ResourceExpenses, entity.ActionDelete, "w-1"))
}

func TestAuthorize_GuestNoObtienePropiedad(t *testing.T) {
	gate := permission.NewGate(nil)
	guest := actor("g-1", entity.RoleGuest)
	assert.Error(t, gate.Authorize(guest, entity.ResourceTasks, entity.ActionUpdate, "g-1"))
}

func TestAuthorize_ActorOParametrosInvalidos(t *testing.T) {
	gate := permission.NewGate(nil)
	assert.Error(t, gate.Authorize(entity.Actor{Role: entity.RoleAdmin}, entity.ResourceTasks, entity.ActionRead, ""))
	assert.Error(t, gate.Authorize(actor("x", "ROOT"), entity.ResourceTasks, entity.ActionRead, ""))
	assert.Error(t, gate.Authorize(actor("x", entity.RoleAdmin), "reports", entity.ActionRead, ""))
	assert.Error(t, gate.Authorize(actor("x", entity.RoleAdmin), entity.ResourceTasks, "export", ""))
}

func TestAuthorizeRoleChange(t *testing.T) {
	gate := permission.NewGate(nil)
	permissive := []*entity.PermissionOverride{
		{UserID: "m-1", Resource: entity.ResourceUsers, Action: entity.ActionUpdate, Granted: true},
	}
	manager := actor("m-1", entity.RoleManager).WithOverrides(permissive)
	worker := &entity.User{ID: "w-1", CompanyID: companyA, Role: entity.RoleWorker}
	otherManager := &entity.User{ID: "m-2", CompanyID: companyA, Role: entity.RoleManager}

	tests := []struct {
		name    string
		actor   entity.Actor
		target  *entity.User
		newRole entity.Role
		wantErr bool
	}{
		{"manager promueve a manager", manager, worker, entity.RoleManager, true},
		{"manager promueve a admin", manager, worker, entity.RoleAdmin, true},
		{"manager edita a otro manager", manager, otherManager, entity.RoleWorker, true},
		{"manager asigna guest a worker", manager, worker, entity.RoleGuest, false},
		{"admin promueve a manager", actor("a-1", entity.RoleAdmin), worker, entity.RoleManager, false},
		{"admin asigna superadmin", actor("a-1", entity.RoleAdmin), worker, entity.RoleSuperAdmin, true},
		{"superadmin asigna superadmin", actor("s-1", entity.RoleSuperAdmin), worker, entity.RoleSuperAdmin, false},
		{"admin cambia su propio rol", actor("w-1", entity.RoleAdmin), worker, entity.RoleWorker, true},
		{"admin de otra empresa", entity.Actor{ID: "a-9", Role: entity.RoleAdmin, CompanyID: companyB}, worker, entity.RoleManager, true},
		{"worker no puede editar usuarios", actor("w-9", entity.RoleWorker), worker, entity.RoleGuest, true},
		{"rol desconocido", actor("a-1", entity.RoleAdmin), worker, "OWNER", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.AuthorizeRoleChange(tt.actor, tt.target, tt.newRole)
			if tt.wantErr {
				var authErr *domain.AuthorizationError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, "users", authErr.Resource)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAuthorizeUserDeletion(t *testing.T) {
	gate := permission.NewGate(nil)
	selfOverride := []*entity.PermissionOverride{
		{UserID: "s-1", Resource: entity.ResourceUsers, Action: entity.ActionDelete, Granted: true},
	}
	super := actor("s-1", entity.RoleSuperAdmin).WithOverrides(selfOverride)

	err := gate.AuthorizeUserDeletion(super, &entity.User{ID: "s-1", CompanyID: companyA, Role: entity.RoleSuperAdmin})
	require.Error(t, err, "la auto-eliminación se niega siempre")

	assert.NoError(t, gate.AuthorizeUserDeletion(actor("a-1", entity.RoleAdmin), &entity.User{ID: "m-1", CompanyID: companyA, Role: entity.RoleManager}))
	assert.Error(t, gate.AuthorizeUserDeletion(actor("m-1", entity.RoleManager), &entity.User{ID: "a-1", CompanyID: companyA, Role: entity.RoleAdmin}))
	assert.NoError(t, gate.AuthorizeUserDeletion(actor("m-1", entity.RoleManager), &entity.User{ID: "w-1", CompanyID: companyA, Role: entity.RoleWorker}))
	assert.Error(t, gate.AuthorizeUserDeletion(actor("w-1", entity.RoleWorker), &entity.User{ID: "w-2", CompanyID: companyA, Role: entity.RoleWorker}))
}

func TestAuthorizeOverrideChange(t *testing.T) {
	gate := permission.NewGate(nil)
	admin := actor("a-1", entity.RoleAdmin)

	assert.Error(t, gate.AuthorizeOverrideChange(admin, &entity.User{ID: "a-1", CompanyID: companyA, Role: entity.RoleAdmin}))
	assert.NoError(t, gate.AuthorizeOverrideChange(admin, &entity.User{ID: "w-1", CompanyID: companyA, Role: entity.RoleWorker}))
	assert.Error(t, gate.AuthorizeOverrideChange(actor("m-1", entity.RoleManager), &entity.User{ID: "m-2", CompanyID: companyA, Role: entity.RoleManager}))
	assert.Error(t, gate.AuthorizeOverrideChange(admin, &entity.User{ID: "w-2", CompanyID: companyB, Role: entity.RoleWorker}))
}

func TestRole_Jerarquia(t *testing.T) {
	assert.True(t, entity.RoleSuperAdmin.AtLeast(entity.RoleAdmin))
	assert.True(t, entity.RoleManager.AtLeast(entity.RoleWorker))
	assert.False(t, entity.RoleWorker.AtLeast(entity.RoleManager))
	assert.False(t, entity.RoleGuest.AtLeast(entity.RoleGuest))
	assert.False(t, entity.RoleGuest.AtLeast(entity.RoleWorker))
	assert.True(t, entity.RoleManager.Elevated())
	assert.False(t, entity.RoleWorker.Elevated())
}
