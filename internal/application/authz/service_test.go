package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/authz"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/permission"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/memory"
)

const companyID = "c-1"

type auditRecorder struct{ entries []entity.AuditEntry }

func (r *auditRecorder) Record(_ context.Context, e entity.AuditEntry) {
	r.entries = append(r.entries, e)
}

func setup(t *testing.T) (*authz.Service, *memory.Store, *auditRecorder) {
	t.Helper()
	store := memory.New()
	store.PutUser(entity.User{ID: "a-1", CompanyID: companyID, Role: entity.RoleAdmin})
	store.PutUser(entity.User{ID: "m-1", CompanyID: companyID, Role: entity.RoleManager})
	store.PutUser(entity.User{ID: "m-2", CompanyID: companyID, Role: entity.RoleManager})
	store.PutUser(entity.User{ID: "w-1", CompanyID: companyID, Role: entity.RoleWorker})
	store.PutUser(entity.User{ID: "w-9", CompanyID: "c-2", Role: entity.RoleWorker})
	rec := &auditRecorder{}
	return authz.NewService(permission.NewGate(nil), store.Overrides(), store.Users(), rec), store, rec
}

func actor(id string, role entity.Role) entity.Actor {
	return entity.Actor{ID: id, Role: role, CompanyID: companyID}
}

func grant(v bool) *bool { return &v }

func TestAuthorize_CargaOverridesPersistidos(t *testing.T) {
	svc, _, rec := setup(t)
	ctx := context.Background()
	w := actor("w-1", entity.RoleWorker)

	assert.ErrorIs(t, svc.Authorize(ctx, w, entity.ResourceInvoices, entity.ActionCreate, ""), domain.ErrForbidden)

	out, err := svc.SetOverride(ctx, actor("a-1", entity.RoleAdmin), "w-1", dto.SetPermissionOverrideRequest{
		Resource: "invoices", Action: "create", Granted: grant(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "a-1", out.GrantedBy)
	assert.NoError(t, svc.Authorize(ctx, w, entity.ResourceInvoices, entity.ActionCreate, ""))

	require.NoError(t, svc.ClearOverride(ctx, actor("a-1", entity.RoleAdmin), "w-1", entity.ResourceInvoices, entity.ActionCreate))
	assert.ErrorIs(t, svc.Authorize(ctx, w, entity.ResourceInvoices, entity.ActionCreate, ""), domain.ErrForbidden,
		"sin override vuelve a regir el rol")

	require.Len(t, rec.entries, 2)
	assert.Equal(t, entity.AuditPermissionSet, rec.entries[0].Action)
	assert.Equal(t, entity.AuditPermissionClear, rec.entries[1].Action)
}

func TestSetOverride_Reemplaza(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()
	a := actor("a-1", entity.RoleAdmin)

	_, err := svc.SetOverride(ctx, a, "w-1", dto.SetPermissionOverrideRequest{Resource: "leads", Action: "delete", Granted: grant(true)})
	require.NoError(t, err)
	_, err = svc.SetOverride(ctx, a, "w-1", dto.SetPermissionOverrideRequest{Resource: "leads", Action: "delete", Granted: grant(false)})
	require.NoError(t, err)

	list, err := store.Overrides().ListByUser(ctx, "w-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Granted)
}

func TestSetOverride_Reglas(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	req := dto.SetPermissionOverrideRequest{Resource: "tasks", Action: "delete", Granted: grant(true)}

	tests := []struct {
		name    string
		actor   entity.Actor
		target  string
		req     dto.SetPermissionOverrideRequest
		wantErr error
	}{
		{"sobre sí mismo", actor("a-1", entity.RoleAdmin), "a-1", req, domain.ErrForbidden},
		{"manager sobre manager", actor("m-1", entity.RoleManager), "m-2", req, domain.ErrForbidden},
		{"worker sin permiso", actor("w-1", entity.RoleWorker), "m-1", req, domain.ErrForbidden},
		{"otra empresa", actor("a-1", entity.RoleAdmin), "w-9", req, domain.ErrUserNotFound},
		{"recurso desconocido", actor("a-1", entity.RoleAdmin), "w-1", dto.SetPermissionOverrideRequest{Resource: "reports", Action: "read", Granted: grant(true)}, domain.ErrInvalidInput},
		{"granted ausente", actor("a-1", entity.RoleAdmin), "w-1", dto.SetPermissionOverrideRequest{Resource: "tasks", Action: "read"}, domain.ErrInvalidInput},
		{"manager sobre worker", actor("m-1", entity.RoleManager), "w-1", req, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetOverride(ctx, tt.actor, tt.target, tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "error inesperado: %v", err)
		})
	}
}

func TestClearOverride_Inexistente(t *testing.T) {
	svc, _, _ := setup(t)
	err := svc.ClearOverride(context.Background(), actor("a-1", entity.RoleAdmin), "w-1", entity.ResourceTasks, entity.ActionDelete)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOverrides(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	_, err := svc.SetOverride(ctx, actor("a-1", entity.RoleAdmin), "w-1", dto.SetPermissionOverrideRequest{Resource: "tasks", Action: "delete", Granted: grant(true)})
	require.NoError(t, err)

	list, err := svc.ListOverrides(ctx, actor("m-1", entity.RoleManager), "w-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "tasks", list[0].Resource)

	_, err = svc.ListOverrides(ctx, actor("w-1", entity.RoleWorker), "w-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

type failingOverrides struct {
	repository.PermissionOverrideRepository
}

func (failingOverrides) ListByUser(context.Context, string) ([]*entity.PermissionOverride, error) {
	return nil, errors.New("conexión rechazada")
}

func TestAuthorize_FalloDeInfraestructuraNoConcede(t *testing.T) {
	store := memory.New()
	svc := authz.NewService(permission.NewGate(nil), failingOverrides{}, store.Users(), nil)
	err := svc.Authorize(context.Background(), actor("a-1", entity.RoleAdmin), entity.ResourceTasks, entity.ActionRead, "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrForbidden))
}
