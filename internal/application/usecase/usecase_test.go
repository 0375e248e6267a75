package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/authz"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/usecase"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/permission"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/memory"
)

const companyID = "c-1"

type auditRecorder struct {
	mu      sync.Mutex
	entries []entity.AuditEntry
}

func (r *auditRecorder) Record(_ context.Context, e entity.AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

type fixture struct {
	store *memory.Store
	authz *authz.Service
	audit *auditRecorder
	users *usecase.UserUseCase
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	for _, u := range []entity.User{
		{ID: "s-1", CompanyID: companyID, Role: entity.RoleSuperAdmin, Email: "s@x.co"},
		{ID: "a-1", CompanyID: companyID, Role: entity.RoleAdmin, Email: "a@x.co"},
		{ID: "m-1", CompanyID: companyID, Role: entity.RoleManager, Email: "m@x.co"},
		{ID: "m-2", CompanyID: companyID, Role: entity.RoleManager, Email: "m2@x.co"},
		{ID: "w-1", CompanyID: companyID, Role: entity.RoleWorker, Email: "w@x.co"},
		{ID: "w-9", CompanyID: "c-2", Role: entity.RoleWorker, Email: "w9@x.co"},
	} {
		store.PutUser(u)
	}
	rec := &auditRecorder{}
	az := authz.NewService(permission.NewGate(nil), store.Overrides(), store.Users(), rec)
	return &fixture{
		store: store,
		authz: az,
		audit: rec,
		users: usecase.NewUserUseCase(store.Users(), az, rec, 3),
	}
}

func actor(id string, role entity.Role) entity.Actor {
	return entity.Actor{ID: id, Role: role, CompanyID: companyID}
}

func TestChangeRole_AdminPromueveWorker(t *testing.T) {
	f := setup(t)
	out, err := f.users.ChangeRole(context.Background(), actor("a-1", entity.RoleAdmin), "w-1", dto.ChangeRoleRequest{Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "MANAGER", out.Role)

	u, err := f.store.Users().GetByID(context.Background(), "w-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, u.Role)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, entity.AuditUserRoleChanged, f.audit.entries[0].Action)
}

func TestChangeRole_OverrideNoSaltaEscalamiento(t *testing.T) {
	f := setup(t)
	granted := true
	_, err := f.authz.SetOverride(context.Background(), actor("a-1", entity.RoleAdmin), "m-1", dto.SetPermissionOverrideRequest{
		Resource: "users", Action: "update", Granted: &granted,
	})
	require.NoError(t, err)

	_, err = f.users.ChangeRole(context.Background(), actor("m-1", entity.RoleManager), "w-1", dto.ChangeRoleRequest{Role: "ADMIN"})
	var authErr *domain.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "users", authErr.Resource)

	_, err = f.users.ChangeRole(context.Background(), actor("m-1", entity.RoleManager), "m-2", dto.ChangeRoleRequest{Role: "WORKER"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestChangeRole_SoloSuperadminAsignaSuperadmin(t *testing.T) {
	f := setup(t)
	_, err := f.users.ChangeRole(context.Background(), actor("a-1", entity.RoleAdmin), "w-1", dto.ChangeRoleRequest{Role: "SUPERADMIN"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.users.ChangeRole(context.Background(), actor("s-1", entity.RoleSuperAdmin), "w-1", dto.ChangeRoleRequest{Role: "SUPERADMIN"})
	assert.NoError(t, err)
}

func TestChangeRole_PropioRolYOtraEmpresa(t *testing.T) {
	f := setup(t)
	_, err := f.users.ChangeRole(context.Background(), actor("a-1", entity.RoleAdmin), "a-1", dto.ChangeRoleRequest{Role: "WORKER"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.users.ChangeRole(context.Background(), actor("a-1", entity.RoleAdmin), "w-9", dto.ChangeRoleRequest{Role: "MANAGER"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = f.users.ChangeRole(context.Background(), actor("a-1", entity.RoleAdmin), "w-1", dto.ChangeRoleRequest{Role: "OWNER"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_AutoEliminacionNegada(t *testing.T) {
	f := setup(t)
	err := f.users.Delete(context.Background(), actor("s-1", entity.RoleSuperAdmin), "s-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDelete_ManagerBorraWorkerPeroNoManager(t *testing.T) {
	f := setup(t)
	m := actor("m-1", entity.RoleManager)
	assert.ErrorIs(t, f.users.Delete(context.Background(), m, "m-2"), domain.ErrForbidden)
	require.NoError(t, f.users.Delete(context.Background(), m, "w-1"))

	u, err := f.store.Users().GetByID(context.Background(), "w-1")
	require.NoError(t, err)
	assert.Nil(t, u)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, entity.AuditUserDeleted, f.audit.entries[0].Action)
}

func TestList_SoloEmpresaDelActor(t *testing.T) {
	f := setup(t)
	out, err := f.users.List(context.Background(), actor("w-1", entity.RoleWorker), dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 5)

	_, err = f.users.List(context.Background(), actor("g-1", entity.RoleGuest), dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestModuleService(t *testing.T) {
	store := memory.New()
	past := time.Now().Add(-time.Hour)
	store.PutCompany(entity.Company{ID: companyID, Name: "Obras SAS", Status: "active"},
		entity.CompanyModule{CompanyID: companyID, ModuleName: entity.ModuleBilling, IsActive: true},
		entity.CompanyModule{CompanyID: companyID, ModuleName: entity.ModuleCRM, IsActive: true, ExpiresAt: &past},
	)
	svc := usecase.NewModuleService(store.Companies())

	ok, err := svc.HasActiveModule(context.Background(), companyID, entity.ModuleBilling)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasActiveModule(context.Background(), companyID, entity.ModuleCRM)
	require.NoError(t, err)
	assert.False(t, ok, "módulo vencido")

	_, err = svc.HasActiveModule(context.Background(), "", entity.ModuleCRM)
	assert.Error(t, err)
}

func TestAnalyticsSummary(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, f.store.Tasks().Create(ctx, &entity.Task{ID: "t-1", CompanyID: companyID, Status: entity.TaskStatusPending, CreatedAt: now}))
	require.NoError(t, f.store.Tasks().Create(ctx, &entity.Task{ID: "t-2", CompanyID: companyID, Status: entity.TaskStatusPending, CreatedAt: now}))
	require.NoError(t, f.store.Leads().Create(ctx, &entity.Lead{ID: "l-1", CompanyID: companyID, Stage: entity.LeadStageWon}))
	require.NoError(t, f.store.Leads().Create(ctx, &entity.Lead{ID: "l-2", CompanyID: companyID, Stage: entity.LeadStageLost}))
	require.NoError(t, f.store.Leads().Create(ctx, &entity.Lead{ID: "l-3", CompanyID: companyID, Stage: entity.LeadStageLost}))
	require.NoError(t, f.store.Leads().Create(ctx, &entity.Lead{ID: "l-4", CompanyID: companyID, Stage: entity.LeadStageWon}))
	require.NoError(t, f.store.Expenses().Create(ctx, &entity.Expense{ID: "e-1", CompanyID: companyID, Amount: decimal.RequireFromString("12.50"), Status: entity.ExpenseStatusApproved, SpentAt: now}))
	require.NoError(t, f.store.Invoices().Create(ctx, &entity.Invoice{
		ID: "i-1", CompanyID: companyID, Number: "1", Total: decimal.NewFromInt(100), PaidAmount: decimal.NewFromInt(30),
		Balance: decimal.NewFromInt(70), Status: entity.InvoiceStatusOverdue, IssueDate: now,
	}))

	uc := usecase.NewAnalyticsUseCase(f.store.Analytics(), f.authz)
	out, err := uc.Summary(ctx, actor("m-1", entity.RoleManager), dto.SummaryRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TasksByStatus["PENDING"])
	assert.Equal(t, 2, out.LeadsByStage["WON"])
	assert.True(t, out.WinRate.Equal(decimal.NewFromInt(50)))
	assert.True(t, out.ExpensesByState["APPROVED"].Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, 1, out.Receivables.InvoiceCount)
	assert.True(t, out.Receivables.Outstanding.Equal(decimal.NewFromInt(70)))
	assert.True(t, out.Receivables.Overdue.Equal(decimal.NewFromInt(70)))

	_, err = uc.Summary(ctx, actor("w-1", entity.RoleWorker), dto.SummaryRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Summary(ctx, actor("m-1", entity.RoleManager), dto.SummaryRequest{StartDate: "2026-13-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNotifications_ListMineYMarkRead(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.store.Notifications().Create(ctx, &entity.Notification{ID: "n-1", CompanyID: companyID, TargetUserID: "w-1", Title: "Hola", CreatedAt: time.Now()}))
	require.NoError(t, f.store.Notifications().Create(ctx, &entity.Notification{ID: "n-2", CompanyID: companyID, TargetUserID: "m-1", Title: "Otro", CreatedAt: time.Now()}))

	uc := usecase.NewNotificationUseCase(f.store.Notifications(), f.authz)
	w := actor("w-1", entity.RoleWorker)
	out, err := uc.ListMine(ctx, w, dto.NotificationListRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "n-1", out.Items[0].ID)

	require.NoError(t, uc.MarkRead(ctx, w, "n-1"))
	assert.ErrorIs(t, uc.MarkRead(ctx, w, "n-2"), domain.ErrNotFound)

	out, err = uc.ListMine(ctx, w, dto.NotificationListRequest{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}
