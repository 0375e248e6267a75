package tasks_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/authz"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/tasks"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/permission"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/memory"
)

const companyID = "c-1"

type recorder struct {
	mu            sync.Mutex
	notifications []entity.Notification
	entries       []entity.AuditEntry
}

func (r *recorder) Notify(_ context.Context, n entity.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorder) Record(_ context.Context, e entity.AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func setup(t *testing.T) (*tasks.UseCase, *memory.Store, *recorder) {
	t.Helper()
	store := memory.New()
	rec := &recorder{}
	az := authz.NewService(permission.NewGate(nil), store.Overrides(), store.Users(), rec)
	return tasks.NewUseCase(store.Tasks(), az, rec, rec, 3), store, rec
}

func actor(id string, role entity.Role) entity.Actor {
	return entity.Actor{ID: id, Role: role, CompanyID: companyID}
}

func seedTask(t *testing.T, store *memory.Store, st entity.TaskStatus, createdBy, assignee string) string {
	t.Helper()
	task := &entity.Task{
		ID:         "t-" + createdBy + "-" + string(st),
		CompanyID:  companyID,
		Title:      "Revisar planos",
		Status:     st,
		CreatedBy:  createdBy,
		AssigneeID: assignee,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, store.Tasks().Create(context.Background(), task))
	return task.ID
}

func TestCreate_NaceEnPending(t *testing.T) {
	uc, _, _ := setup(t)
	out, err := uc.Create(context.Background(), actor("w-1", entity.RoleWorker), dto.CreateTaskRequest{Title: "  Instalar red  "})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, "Instalar red", out.Title)
	assert.Equal(t, "w-1", out.CreatedBy)
	assert.Equal(t, []string{"CANCELLED", "IN_PROGRESS"}, out.NextStatus)
}

func TestCreate_TituloVacio(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.Create(context.Background(), actor("w-1", entity.RoleWorker), dto.CreateTaskRequest{Title: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_GuestNoPuedeCrear(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.Create(context.Background(), actor("g-1", entity.RoleGuest), dto.CreateTaskRequest{Title: "x"})
	var authErr *domain.AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestChangeStatus_AsignadoCompletaYNotificaAlCreador(t *testing.T) {
	uc, store, rec := setup(t)
	id := seedTask(t, store, entity.TaskStatusInProgress, "m-1", "w-1")

	out, err := uc.ChangeStatus(context.Background(), actor("w-1", entity.RoleWorker), id, dto.ChangeTaskStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", out.Status)
	assert.NotNil(t, out.CompletedAt)
	assert.Empty(t, out.NextStatus)

	require.Len(t, rec.notifications, 1)
	assert.Equal(t, "m-1", rec.notifications[0].TargetUserID)
	assert.Equal(t, entity.NotificationTaskCompleted, rec.notifications[0].Type)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, entity.AuditTaskStatus, rec.entries[0].Action)
	assert.Equal(t, "IN_PROGRESS", rec.entries[0].Payload["from"])

	saved, err := store.Tasks().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusCompleted, saved.Status)
}

func TestChangeStatus_CreadorQueCompletaNoSeNotifica(t *testing.T) {
	uc, store, rec := setup(t)
	id := seedTask(t, store, entity.TaskStatusInProgress, "w-1", "")

	_, err := uc.ChangeStatus(context.Background(), actor("w-1", entity.RoleWorker), id, dto.ChangeTaskStatusRequest{Status: "COMPLETED"})
	require.NoError(t, err)
	assert.Empty(t, rec.notifications)
}

func TestChangeStatus_CompletadaNoSeReabre(t *testing.T) {
	uc, store, rec := setup(t)
	id := seedTask(t, store, entity.TaskStatusCompleted, "m-1", "w-1")

	_, err := uc.ChangeStatus(context.Background(), actor("m-1", entity.RoleManager), id, dto.ChangeTaskStatusRequest{Status: "PENDING"})
	var trErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, "COMPLETED", trErr.From)
	assert.Empty(t, rec.entries, "sin efectos secundarios si la transición falla")
}

func TestChangeStatus_WorkerAjenoNoPuedeActualizar(t *testing.T) {
	uc, store, _ := setup(t)
	id := seedTask(t, store, entity.TaskStatusPending, "m-1", "w-2")

	_, err := uc.ChangeStatus(context.Background(), actor("w-1", entity.RoleWorker), id, dto.ChangeTaskStatusRequest{Status: "IN_PROGRESS"})
	var authErr *domain.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "tasks", authErr.Resource)
	assert.Equal(t, "update", authErr.Action)
}

func TestChangeStatus_OtraEmpresaEsNotFound(t *testing.T) {
	uc, store, _ := setup(t)
	id := seedTask(t, store, entity.TaskStatusPending, "m-1", "")

	other := entity.Actor{ID: "a-9", Role: entity.RoleAdmin, CompanyID: "c-2"}
	_, err := uc.ChangeStatus(context.Background(), other, id, dto.ChangeTaskStatusRequest{Status: "IN_PROGRESS"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltraPorEstado(t *testing.T) {
	uc, store, _ := setup(t)
	seedTask(t, store, entity.TaskStatusPending, "w-1", "")
	seedTask(t, store, entity.TaskStatusInProgress, "w-2", "")

	out, err := uc.List(context.Background(), actor("w-1", entity.RoleWorker), dto.TaskListRequest{Status: "PENDING"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "PENDING", out.Items[0].Status)
	assert.Equal(t, 20, out.Page.Limit)

	_, err = uc.List(context.Background(), actor("w-1", entity.RoleWorker), dto.TaskListRequest{Status: "DONE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
