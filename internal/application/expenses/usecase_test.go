package expenses_test

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
	"github.com/jhoicas/Gestion-api/internal/application/expenses"
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

func setup(t *testing.T) (*expenses.UseCase, *memory.Store, *recorder) {
	t.Helper()
	store := memory.New()
	rec := &recorder{}
	az := authz.NewService(permission.NewGate(nil), store.Overrides(), store.Users(), rec)
	return expenses.NewUseCase(store.Expenses(), az, rec, rec, 3, decimal.NewFromInt(1000)), store, rec
}

func actor(id string, role entity.Role) entity.Actor {
	return entity.Actor{ID: id, Role: role, CompanyID: companyID}
}

func seedExpense(t *testing.T, store *memory.Store, id, createdBy string, amount string, st entity.ExpenseStatus) {
	t.Helper()
	require.NoError(t, store.Expenses().Create(context.Background(), &entity.Expense{
		ID:          id,
		CompanyID:   companyID,
		Description: "Viáticos",
		Amount:      decimal.RequireFromString(amount),
		Status:      st,
		CreatedBy:   createdBy,
		SpentAt:     time.Now(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}))
}

func TestCreate_ValidaMonto(t *testing.T) {
	uc, _, _ := setup(t)
	w := actor("w-1", entity.RoleWorker)

	out, err := uc.Create(context.Background(), w, dto.CreateExpenseRequest{Description: "Taxi", Amount: decimal.RequireFromString("25.50")})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, "w-1", out.CreatedBy)

	_, err = uc.Create(context.Background(), w, dto.CreateExpenseRequest{Description: "Taxi", Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = uc.Create(context.Background(), w, dto.CreateExpenseRequest{Description: "Taxi", Amount: decimal.RequireFromString("1.001")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = uc.Create(context.Background(), w, dto.CreateExpenseRequest{Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReview_ManagerApruebaYNotifica(t *testing.T) {
	uc, store, rec := setup(t)
	seedExpense(t, store, "e-1", "w-1", "300", entity.ExpenseStatusPending)

	out, err := uc.Review(context.Background(), actor("m-1", entity.RoleManager), "e-1", dto.ReviewExpenseRequest{Status: "approved", Note: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", out.Status)
	assert.Equal(t, "m-1", out.ReviewedBy)
	require.NotNil(t, out.ReviewedAt)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, entity.AuditExpenseApproved, rec.entries[0].Action)
	require.Len(t, rec.notifications, 1)
	assert.Equal(t, "w-1", rec.notifications[0].TargetUserID)
}

func TestReview_ManagerSobreElTope(t *testing.T) {
	uc, store, _ := setup(t)
	seedExpense(t, store, "e-1", "w-1", "1500", entity.ExpenseStatusPending)

	_, err := uc.Review(context.Background(), actor("m-1", entity.RoleManager), "e-1", dto.ReviewExpenseRequest{Status: "APPROVED"})
	var authErr *domain.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "approve", authErr.Action)

	_, err = uc.Review(context.Background(), actor("m-1", entity.RoleManager), "e-1", dto.ReviewExpenseRequest{Status: "REJECTED"})
	assert.NoError(t, err, "el tope solo limita aprobaciones")
}

func TestReview_AdminSinTope(t *testing.T) {
	uc, store, _ := setup(t)
	seedExpense(t, store, "e-1", "w-1", "1500", entity.ExpenseStatusPending)

	_, err := uc.Review(context.Background(), actor("a-1", entity.RoleAdmin), "e-1", dto.ReviewExpenseRequest{Status: "APPROVED"})
	assert.NoError(t, err)
}

func TestReview_NoSeRevisaElPropio(t *testing.T) {
	uc, store, _ := setup(t)
	seedExpense(t, store, "e-1", "m-1", "10", entity.ExpenseStatusPending)

	_, err := uc.Review(context.Background(), actor("m-1", entity.RoleManager), "e-1", dto.ReviewExpenseRequest{Status: "APPROVED"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReview_WorkerNoAprueba(t *testing.T) {
	uc, store, _ := setup(t)
	seedExpense(t, store, "e-1", "w-2", "10", entity.ExpenseStatusPending)

	_, err := uc.Review(context.Background(), actor("w-1", entity.RoleWorker), "e-1", dto.ReviewExpenseRequest{Status: "APPROVED"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReview_YaRevisadoEsTransicionInvalida(t *testing.T) {
	uc, store, rec := setup(t)
	seedExpense(t, store, "e-1", "w-1", "10", entity.ExpenseStatusApproved)

	_, err := uc.Review(context.Background(), actor("a-1", entity.RoleAdmin), "e-1", dto.ReviewExpenseRequest{Status: "REJECTED"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, rec.notifications)
}

func TestReview_EstadoDestinoInvalido(t *testing.T) {
	uc, store, _ := setup(t)
	seedExpense(t, store, "e-1", "w-1", "10", entity.ExpenseStatusPending)

	_, err := uc.Review(context.Background(), actor("a-1", entity.RoleAdmin), "e-1", dto.ReviewExpenseRequest{Status: "PENDING"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_DuenoBorraSuGastoPendiente(t *testing.T) {
	uc, store, rec := setup(t)
	seedExpense(t, store, "e-1", "w-1", "10", entity.ExpenseStatusPending)

	require.NoError(t, uc.Delete(context.Background(), actor("w-1", entity.RoleWorker), "e-1"))
	got, err := store.Expenses().GetByID(context.Background(), "e-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, entity.AuditExpenseDeleted, rec.entries[0].Action)
}

func TestDelete_DuenoNoBorraGastoAprobado(t *testing.T) {
	uc, store, _ := setup(t)
	seedExpense(t, store, "e-1", "w-1", "10", entity.ExpenseStatusApproved)

	err := uc.Delete(context.Background(), actor("w-1", entity.RoleWorker), "e-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDelete_OtroWorkerNoBorra(t *testing.T) {
	uc, store, _ := setup(t)
	seedExpense(t, store, "e-1", "w-1", "10", entity.ExpenseStatusPending)

	err := uc.Delete(context.Background(), actor("w-2", entity.RoleWorker), "e-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDelete_AdminBorraCualquierEstado(t *testing.T) {
	uc, store, _ := setup(t)
	seedExpense(t, store, "e-1", "w-1", "10", entity.ExpenseStatusApproved)

	assert.NoError(t, uc.Delete(context.Background(), actor("a-1", entity.RoleAdmin), "e-1"))
}
