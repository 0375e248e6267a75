package crm_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/authz"
	"github.com/jhoicas/Gestion-api/internal/application/crm"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
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

func setup(t *testing.T) (*crm.UseCase, *memory.Store, *recorder) {
	t.Helper()
	store := memory.New()
	store.PutUser(entity.User{ID: "w-1", CompanyID: companyID, Role: entity.RoleWorker})
	store.PutUser(entity.User{ID: "w-9", CompanyID: "c-2", Role: entity.RoleWorker})
	rec := &recorder{}
	az := authz.NewService(permission.NewGate(nil), store.Overrides(), store.Users(), rec)
	return crm.NewUseCase(store.Leads(), store.Users(), az, rec, rec, 3), store, rec
}

func actor(id string, role entity.Role) entity.Actor {
	return entity.Actor{ID: id, Role: role, CompanyID: companyID}
}

func seedLead(t *testing.T, store *memory.Store, id, owner string, stage entity.LeadStage) {
	t.Helper()
	require.NoError(t, store.Leads().Create(context.Background(), &entity.Lead{
		ID:             id,
		CompanyID:      companyID,
		Name:           "Constructora Andina",
		EstimatedValue: decimal.NewFromInt(5000),
		Stage:          stage,
		OwnerID:        owner,
		CreatedBy:      owner,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}))
}

func TestCreateLead_DuenoPorDefecto(t *testing.T) {
	uc, _, _ := setup(t)
	out, err := uc.CreateLead(context.Background(), actor("w-1", entity.RoleWorker), dto.CreateLeadRequest{Name: "Ferretería Sur", EstimatedValue: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, "NEW", out.Stage)
	assert.Equal(t, "w-1", out.OwnerID)
	assert.Equal(t, []string{"CONTACTED", "LOST", "PROPOSAL", "QUALIFIED", "WON"}, out.NextStages)
}

func TestCreateLead_DuenoDeOtraEmpresa(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.CreateLead(context.Background(), actor("m-1", entity.RoleManager), dto.CreateLeadRequest{Name: "X", OwnerID: "w-9"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateLead_ValorNegativo(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.CreateLead(context.Background(), actor("m-1", entity.RoleManager), dto.CreateLeadRequest{Name: "X", EstimatedValue: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMoveStage_DuenoAvanzaSaltandoEtapas(t *testing.T) {
	uc, store, rec := setup(t)
	seedLead(t, store, "l-1", "w-1", entity.LeadStageNew)

	out, err := uc.MoveStage(context.Background(), actor("w-1", entity.RoleWorker), "l-1", dto.MoveLeadStageRequest{Stage: "PROPOSAL"})
	require.NoError(t, err)
	assert.Equal(t, "PROPOSAL", out.Stage)
	assert.Empty(t, rec.entries, "solo el cierre se audita")
}

func TestMoveStage_RetrocederFalla(t *testing.T) {
	uc, store, _ := setup(t)
	seedLead(t, store, "l-1", "w-1", entity.LeadStageQualified)

	_, err := uc.MoveStage(context.Background(), actor("w-1", entity.RoleWorker), "l-1", dto.MoveLeadStageRequest{Stage: "CONTACTED"})
	var trErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, "QUALIFIED", trErr.From)
	assert.Equal(t, "CONTACTED", trErr.To)
}

func TestMoveStage_ManagerCierraYNotificaAlDueno(t *testing.T) {
	uc, store, rec := setup(t)
	seedLead(t, store, "l-1", "w-1", entity.LeadStageProposal)

	out, err := uc.MoveStage(context.Background(), actor("m-1", entity.RoleManager), "l-1", dto.MoveLeadStageRequest{Stage: "LOST", Reason: "precio"})
	require.NoError(t, err)
	assert.Equal(t, "LOST", out.Stage)
	assert.Equal(t, "precio", out.LostReason)
	assert.Empty(t, out.NextStages)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, entity.AuditLeadClosed, rec.entries[0].Action)
	require.Len(t, rec.notifications, 1)
	assert.Equal(t, "w-1", rec.notifications[0].TargetUserID)
}

func TestMoveStage_WorkerAjenoNoPuede(t *testing.T) {
	uc, store, _ := setup(t)
	seedLead(t, store, "l-1", "w-2", entity.LeadStageNew)

	_, err := uc.MoveStage(context.Background(), actor("w-1", entity.RoleWorker), "l-1", dto.MoveLeadStageRequest{Stage: "CONTACTED"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMoveStage_GanadoEsTerminal(t *testing.T) {
	uc, store, _ := setup(t)
	seedLead(t, store, "l-1", "w-1", entity.LeadStageWon)

	_, err := uc.MoveStage(context.Background(), actor("a-1", entity.RoleAdmin), "l-1", dto.MoveLeadStageRequest{Stage: "LOST"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
