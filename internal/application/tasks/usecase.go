// Package tasks casos de uso de tareas: creación, consulta y cambios de estado.
package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/application/retry"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/domain/status"
)

// UseCase orquesta tareas con verificación de permisos y máquina de estados.
type UseCase struct {
	repo     repository.TaskRepository
	authz    ports.Authorizer
	notifier ports.Notifier
	audit    ports.AuditSink
	retries  int
	now      func() time.Time
}

// NewUseCase construye el caso de uso. retries es el máximo de intentos ante conflictos.
func NewUseCase(
	repo repository.TaskRepository,
	authz ports.Authorizer,
	notifier ports.Notifier,
	audit ports.AuditSink,
	retries int,
) *UseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &UseCase{
		repo:     repo,
		authz:    authz,
		notifier: notifier,
		audit:    audit,
		retries:  retries,
		now:      time.Now,
	}
}

// Create registra una tarea en PENDING.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceTasks, entity.ActionCreate, ""); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	task := &entity.Task{
		ID:          uuid.New().String(),
		CompanyID:   actor.CompanyID,
		ProjectID:   in.ProjectID,
		Title:       title,
		Description: in.Description,
		Status:      entity.TaskStatusPending,
		CreatedBy:   actor.ID,
		AssigneeID:  in.AssigneeID,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return toResponse(task), nil
}

// Get devuelve una tarea de la empresa del actor.
func (uc *UseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.TaskResponse, error) {
	task, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceTasks, entity.ActionRead, task.OwnerID()); err != nil {
		return nil, err
	}
	return toResponse(task), nil
}

// List lista tareas de la empresa con filtros opcionales.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, in dto.TaskListRequest) (*dto.TaskListResponse, error) {
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceTasks, entity.ActionRead, ""); err != nil {
		return nil, err
	}
	st := entity.TaskStatus(in.Status)
	if st != "" && !status.Task.Valid(st) {
		return nil, domain.ErrInvalidInput
	}
	in.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, actor.CompanyID, repository.TaskFilter{
		ProjectID:  in.ProjectID,
		AssigneeID: in.AssigneeID,
		Status:     st,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toResponse(t))
	}
	return &dto.TaskListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// ChangeStatus mueve la tarea al estado pedido. El dueño (asignado o, si no hay, el
// creador) puede actualizarla aunque su rol no lo permita. Ante una escritura concurrente
// se relee y se revalida.
func (uc *UseCase) ChangeStatus(ctx context.Context, actor entity.Actor, id string, in dto.ChangeTaskStatusRequest) (*dto.TaskResponse, error) {
	next := entity.TaskStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if next == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		task *entity.Task
		from entity.TaskStatus
	)
	err := retry.OnConflict(ctx, uc.retries, func() error {
		t, err := uc.load(ctx, actor, id)
		if err != nil {
			return err
		}
		if err := uc.authz.Authorize(ctx, actor, entity.ResourceTasks, entity.ActionUpdate, t.OwnerID()); err != nil {
			return err
		}
		if err := status.Task.Transition(t.Status, next); err != nil {
			return err
		}
		now := uc.now()
		if err := uc.repo.UpdateStatus(ctx, t.ID, t.CompanyID, t.Status, next, now); err != nil {
			return err
		}
		from = t.Status
		t.Status = next
		t.UpdatedAt = now
		if next == entity.TaskStatusCompleted {
			t.CompletedAt = &now
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, entity.AuditEntry{
		CompanyID:  task.CompanyID,
		ActorID:    actor.ID,
		Action:     entity.AuditTaskStatus,
		EntityType: "task",
		EntityID:   task.ID,
		Payload:    map[string]any{"from": string(from), "to": string(next)},
	})
	if next == entity.TaskStatusCompleted && task.CreatedBy != actor.ID {
		uc.notifier.Notify(ctx, entity.Notification{
			CompanyID:    task.CompanyID,
			TargetUserID: task.CreatedBy,
			Type:         entity.NotificationTaskCompleted,
			Title:        "Tarea completada",
			Message:      "La tarea \"" + task.Title + "\" fue completada",
			Link:         "/tasks/" + task.ID,
		})
	}
	return toResponse(task), nil
}

// load obtiene la tarea; las de otra empresa se reportan como inexistentes.
func (uc *UseCase) load(ctx context.Context, actor entity.Actor, id string) (*entity.Task, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	task, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil || task.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

func toResponse(t *entity.Task) *dto.TaskResponse {
	next := status.Task.Allowed(t.Status)
	nextStr := make([]string, 0, len(next))
	for _, s := range next {
		nextStr = append(nextStr, string(s))
	}
	return &dto.TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		NextStatus:  nextStr,
		CreatedBy:   t.CreatedBy,
		AssigneeID:  t.AssigneeID,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
