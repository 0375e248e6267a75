package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// TaskFilter filtros de listado.
type TaskFilter struct {
	ProjectID  string
	AssigneeID string
	Status     entity.TaskStatus
	Limit      int
	Offset     int
}

// TaskRepository define el puerto de persistencia para Task.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	ListByCompany(ctx context.Context, companyID string, f TaskFilter) ([]*entity.Task, error)
	// UpdateStatus escribe to solo si el estado persistido sigue siendo from
	// (chequeo optimista). Si no, devuelve *domain.ConflictError.
	UpdateStatus(ctx context.Context, id, companyID string, from, to entity.TaskStatus, at time.Time) error
}
