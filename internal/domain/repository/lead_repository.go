package repository

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// LeadFilter filtros de listado.
type LeadFilter struct {
	OwnerID string
	Stage   entity.LeadStage
	Limit   int
	Offset  int
}

// LeadRepository define el puerto de persistencia para Lead.
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
	ListByCompany(ctx context.Context, companyID string, f LeadFilter) ([]*entity.Lead, error)
	// UpdateStage escribe lead.Stage (y LostReason) si la etapa persistida sigue siendo from.
	// Si no, devuelve *domain.ConflictError.
	UpdateStage(ctx context.Context, lead *entity.Lead, from entity.LeadStage) error
}
