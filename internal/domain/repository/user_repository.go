package repository

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error)
	// UpdateRole cambia el rol solo si el rol actual sigue siendo from; si no, *domain.ConflictError.
	UpdateRole(ctx context.Context, id string, from, to entity.Role) error
	Delete(ctx context.Context, id string) error
}
