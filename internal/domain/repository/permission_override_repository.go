package repository

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// PermissionOverrideRepository persiste overrides de permisos por usuario.
// (user_id, resource, action) es único.
type PermissionOverrideRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*entity.PermissionOverride, error)
	// Upsert crea o reemplaza el override de (UserID, Resource, Action).
	Upsert(ctx context.Context, o *entity.PermissionOverride) error
	// Delete elimina el override; devuelve domain.ErrNotFound si no existía.
	Delete(ctx context.Context, userID string, resource entity.Resource, action entity.Action) error
}
