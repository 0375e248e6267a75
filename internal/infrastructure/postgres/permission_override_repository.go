package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.PermissionOverrideRepository = (*PermissionOverrideRepo)(nil)

// PermissionOverrideRepo overrides de permisos por usuario.
type PermissionOverrideRepo struct {
	q Querier
}

// NewPermissionOverrideRepository construye el adaptador.
func NewPermissionOverrideRepository(q Querier) *PermissionOverrideRepo {
	return &PermissionOverrideRepo{q: q}
}

// ListByUser devuelve los overrides del usuario.
func (r *PermissionOverrideRepo) ListByUser(ctx context.Context, userID string) ([]*entity.PermissionOverride, error) {
	const query = `
		SELECT id, user_id, company_id, resource, action, granted, granted_by, created_at, updated_at
		FROM permission_overrides WHERE user_id = $1
		ORDER BY resource, action`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.PermissionOverride, 0)
	for rows.Next() {
		var o entity.PermissionOverride
		var grantedBy *string
		if err := rows.Scan(&o.ID, &o.UserID, &o.CompanyID, &o.Resource, &o.Action, &o.Granted, &grantedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		o.GrantedBy = deref(grantedBy)
		list = append(list, &o)
	}
	return list, rows.Err()
}

// Upsert crea o reemplaza el override de (user_id, resource, action).
// Si ya existía conserva su id y created_at.
func (r *PermissionOverrideRepo) Upsert(ctx context.Context, o *entity.PermissionOverride) error {
	const query = `
		INSERT INTO permission_overrides (id, user_id, company_id, resource, action, granted, granted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, resource, action) DO UPDATE
		   SET granted    = EXCLUDED.granted,
		       granted_by = EXCLUDED.granted_by,
		       updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		o.ID, o.UserID, o.CompanyID, o.Resource, o.Action, o.Granted, nullIfEmpty(o.GrantedBy), o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert override: %w", err)
	}
	return nil
}

// Delete elimina el override; domain.ErrNotFound si no existía.
func (r *PermissionOverrideRepo) Delete(ctx context.Context, userID string, resource entity.Resource, action entity.Action) error {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM permission_overrides WHERE user_id = $1 AND resource = $2 AND action = $3`,
		userID, resource, action,
	)
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
