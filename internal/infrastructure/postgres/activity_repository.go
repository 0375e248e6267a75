package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo log de auditoría (solo inserción). El payload se guarda como JSONB.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Append inserta la entrada.
func (r *AuditLogRepo) Append(ctx context.Context, e *entity.AuditEntry) error {
	const query = `
		INSERT INTO audit_logs (id, company_id, actor_id, action, entity_type, entity_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	payload := e.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	_, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, nullIfEmpty(e.ActorID), e.Action, e.EntityType, e.EntityID, payload, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByEntity historial de una entidad en orden cronológico.
func (r *AuditLogRepo) ListByEntity(ctx context.Context, companyID, entityType, entityID string) ([]*entity.AuditEntry, error) {
	const query = `
		SELECT id, company_id, actor_id, action, entity_type, entity_id, payload, created_at
		FROM audit_logs
		WHERE company_id = $1 AND entity_type = $2 AND entity_id = $3
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, companyID, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.AuditEntry, 0)
	for rows.Next() {
		var e entity.AuditEntry
		var actor *string
		if err := rows.Scan(&e.ID, &e.CompanyID, &actor, &e.Action, &e.EntityType, &e.EntityID, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		e.ActorID = deref(actor)
		list = append(list, &e)
	}
	return list, rows.Err()
}

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo notificaciones por usuario.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create inserta la notificación.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	const query = `
		INSERT INTO notifications (id, company_id, target_user_id, type, title, message, link, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.CompanyID, n.TargetUserID, n.Type, n.Title, n.Message, n.Link, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByUser notificaciones del usuario, más recientes primero.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	const query = `
		SELECT id, company_id, target_user_id, type, title, message, link, is_read, created_at
		FROM notifications
		WHERE target_user_id = $1 AND (NOT $2 OR is_read = false)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, userID, unreadOnly, limitOrAll(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Notification, 0)
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.TargetUserID, &n.Type, &n.Title, &n.Message, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// MarkRead marca como leída; domain.ErrNotFound si no existe o es de otro usuario.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND target_user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
