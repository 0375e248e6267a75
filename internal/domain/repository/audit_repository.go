package repository

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// AuditLogRepository registro de auditoría. Append es la única mutación expuesta.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *entity.AuditEntry) error
	ListByEntity(ctx context.Context, companyID, entityType, entityID string) ([]*entity.AuditEntry, error)
}

// NotificationRepository persiste notificaciones para su consulta posterior.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error)
	// MarkRead marca la notificación como leída si pertenece a userID.
	MarkRead(ctx context.Context, id, userID string) error
}
