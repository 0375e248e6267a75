package ports

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// Notifier entrega notificaciones a usuarios. La entrega es best-effort y no bloqueante:
// Notify no devuelve error y nunca debe interrumpir la operación que la originó.
type Notifier interface {
	Notify(ctx context.Context, n entity.Notification)
}

// AuditSink registra entradas de auditoría (solo inserción). Los fallos se registran en
// el log; la mutación ya confirmada no se revierte.
type AuditSink interface {
	Record(ctx context.Context, entry entity.AuditEntry)
}

// NopNotifier descarta las notificaciones.
type NopNotifier struct{}

// Notify no hace nada.
func (NopNotifier) Notify(context.Context, entity.Notification) {}

// NopAuditSink descarta las entradas de auditoría.
type NopAuditSink struct{}

// Record no hace nada.
func (NopAuditSink) Record(context.Context, entity.AuditEntry) {}
