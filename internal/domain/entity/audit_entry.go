package entity

import "time"

// Acciones de auditoría.
const (
	AuditExpenseApproved = "expense.approved"
	AuditExpenseRejected = "expense.rejected"
	AuditExpenseDeleted  = "expense.deleted"
	AuditTaskStatus      = "task.status_changed"
	AuditLeadClosed      = "lead.closed"
	AuditInvoiceStatus   = "invoice.status_changed"
	AuditPaymentRecorded = "payment.recorded"
	AuditUserRoleChanged = "user.role_changed"
	AuditUserDeleted     = "user.deleted"
	AuditPermissionSet   = "permission.override_set"
	AuditPermissionClear = "permission.override_cleared"
)

// AuditEntry registro inmutable (solo inserción) del log de auditoría.
type AuditEntry struct {
	ID         string
	CompanyID  string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Payload    map[string]any
	CreatedAt  time.Time
}
