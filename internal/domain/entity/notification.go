package entity

import "time"

// Tipos de notificación.
const (
	NotificationTaskCompleted   = "task_completed"
	NotificationExpenseReviewed = "expense_reviewed"
	NotificationLeadClosed      = "lead_closed"
	NotificationPaymentReceived = "payment_received"
)

// Notification mensaje para un usuario.
type Notification struct {
	ID           string
	CompanyID    string
	TargetUserID string
	Type         string
	Title        string
	Message      string
	Link         string
	Read         bool
	CreatedAt    time.Time
}
