package entity

import "time"

// TaskStatus estado de una tarea.
type TaskStatus string

// Estados de tarea.
const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// Task tarea de un proyecto.
type Task struct {
	ID          string
	CompanyID   string
	ProjectID   string
	Title       string
	Description string
	Status      TaskStatus
	CreatedBy   string
	AssigneeID  string // vacío = sin asignar
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerID devuelve el usuario dueño de la tarea a efectos de permisos:
// el asignado si existe, si no el creador.
func (t *Task) OwnerID() string {
	if t.AssigneeID != "" {
		return t.AssigneeID
	}
	return t.CreatedBy
}
