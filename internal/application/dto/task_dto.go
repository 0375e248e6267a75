package dto

import "time"

// CreateTaskRequest body para POST /api/tasks.
type CreateTaskRequest struct {
	ProjectID   string     `json:"project_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// ChangeTaskStatusRequest body para PUT /api/tasks/:id/status.
type ChangeTaskStatusRequest struct {
	Status string `json:"status"`
}

// TaskListRequest filtros de GET /api/tasks.
type TaskListRequest struct {
	PageRequest
	ProjectID  string `query:"project_id"`
	AssigneeID string `query:"assignee_id"`
	Status     string `query:"status"`
}

// TaskResponse tarea en respuestas, con las transiciones disponibles desde su estado.
type TaskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	NextStatus  []string   `json:"next_status"`
	CreatedBy   string     `json:"created_by"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskListResponse lista paginada de tareas.
type TaskListResponse struct {
	Items []TaskResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
