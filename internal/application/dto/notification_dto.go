package dto

import "time"

// NotificationListRequest filtros de GET /api/notifications.
type NotificationListRequest struct {
	PageRequest
	UnreadOnly bool `query:"unread"`
}

// NotificationResponse notificación del usuario autenticado.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse lista paginada de notificaciones.
type NotificationListResponse struct {
	Items []NotificationResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
