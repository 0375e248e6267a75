package dto

import "time"

// UserResponse salida de un usuario.
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios de la empresa.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ChangeRoleRequest body para PUT /api/users/:id/role.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// SetPermissionOverrideRequest body para PUT /api/permissions/users/:id.
// Granted es puntero para distinguir "false" de "ausente".
type SetPermissionOverrideRequest struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Granted  *bool  `json:"granted"`
}

// PermissionOverrideResponse override vigente de un usuario.
type PermissionOverrideResponse struct {
	UserID    string    `json:"user_id"`
	Resource  string    `json:"resource"`
	Action    string    `json:"action"`
	Granted   bool      `json:"granted"`
	GrantedBy string    `json:"granted_by"`
	UpdatedAt time.Time `json:"updated_at"`
}
