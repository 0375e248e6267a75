package entity

import "time"

// Estados de usuario.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User representa un usuario del sistema (pertenece a una Company).
// Las credenciales las gestiona el subsistema de identidad.
type User struct {
	ID        string
	CompanyID string
	Email     string
	Name      string
	Role      Role
	Status    string // active, inactive, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor construye el actor de dominio a partir del usuario.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, CompanyID: u.CompanyID}
}
