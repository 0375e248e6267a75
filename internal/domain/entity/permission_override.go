package entity

import "time"

// PermissionOverride concede o niega explícitamente (Resource, Action) a un usuario.
// Hay a lo sumo uno por (UserID, Resource, Action); la unicidad la garantiza la tabla.
type PermissionOverride struct {
	ID        string
	UserID    string
	CompanyID string
	Resource  Resource
	Action    Action
	Granted   bool
	GrantedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
