package entity

// Role rol de un usuario dentro de su empresa (tenant).
type Role string

// Roles válidos. WORKER < MANAGER < ADMIN < SUPERADMIN; GUEST queda fuera de la jerarquía.
const (
	RoleGuest      Role = "GUEST"
	RoleWorker     Role = "WORKER"
	RoleManager    Role = "MANAGER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

var roleRank = map[Role]int{
	RoleWorker:     1,
	RoleManager:    2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// Roles devuelve todos los roles conocidos, en orden jerárquico (GUEST primero).
func Roles() []Role {
	return []Role{RoleGuest, RoleWorker, RoleManager, RoleAdmin, RoleSuperAdmin}
}

// Valid informa si r es un rol conocido.
func (r Role) Valid() bool {
	return r == RoleGuest || roleRank[r] > 0
}

// AtLeast informa si r está en o por encima de min en la jerarquía.
// GUEST nunca satisface AtLeast, ni siquiera AtLeast(RoleGuest).
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	minRank, ok := roleRank[min]
	if !ok {
		return false
	}
	return rank >= minRank
}

// Elevated informa si r es MANAGER o superior (roles que un MANAGER no puede asignar ni editar).
func (r Role) Elevated() bool {
	return r.AtLeast(RoleManager)
}
