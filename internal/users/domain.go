package users

import "time"

// Role identifies the single role assigned to a user account.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleSecretary Role = "SECRETARY"
	RoleTeacher   Role = "TEACHER"
	RoleStudent   Role = "STUDENT"
)

// AllRoles lists every known role in display order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleSecretary, RoleTeacher, RoleStudent}
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSecretary, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Label returns the Portuguese display label for the role.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleSecretary:
		return "Secretaria"
	case RoleTeacher:
		return "Professor"
	case RoleStudent:
		return "Aluno"
	}
	return string(r)
}

// User represents an account as returned by the backend. Role is
// client-immutable: UpdatePayload deliberately has no role field.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Username     string    `json:"username,omitempty"`
	Role         Role      `json:"role"`
	RegisteredAt time.Time `json:"registeredAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}
