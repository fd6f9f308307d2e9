// internal/domain/models/role.go
package models

import "strings"

// Role is the backend-assigned role of a signed-in user.
// The identity provider has no notion of role; an empty Role means the
// backend has not (yet) told us which role the user holds.
type Role string

const (
	RoleNone        Role = ""
	RoleMember      Role = "member"
	RoleClubManager Role = "clubManager"
	RoleAdmin       Role = "admin"
)

// ParseRole normalizes a role string from the backend or a form.
// Unknown values map to RoleNone so they never grant anything.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "member":
		return RoleMember
	case "clubmanager", "club_manager", "manager":
		return RoleClubManager
	case "admin":
		return RoleAdmin
	default:
		return RoleNone
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleClubManager || r == RoleAdmin
}

// Label is the human-facing name of the role.
func (r Role) Label() string {
	switch r {
	case RoleMember:
		return "Member"
	case RoleClubManager:
		return "Club Manager"
	case RoleAdmin:
		return "Admin"
	default:
		return "Unassigned"
	}
}

// AllRoles lists assignable roles in display order.
func AllRoles() []Role {
	return []Role{RoleMember, RoleClubManager, RoleAdmin}
}
