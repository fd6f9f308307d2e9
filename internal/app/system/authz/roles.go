// internal/app/system/authz/roles.go
package authz

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/domain/models"
)

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present or the role is still resolving.
func HasAnyRole(r *http.Request, roles ...models.Role) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.HasRole(roles...)
}

// HasRole is a convenience wrapper for a single role.
func HasRole(r *http.Request, role models.Role) bool {
	return HasAnyRole(r, role)
}

// Role returns the current user's resolved role and whether there is one.
func Role(r *http.Request) (models.Role, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.State != auth.StateAuthenticated || !u.Role.Valid() {
		return models.RoleNone, false
	}
	return u.Role, true
}
