// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/domain/models"
)

// ManagerRoles may manage clubs and events. Admin holds every manager
// capability.
var ManagerRoles = []models.Role{models.RoleClubManager, models.RoleAdmin}

// MemberRoles covers every resolved role.
var MemberRoles = []models.Role{models.RoleMember, models.RoleClubManager, models.RoleAdmin}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	return HasRole(r, models.RoleAdmin)
}

// CanManage reports whether the current user may use the manager views.
func CanManage(r *http.Request) bool {
	return HasAnyRole(r, ManagerRoles...)
}

// CanManageClub reports whether the current user may edit club and its
// events: admins always, managers only for clubs they manage.
func CanManageClub(r *http.Request, club *models.Club) bool {
	u, ok := auth.CurrentUser(r)
	if !ok || club == nil {
		return false
	}
	if u.HasRole(models.RoleAdmin) {
		return true
	}
	return u.HasRole(models.RoleClubManager) && club.ManagedBy(u.Email)
}

// IsSelf reports whether email belongs to the signed-in user.
func IsSelf(r *http.Request, email string) bool {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}
	return email != "" && strings.EqualFold(strings.TrimSpace(u.Email), strings.TrimSpace(email))
}

// CanModifyUser reports whether the current admin may change the role of
// or delete target. Nobody modifies their own account this way.
func CanModifyUser(r *http.Request, target models.User) bool {
	return IsAdmin(r) && !IsSelf(r, target.Email)
}

// LandingPath is where /dashboard sends a resolved role. Members stay on
// the overview.
func LandingPath(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return ViewAdminClubs.Path()
	case models.RoleClubManager:
		return ViewManagerOverview.Path()
	default:
		return ViewOverview.Path()
	}
}
