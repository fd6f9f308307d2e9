// internal/app/system/authz/views.go
package authz

import (
	"context"
	"net/http"

	"github.com/dalemusser/clubsphere/internal/domain/models"
)

// View identifies a dashboard sub-view. Routes bind their View explicitly;
// nothing is inferred from the URL.
type View int

const (
	ViewNone View = iota

	ViewOverview
	ViewMyClubs
	ViewMyEvents
	ViewProfile

	ViewManagerOverview
	ViewManagerClubs
	ViewManagerAddClub
	ViewManagerEditClub
	ViewManagerAddEvent
	ViewManagerEditEvent
	ViewManagerMembers
	ViewManagerRegistrations

	ViewAdminOverview
	ViewAdminClubs
	ViewAdminClubMembers
	ViewAdminUsers
	ViewAdminEvents
	ViewAdminPayments
)

type viewInfo struct {
	path  string
	title string
	roles []models.Role
	menu  bool
	group string
}

var views = map[View]viewInfo{
	ViewOverview: {"/dashboard", "Overview", MemberRoles, true, ""},
	ViewMyClubs:  {"/dashboard/my-clubs", "My Clubs", MemberRoles, true, ""},
	ViewMyEvents: {"/dashboard/my-events", "My Events", MemberRoles, true, ""},
	ViewProfile:  {"/dashboard/profile", "Edit Profile", MemberRoles, true, ""},

	ViewManagerOverview:      {"/dashboard/manager", "Manager Overview", ManagerRoles, false, "Manager"},
	ViewManagerClubs:         {"/dashboard/manager/clubs", "Manage Clubs", ManagerRoles, true, "Manager"},
	ViewManagerAddClub:       {"/dashboard/manager/add-club", "Add Club", ManagerRoles, true, "Manager"},
	ViewManagerEditClub:      {"/dashboard/manager/edit-club", "Edit Club", ManagerRoles, false, "Manager"},
	ViewManagerAddEvent:      {"/dashboard/manager/add-event", "Add Event", ManagerRoles, false, "Manager"},
	ViewManagerEditEvent:     {"/dashboard/manager/edit-event", "Edit Event", ManagerRoles, false, "Manager"},
	ViewManagerMembers:       {"/dashboard/manager/club", "Club Members", ManagerRoles, false, "Manager"},
	ViewManagerRegistrations: {"/dashboard/manager/event", "Event Registrations", ManagerRoles, false, "Manager"},

	ViewAdminOverview:    {"/dashboard/admin", "Admin Overview", []models.Role{models.RoleAdmin}, false, "Admin"},
	ViewAdminUsers:       {"/dashboard/admin/users", "All Users", []models.Role{models.RoleAdmin}, true, "Admin"},
	ViewAdminClubs:       {"/dashboard/admin/clubs", "All Clubs", []models.Role{models.RoleAdmin}, true, "Admin"},
	ViewAdminClubMembers: {"/dashboard/admin/club", "Club Members", []models.Role{models.RoleAdmin}, false, "Admin"},
	ViewAdminEvents:      {"/dashboard/admin/events", "All Events", []models.Role{models.RoleAdmin}, true, "Admin"},
	ViewAdminPayments:    {"/dashboard/admin/payments", "All Payments", []models.Role{models.RoleAdmin}, true, "Admin"},
}

// menuOrder is the sidebar order.
var menuOrder = []View{
	ViewOverview, ViewMyClubs, ViewMyEvents, ViewProfile,
	ViewManagerClubs, ViewManagerAddClub,
	ViewAdminUsers, ViewAdminClubs, ViewAdminEvents, ViewAdminPayments,
}

// Path is the view's base URL. Views with an id append it.
func (v View) Path() string { return views[v].path }

// Title is the heading shown for the view.
func (v View) Title() string { return views[v].title }

// Roles lists the roles allowed to open the view.
func (v View) Roles() []models.Role { return views[v].roles }

// Allows reports whether role may open the view.
func (v View) Allows(role models.Role) bool {
	for _, r := range views[v].roles {
		if r == role {
			return true
		}
	}
	return false
}

// MenuItem is one sidebar entry.
type MenuItem struct {
	View   View
	Path   string
	Title  string
	Group  string
	Active bool
}

// Menu returns the sidebar entries role may see, marking current.
func Menu(role models.Role, current View) []MenuItem {
	var out []MenuItem
	for _, v := range menuOrder {
		info := views[v]
		if !info.menu || !v.Allows(role) {
			continue
		}
		out = append(out, MenuItem{View: v, Path: info.path, Title: info.title, Group: info.group, Active: v == current})
	}
	return out
}

type viewKey struct{}

// BindView tags the request with v for the handler and layout.
func BindView(v View) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithView(r.Context(), v)))
		})
	}
}

// WithView stores v in ctx.
func WithView(ctx context.Context, v View) context.Context {
	return context.WithValue(ctx, viewKey{}, v)
}

// CurrentView returns the view bound to the request, or ViewNone.
func CurrentView(r *http.Request) View {
	v, _ := r.Context().Value(viewKey{}).(View)
	return v
}
