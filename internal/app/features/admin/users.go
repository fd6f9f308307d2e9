// internal/app/features/admin/users.go
package admin

import (
	"net/http"

	errorsfeature "github.com/dalemusser/clubsphere/internal/app/features/errors"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/app/system/formutil"
	"github.com/dalemusser/clubsphere/internal/app/system/search"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type userRow struct {
	models.User
	CanModify bool
}

type usersData struct {
	viewdata.BaseVM
	Users []userRow
	Roles []models.Role
	listPage
}

// ServeUsers lists users matching ?q=, a page at a time. Rows for the
// admin's own account carry no controls.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin users")
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.loadFailed(w, r, "users", err)
		return
	}
	q := search.Parse(query.Get(r, "q"))
	var rows []userRow
	for _, u := range users {
		if q.Person(u.Name, u.Email) {
			rows = append(rows, userRow{User: u, CanModify: authz.CanModifyUser(r, u)})
		}
	}
	page, lp := newListPage(r, authz.ViewAdminUsers.Path(), rows)
	templates.Render(w, r, "admin_users", usersData{
		BaseVM:   viewdata.NewBaseVM(w, r, "All Users", "/dashboard/admin"),
		Users:    page,
		Roles:    models.AllRoles(),
		listPage: lp,
	})
}

// target loads the user named in the route and checks the admin may act
// on them. On false the response has been written.
func (h *Handler) target(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	id := chi.URLParam(r, "id")
	back := authz.ViewAdminUsers.Path()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin user lookup")
	defer cancel()
	users, err := h.Users.List(ctx)
	if err != nil {
		h.loadFailed(w, r, "users", err)
		return models.User{}, false
	}
	for _, u := range users {
		if u.ID != id {
			continue
		}
		if !authz.CanModifyUser(r, u) {
			h.Log.Info("refused admin action on own account", zap.String("user", u.Email))
			h.Sessions.Notify(w, r, auth.NoticeError, "You cannot change your own account.")
			http.Redirect(w, r, back, http.StatusSeeOther)
			return models.User{}, false
		}
		return u, true
	}
	errorsfeature.RenderNotFound(w, r, "User not found.")
	return models.User{}, false
}

// HandleSetRole asks for confirmation, then changes the user's role.
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	back := authz.ViewAdminUsers.Path()
	role := models.ParseRole(formutil.Value(r, "role"))
	if !role.Valid() {
		h.Sessions.Notify(w, r, auth.NoticeError, "Choose a valid role.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	u, ok := h.target(w, r)
	if !ok {
		return
	}
	if u.Role == role {
		h.Sessions.Notify(w, r, auth.NoticeInfo, u.DisplayName()+" is already "+role.Label()+".")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if !formutil.Confirmed(r) {
		page := formutil.NewConfirm(w, r,
			"Change Role",
			"Change "+u.Label()+" from "+u.Role.Label()+" to "+role.Label()+"?",
			back+"/"+u.ID+"/role", "Change Role", back)
		page.Fields = map[string]string{"role": string(role)}
		templates.Render(w, r, "admin_confirm", page)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "set role")
	defer cancel()
	h.finish(w, r, h.Users.SetRole(ctx, u.ID, role), back)
}

// HandleDeleteUser asks for confirmation, then deletes the user.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	back := authz.ViewAdminUsers.Path()
	u, ok := h.target(w, r)
	if !ok {
		return
	}
	if !formutil.Confirmed(r) {
		templates.Render(w, r, "admin_confirm", formutil.NewConfirm(w, r,
			"Delete User",
			"Delete "+u.Label()+"? This cannot be undone.",
			back+"/"+u.ID+"/delete", "Delete User", back))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete user")
	defer cancel()
	h.finish(w, r, h.Users.Delete(ctx, u.ID), back)
}
