package checkout

import (
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the checkout pages. Checkouts belong to the signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(authz.MemberRoles...))
	r.Get("/{id}", h.ServeForm)
	r.Post("/{id}", h.HandleSubmit)
	r.Post("/{id}/cancel", h.HandleCancel)
	return r
}
