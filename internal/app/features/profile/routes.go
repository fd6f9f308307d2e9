// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(authz.MemberRoles...), authz.BindView(authz.ViewProfile))
	r.Get("/", h.ServeProfile)
	r.Post("/", h.HandleUpdate)
	return r
}
