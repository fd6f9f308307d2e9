// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes wires the member dashboard under "/dashboard". Each route binds
// its view explicitly for the sidebar and the handler.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.With(authz.BindView(authz.ViewOverview)).Get("/", h.ServeDashboard)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(authz.MemberRoles...))
		pr.With(authz.BindView(authz.ViewMyClubs)).Get("/my-clubs", h.ServeMyClubs)
		pr.With(authz.BindView(authz.ViewMyEvents)).Get("/my-events", h.ServeMyEvents)
	})

	return r
}
