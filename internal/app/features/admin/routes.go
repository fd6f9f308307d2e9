// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes wires the admin dashboard under "/dashboard/admin".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleAdmin))

	r.With(authz.BindView(authz.ViewAdminOverview)).Get("/", h.ServeOverview)

	r.Route("/clubs", func(cr chi.Router) {
		cr.Use(authz.BindView(authz.ViewAdminClubs))
		cr.Get("/", h.ServeClubs)
		cr.Post("/{id}/approve", h.HandleApprove)
		cr.Post("/{id}/reject", h.HandleReject)
		cr.Post("/{id}/delete", h.HandleDeleteClub)
	})
	r.With(authz.BindView(authz.ViewAdminClubMembers)).Get("/club/{id}", h.ServeClubMembers)

	r.Route("/users", func(ur chi.Router) {
		ur.Use(authz.BindView(authz.ViewAdminUsers))
		ur.Get("/", h.ServeUsers)
		ur.Post("/{id}/role", h.HandleSetRole)
		ur.Post("/{id}/delete", h.HandleDeleteUser)
	})

	r.Route("/events", func(er chi.Router) {
		er.Use(authz.BindView(authz.ViewAdminEvents))
		er.Get("/", h.ServeEvents)
		er.Post("/{id}/delete", h.HandleDeleteEvent)
	})

	r.With(authz.BindView(authz.ViewAdminPayments)).Get("/payments", h.ServePayments)
	return r
}
