// internal/app/features/manager/routes.go
package manager

import (
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes wires the manager dashboard under "/dashboard/manager".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(authz.ManagerRoles...))

	r.With(authz.BindView(authz.ViewManagerOverview)).Get("/", h.ServeOverview)
	r.With(authz.BindView(authz.ViewManagerClubs)).Get("/clubs", h.ServeClubs)

	r.Group(func(cr chi.Router) {
		cr.Use(authz.BindView(authz.ViewManagerAddClub))
		cr.Get("/add-club", h.ServeAddClub)
		cr.Post("/add-club", h.HandleAddClub)
	})
	r.Group(func(cr chi.Router) {
		cr.Use(authz.BindView(authz.ViewManagerEditClub))
		cr.Get("/edit-club/{id}", h.ServeEditClub)
		cr.Post("/edit-club/{id}", h.HandleEditClub)
	})
	r.Group(func(er chi.Router) {
		er.Use(authz.BindView(authz.ViewManagerAddEvent))
		er.Get("/add-event", h.ServeAddEvent)
		er.Post("/add-event", h.HandleAddEvent)
	})
	r.Group(func(er chi.Router) {
		er.Use(authz.BindView(authz.ViewManagerEditEvent))
		er.Get("/edit-event/{id}", h.ServeEditEvent)
		er.Post("/edit-event/{id}", h.HandleEditEvent)
		er.Post("/events/{id}/delete", h.HandleDeleteEvent)
	})

	r.With(authz.BindView(authz.ViewManagerMembers)).Get("/club/{id}", h.ServeMembers)
	r.With(authz.BindView(authz.ViewManagerRegistrations)).Get("/event/{id}", h.ServeRegistrations)
	return r
}
