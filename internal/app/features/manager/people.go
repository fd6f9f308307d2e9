// internal/app/features/manager/people.go
package manager

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

type membersData struct {
	viewdata.BaseVM
	Club    models.Club
	Members []models.Membership
}

type registrationsData struct {
	viewdata.BaseVM
	Event         models.Event
	Registrations []models.Registration
}

// ServeMembers lists the members of a club the user manages.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "club members")
	defer cancel()

	club, ok := h.ownedClub(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	members, err := h.Memberships.ForClub(ctx, club.ID)
	if err != nil {
		h.loadFailed(w, r, "club members", err)
		return
	}
	templates.Render(w, r, "manager_members", membersData{
		BaseVM:  viewdata.NewBaseVM(w, r, club.Name+" Members", authz.ViewManagerClubs.Path()),
		Club:    *club,
		Members: members,
	})
}

// ServeRegistrations lists the registrations for an event of a club the
// user manages.
func (h *Handler) ServeRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "event registrations")
	defer cancel()

	ev, ok := h.ownedEvent(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	regs, err := h.Registrations.ForEvent(ctx, ev.ID)
	if err != nil {
		h.loadFailed(w, r, "event registrations", err)
		return
	}
	templates.Render(w, r, "manager_registrations", registrationsData{
		BaseVM:        viewdata.NewBaseVM(w, r, ev.Title+" Registrations", authz.ViewManagerOverview.Path()),
		Event:         *ev,
		Registrations: regs,
	})
}
