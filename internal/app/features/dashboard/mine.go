// internal/app/features/dashboard/mine.go
package dashboard

import (
	"net/http"

	errorsfeature "github.com/dalemusser/clubsphere/internal/app/features/errors"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type myClubsData struct {
	viewdata.BaseVM
	Memberships []models.Membership
}

type myEventsData struct {
	viewdata.BaseVM
	Registrations []models.Registration
}

// ServeMyClubs handles GET /dashboard/my-clubs.
func (h *Handler) ServeMyClubs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "my clubs")
	defer cancel()

	ms, err := h.Memberships.Mine(ctx)
	if err != nil {
		h.loadFailed(w, r, "my clubs", err)
		return
	}
	templates.Render(w, r, "dashboard_my_clubs", myClubsData{
		BaseVM:      viewdata.NewBaseVM(w, r, "My Clubs", "/dashboard"),
		Memberships: ms,
	})
}

// ServeMyEvents handles GET /dashboard/my-events.
func (h *Handler) ServeMyEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "my events")
	defer cancel()

	regs, err := h.Registrations.Mine(ctx)
	if err != nil {
		h.loadFailed(w, r, "my events", err)
		return
	}
	templates.Render(w, r, "dashboard_my_events", myEventsData{
		BaseVM:        viewdata.NewBaseVM(w, r, "My Events", "/dashboard"),
		Registrations: regs,
	})
}

func (h *Handler) loadFailed(w http.ResponseWriter, r *http.Request, what string, err error) {
	if h.Sessions.HandleAPIError(w, r, err) {
		return
	}
	h.Log.Warn("dashboard load failed", zap.String("view", what), zap.Error(err))
	errorsfeature.RenderUnavailable(w, r, "Could not load "+what+". Please try again.")
}
