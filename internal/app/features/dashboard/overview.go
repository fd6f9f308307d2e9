// internal/app/features/dashboard/overview.go
package dashboard

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/clubsphere/internal/app/features/errors"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// recentLimit is how many registrations the overview lists.
const recentLimit = 5

type overviewData struct {
	viewdata.BaseVM
	ClubsJoined      int
	ActiveClubs      int
	EventsRegistered int
	TotalSpent       float64
	Recent           []models.Registration
}

// ServeOverview renders the member overview: clubs joined, events
// registered, and total spent.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "member overview")
	defer cancel()

	var (
		memberships   []models.Membership
		registrations []models.Registration
		payments      []models.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		memberships, err = h.Memberships.Mine(gctx)
		return err
	})
	g.Go(func() (err error) {
		registrations, err = h.Registrations.Mine(gctx)
		return err
	})
	g.Go(func() (err error) {
		payments, err = h.Payments.Mine(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if h.Sessions.HandleAPIError(w, r, err) {
			return
		}
		h.Log.Warn("member overview load failed", zap.Error(err))
		errorsfeature.RenderUnavailable(w, r, "Could not load your dashboard. Please try again.")
		return
	}

	data := overviewData{
		BaseVM:           viewdata.NewBaseVM(w, r, "Overview", "/"),
		ClubsJoined:      len(memberships),
		EventsRegistered: len(registrations),
		TotalSpent:       models.TotalAmount(payments),
	}
	for _, m := range memberships {
		if strings.EqualFold(m.Status, "active") {
			data.ActiveClubs++
		}
	}
	data.Recent = registrations
	if len(data.Recent) > recentLimit {
		data.Recent = data.Recent[:recentLimit]
	}

	templates.Render(w, r, "dashboard_overview", data)
}
