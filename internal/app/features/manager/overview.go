// internal/app/features/manager/overview.go
package manager

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"golang.org/x/sync/errgroup"
)

type overviewData struct {
	viewdata.BaseVM
	Stats  models.ManagerStats
	Clubs  []models.Club
	Events []models.Event
}

// ServeOverview shows the manager's totals, clubs and the events of
// those clubs.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "manager overview")
	defer cancel()

	var (
		stats *models.ManagerStats
		clubs []models.Club
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = h.Stats.ManagerStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		clubs, err = h.myClubs(gctx, r)
		return err
	})
	if err := g.Wait(); err != nil {
		h.loadFailed(w, r, "manager statistics", err)
		return
	}

	ids := make([]string, 0, len(clubs))
	for _, c := range clubs {
		ids = append(ids, c.ID)
	}
	events, err := h.Events.ForClubs(ctx, ids...)
	if err != nil {
		h.loadFailed(w, r, "your events", err)
		return
	}

	templates.Render(w, r, "manager_overview", overviewData{
		BaseVM: viewdata.NewBaseVM(w, r, "Manager Overview", "/dashboard"),
		Stats:  *stats,
		Clubs:  clubs,
		Events: events,
	})
}
