// internal/app/features/admin/overview.go
package admin

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
	Stats   models.AdminStats
	Pending []models.Club
}

// ServeOverview shows platform totals and the clubs awaiting approval.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin overview")
	defer cancel()

	var (
		stats *models.AdminStats
		clubs []models.Club
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = h.Stats.AdminStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		clubs, err = h.Clubs.All(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.loadFailed(w, r, "admin statistics", err)
		return
	}

	data := overviewData{
		BaseVM:  viewdata.NewBaseVM(w, r, "Admin Overview", "/dashboard"),
		Stats:   *stats,
		Pending: byStatus(clubs, models.ClubPending),
	}
	templates.Render(w, r, "admin_overview", data)
}

func byStatus(clubs []models.Club, status models.ClubStatus) []models.Club {
	var out []models.Club
	for _, c := range clubs {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}
