package home

import (
	"net/http"

	clubstore "github.com/dalemusser/clubsphere/internal/app/store/clubs"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// featuredCount is how many clubs the landing page features.
const featuredCount = 3

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Clubs *clubstore.Store
	Log   *zap.Logger
}

func NewHandler(clubs *clubstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Clubs: clubs,
		Log:   logger,
	}
}

type homeData struct {
	viewdata.BaseVM
	Featured  []models.Club
	LoadError string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := homeData{BaseVM: viewdata.NewBaseVM(w, r, "Welcome", "/")}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "home featured clubs")
	defer cancel()
	clubs, err := h.Clubs.Featured(ctx, featuredCount)
	if err != nil {
		// The landing page still renders without the featured section.
		h.Log.Warn("featured clubs unavailable", zap.Error(err))
		data.LoadError = "Featured clubs are unavailable right now."
	}
	data.Featured = clubs

	templates.Render(w, r, "home", data)
}
