package clubs

import (
	"net/http"
	"strings"

	clubstore "github.com/dalemusser/clubsphere/internal/app/store/clubs"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type listData struct {
	viewdata.BaseVM
	Clubs      []models.Club
	Search     string
	Category   string
	Categories []string
	LoadError  string
}

// ServeList handles GET /clubs with optional ?q= and ?category= filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	data := listData{
		BaseVM:     viewdata.NewBaseVM(w, r, "Explore Clubs", "/"),
		Search:     strings.TrimSpace(query.Get(r, "q")),
		Category:   strings.TrimSpace(query.Get(r, "category")),
		Categories: models.ClubCategories,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "club list")
	defer cancel()
	clubs, err := h.Clubs.List(ctx)
	if err != nil {
		h.Log.Warn("club list unavailable", zap.Error(err))
		data.LoadError = "Failed to load clubs."
	}
	data.Clubs = clubstore.Filter(clubs, data.Search, data.Category)

	templates.Render(w, r, "clubs_list", data)
}
