package clubs

import (
	"html/template"
	"net/http"

	errorsfeature "github.com/dalemusser/clubsphere/internal/app/features/errors"
	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type detailData struct {
	viewdata.BaseVM
	Club        models.Club
	Description template.HTML
	Events      []models.Event
	IsMember    bool
	Status      string
	CanJoin     bool
}

// ServeDetail handles GET /clubs/{id}: the club, its events, and whether
// the signed-in user is already a member.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	data, ok := h.loadDetail(w, r)
	if !ok {
		return
	}
	templates.Render(w, r, "club_detail", data)
}

// loadDetail gathers the club page. On false the response has been written.
func (h *Handler) loadDetail(w http.ResponseWriter, r *http.Request) (detailData, bool) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "club detail")
	defer cancel()

	club, err := h.Clubs.Get(ctx, id)
	if err != nil {
		if h.Sessions.HandleAPIError(w, r, err) {
			return detailData{}, false
		}
		if apiclient.IsNotFound(err) {
			errorsfeature.RenderNotFound(w, r, "Club not found.")
			return detailData{}, false
		}
		h.Log.Warn("club detail unavailable", zap.String("club", id), zap.Error(err))
		errorsfeature.RenderUnavailable(w, r, "Failed to load club details.")
		return detailData{}, false
	}

	data := detailData{Club: *club, Description: htmlsanitize.PrepareForDisplay(club.Description)}
	u, signedIn := auth.CurrentUser(r)

	// Events and membership status are independent reads.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := h.Events.ForClubs(gctx, club.ID)
		if err != nil {
			h.Log.Warn("club events unavailable", zap.String("club", id), zap.Error(err))
			return nil
		}
		data.Events = events
		return nil
	})
	if signedIn && !u.Resolving() {
		g.Go(func() error {
			check, err := h.Memberships.Check(gctx, club.ID)
			if err != nil {
				// Unknown status shows the join button; the backend refuses
				// a duplicate join.
				h.Log.Debug("membership check failed", zap.String("club", id), zap.Error(err))
				return nil
			}
			data.IsMember = check.IsMember
			data.Status = check.Status
			return nil
		})
	}
	_ = g.Wait()

	data.CanJoin = !data.IsMember && club.Status == models.ClubApproved
	data.BaseVM = viewdata.NewBaseVM(w, r, club.Name, "/clubs")
	return data, true
}
