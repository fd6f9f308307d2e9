package events

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
	Event        models.Event
	Description  template.HTML
	ClubName     string
	IsRegistered bool
	Status       string
}

// ServeDetail handles GET /events/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	data, ok := h.loadDetail(w, r)
	if !ok {
		return
	}
	templates.Render(w, r, "event_detail", data)
}

// loadDetail gathers the event page. On false the response has been written.
func (h *Handler) loadDetail(w http.ResponseWriter, r *http.Request) (detailData, bool) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "event detail")
	defer cancel()

	ev, err := h.Events.Get(ctx, id)
	if err != nil {
		if h.Sessions.HandleAPIError(w, r, err) {
			return detailData{}, false
		}
		if apiclient.IsNotFound(err) {
			errorsfeature.RenderNotFound(w, r, "Event not found.")
			return detailData{}, false
		}
		h.Log.Warn("event detail unavailable", zap.String("event", id), zap.Error(err))
		errorsfeature.RenderUnavailable(w, r, "Failed to load event details.")
		return detailData{}, false
	}

	data := detailData{Event: *ev, Description: htmlsanitize.PrepareForDisplay(ev.Description)}

	g, gctx := errgroup.WithContext(ctx)
	if clubID := ev.ClubID.String(); clubID != "" {
		g.Go(func() error {
			if club, err := h.Clubs.Get(gctx, clubID); err == nil {
				data.ClubName = club.Name
			}
			return nil
		})
	}
	if u, ok := auth.CurrentUser(r); ok && !u.Resolving() {
		g.Go(func() error {
			check, err := h.Registrations.Check(gctx, ev.ID)
			if err != nil {
				h.Log.Debug("registration check failed", zap.String("event", id), zap.Error(err))
				return nil
			}
			data.IsRegistered = check.IsRegistered
			data.Status = check.Status
			return nil
		})
	}
	_ = g.Wait()

	data.BaseVM = viewdata.NewBaseVM(w, r, ev.Title, "/events")
	return data, true
}
