// internal/app/features/admin/events.go
package admin

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/app/system/formutil"
	"github.com/dalemusser/clubsphere/internal/app/system/search"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

type eventsData struct {
	viewdata.BaseVM
	Events []models.Event
	listPage
}

// ServeEvents lists events matching ?q= on title or location.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin events")
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		h.loadFailed(w, r, "events", err)
		return
	}
	q := search.Parse(query.Get(r, "q"))
	var matched []models.Event
	for _, ev := range events {
		if q.Any(ev.Title, ev.Location) {
			matched = append(matched, ev)
		}
	}
	page, lp := newListPage(r, authz.ViewAdminEvents.Path(), matched)
	templates.Render(w, r, "admin_events", eventsData{
		BaseVM:   viewdata.NewBaseVM(w, r, "All Events", "/dashboard/admin"),
		Events:   page,
		listPage: lp,
	})
}

// HandleDeleteEvent asks for confirmation, then deletes the event.
func (h *Handler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back := authz.ViewAdminEvents.Path()
	if !formutil.Confirmed(r) {
		title := formutil.Value(r, "title")
		if title == "" {
			title = "this event"
		}
		templates.Render(w, r, "admin_confirm", formutil.NewConfirm(w, r,
			"Delete Event",
			"Delete "+title+"? Its registrations go with it. This cannot be undone.",
			back+"/"+id+"/delete", "Delete Event", back))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete event")
	defer cancel()
	h.finish(w, r, h.Events.Delete(ctx, id), back)
}
