package events

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type eventRow struct {
	models.Event
	Registered bool
}

type listData struct {
	viewdata.BaseVM
	Events    []eventRow
	LoadError string
}

// ServeList handles GET /events. Signed-in users see which events they
// are already registered for.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	data := listData{BaseVM: viewdata.NewBaseVM(w, r, "Upcoming Events", "/")}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event list")
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		h.Log.Warn("event list unavailable", zap.Error(err))
		data.LoadError = "Failed to load events."
	}

	registered := map[string]bool{}
	if u, ok := auth.CurrentUser(r); ok && !u.Resolving() {
		regs, err := h.Registrations.Mine(ctx)
		if err != nil {
			h.Log.Debug("registrations unavailable", zap.Error(err))
		}
		for _, reg := range regs {
			registered[reg.EventID.String()] = true
		}
	}

	data.Events = make([]eventRow, 0, len(events))
	for _, ev := range events {
		data.Events = append(data.Events, eventRow{Event: ev, Registered: registered[ev.ID]})
	}

	templates.Render(w, r, "events_list", data)
}
