// internal/app/features/manager/events.go
package manager

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/app/system/formutil"
	"github.com/dalemusser/clubsphere/internal/app/system/imagehost"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type eventFormData struct {
	formutil.Base
	ID     string
	Input  models.EventInput
	Banner string
	Clubs  []models.Club
	Action string
	Submit string
}

// ServeAddEvent renders an empty event form. ?club= preselects a club.
func (h *Handler) ServeAddEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "add event form")
	defer cancel()

	clubs, err := h.myClubs(ctx, r)
	if err != nil {
		h.loadFailed(w, r, "your clubs", err)
		return
	}
	data := eventFormData{Clubs: clubs, Input: models.EventInput{ClubID: query.Get(r, "club")}}
	h.renderEventForm(w, r, data, "")
}

// HandleAddEvent creates an event in a club the user manages.
func (h *Handler) HandleAddEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "add event")
	defer cancel()
	r = r.WithContext(ctx)

	clubs, err := h.myClubs(ctx, r)
	if err != nil {
		h.loadFailed(w, r, "your clubs", err)
		return
	}
	in, msg := readEvent(r)
	data := eventFormData{Clubs: clubs, Input: in}
	if msg == "" && !hasClub(clubs, in.ClubID) {
		msg = "Choose one of your clubs."
	}
	if msg != "" {
		h.renderEventForm(w, r, data, msg)
		return
	}
	banner, err := h.Images.FromForm(r, "banner")
	if err != nil {
		h.Log.Warn("event banner upload failed", zap.Error(err))
		h.renderEventForm(w, r, data, imagehost.UserMessage(err))
		return
	}
	in.BannerImage = banner

	out := h.Events.Create(ctx, in)
	if !out.OK {
		if h.Sessions.HandleAPIError(w, r, out.Err) {
			return
		}
		h.renderEventForm(w, r, data, out.Message)
		return
	}
	h.finish(w, r, out, authz.ViewManagerOverview.Path())
}

// ServeEditEvent renders the form for an event of a club the user manages.
func (h *Handler) ServeEditEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "edit event form")
	defer cancel()

	ev, ok := h.ownedEvent(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	clubs, err := h.myClubs(ctx, r)
	if err != nil {
		h.loadFailed(w, r, "your clubs", err)
		return
	}
	h.renderEventForm(w, r, eventFormData{
		ID:     ev.ID,
		Banner: ev.BannerImage,
		Clubs:  clubs,
		Input: models.EventInput{
			Title:        ev.Title,
			ClubID:       ev.ClubID.String(),
			Description:  ev.Description,
			EventDate:    ev.EventDate.InputValue(),
			Location:     ev.Location,
			IsPaid:       ev.IsPaid,
			EventFee:     ev.EventFee,
			MaxAttendees: ev.MaxAttendees,
		},
	}, "")
}

// HandleEditEvent saves an event. Moving it to another club requires
// managing that club too.
func (h *Handler) HandleEditEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "edit event")
	defer cancel()
	r = r.WithContext(ctx)

	ev, ok := h.ownedEvent(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	clubs, err := h.myClubs(ctx, r)
	if err != nil {
		h.loadFailed(w, r, "your clubs", err)
		return
	}
	in, msg := readEvent(r)
	data := eventFormData{ID: ev.ID, Banner: ev.BannerImage, Clubs: clubs, Input: in}
	if msg == "" && !hasClub(clubs, in.ClubID) {
		msg = "Choose one of your clubs."
	}
	if msg != "" {
		h.renderEventForm(w, r, data, msg)
		return
	}
	banner, err := h.Images.FromForm(r, "banner")
	if err != nil {
		h.Log.Warn("event banner upload failed", zap.Error(err))
		h.renderEventForm(w, r, data, imagehost.UserMessage(err))
		return
	}
	in.BannerImage = banner
	if in.BannerImage == "" {
		in.BannerImage = ev.BannerImage
	}

	out := h.Events.Update(ctx, ev.ID, in)
	if !out.OK {
		if h.Sessions.HandleAPIError(w, r, out.Err) {
			return
		}
		h.renderEventForm(w, r, data, out.Message)
		return
	}
	h.finish(w, r, out, authz.ViewManagerOverview.Path())
}

// HandleDeleteEvent asks for confirmation, then deletes the event.
func (h *Handler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete event")
	defer cancel()

	ev, ok := h.ownedEvent(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	back := authz.ViewManagerOverview.Path()
	if !formutil.Confirmed(r) {
		templates.Render(w, r, "manager_confirm", formutil.NewConfirm(w, r,
			"Delete Event",
			"Delete "+ev.Title+"? Its registrations go with it. This cannot be undone.",
			"/dashboard/manager/events/"+ev.ID+"/delete", "Delete Event", back))
		return
	}
	h.finish(w, r, h.Events.Delete(ctx, ev.ID), back)
}

// readEvent reads and checks the event form fields.
func readEvent(r *http.Request) (models.EventInput, string) {
	in := models.EventInput{
		Title:       formutil.Value(r, "title"),
		ClubID:      formutil.Value(r, "clubId"),
		Description: formutil.Value(r, "description"),
		EventDate:   formutil.Value(r, "eventDate"),
		Location:    formutil.Value(r, "location"),
		IsPaid:      formutil.Checked(r, "isPaid"),
	}
	fee, err := formutil.Amount(r, "eventFee")
	if err != nil {
		return in, "Event fee must be a number of zero or more."
	}
	seats, err := formutil.Count(r, "maxAttendees")
	if err != nil {
		return in, "Max attendees must be a whole number."
	}
	in.MaxAttendees = seats
	if in.IsPaid {
		in.EventFee = fee
	}

	switch {
	case in.Title == "":
		return in, "Event title is required."
	case in.ClubID == "":
		return in, "Choose one of your clubs."
	case in.EventDate == "":
		return in, "Event date is required."
	case in.IsPaid && in.EventFee <= 0:
		return in, "Enter a fee for a paid event."
	}
	if _, err := models.ParseFlexTime(in.EventDate); err != nil {
		return in, "Event date is not valid."
	}
	return in, ""
}

func hasClub(clubs []models.Club, id string) bool {
	for _, c := range clubs {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (h *Handler) renderEventForm(w http.ResponseWriter, r *http.Request, data eventFormData, msg string) {
	title, action, submit := "Add Event", authz.ViewManagerAddEvent.Path(), "Create Event"
	if data.ID != "" {
		title, action, submit = "Edit Event", authz.ViewManagerEditEvent.Path()+"/"+data.ID, "Save Changes"
	}
	formutil.SetBase(&data.Base, w, r, title, authz.ViewManagerOverview.Path())
	if msg != "" {
		data.SetError(msg)
	}
	data.Action = action
	data.Submit = submit
	templates.Render(w, r, "manager_event_form", data)
}
