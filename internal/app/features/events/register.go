package events

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/enrollment"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleRegister handles POST /events/{id}/register. Free events register
// at once; a paid event with a fee goes through checkout first.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, _ := auth.CurrentUser(r)
	back := enrollment.EventPath(id)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "register event")
	defer cancel()

	start, err := h.Enroll.RegisterEvent(ctx, u.Email, id)
	if err != nil {
		if h.Sessions.HandleAPIError(w, r, err) {
			return
		}
		h.Log.Warn("event registration failed", zap.String("event", id), zap.Error(err))
		h.Sessions.Notify(w, r, auth.NoticeError, failureMessage(err))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if start.NeedsPayment() {
		http.Redirect(w, r, "/checkout/"+start.Checkout.ID, http.StatusSeeOther)
		return
	}

	out := start.Outcome
	if !out.OK {
		if h.Sessions.HandleAPIError(w, r, out.Err) {
			return
		}
		h.Sessions.Notify(w, r, auth.NoticeError, out.Message)
	} else {
		h.Sessions.Notify(w, r, auth.NoticeSuccess, out.Message)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
