package clubs

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/enrollment"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleJoin handles POST /clubs/{id}/join. A free club is joined at once;
// a club with a membership fee sends the user to checkout first.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, _ := auth.CurrentUser(r)
	back := enrollment.ClubPath(id)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "join club")
	defer cancel()

	start, err := h.Enroll.JoinClub(ctx, u.Email, id)
	if err != nil {
		if h.Sessions.HandleAPIError(w, r, err) {
			return
		}
		h.Log.Warn("join club failed", zap.String("club", id), zap.Error(err))
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
