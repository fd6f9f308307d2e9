// internal/app/features/admin/handler.go
package admin

import (
	"net/http"

	errorsfeature "github.com/dalemusser/clubsphere/internal/app/features/errors"
	clubstore "github.com/dalemusser/clubsphere/internal/app/store/clubs"
	dashboardstore "github.com/dalemusser/clubsphere/internal/app/store/dashboard"
	eventstore "github.com/dalemusser/clubsphere/internal/app/store/events"
	membershipstore "github.com/dalemusser/clubsphere/internal/app/store/memberships"
	paymentstore "github.com/dalemusser/clubsphere/internal/app/store/payments"
	userstore "github.com/dalemusser/clubsphere/internal/app/store/users"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"go.uber.org/zap"
)

// Handler serves the admin dashboard under /dashboard/admin.
type Handler struct {
	Clubs       *clubstore.Store
	Events      *eventstore.Store
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Payments    *paymentstore.Store
	Stats       *dashboardstore.Store
	Sessions    *auth.SessionManager
	Log         *zap.Logger
}

// Stores groups the backend stores the admin views read and write.
type Stores struct {
	Clubs       *clubstore.Store
	Events      *eventstore.Store
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Payments    *paymentstore.Store
	Stats       *dashboardstore.Store
}

func NewHandler(s Stores, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Clubs:       s.Clubs,
		Events:      s.Events,
		Users:       s.Users,
		Memberships: s.Memberships,
		Payments:    s.Payments,
		Stats:       s.Stats,
		Sessions:    sm,
		Log:         logger,
	}
}

// finish reports the outcome of a mutation and returns to back.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request, out querycache.Outcome, back string) {
	if !out.OK {
		if h.Sessions.HandleAPIError(w, r, out.Err) {
			return
		}
		h.Log.Warn("admin action failed", zap.String("path", r.URL.Path), zap.Error(out.Err))
		h.Sessions.Notify(w, r, auth.NoticeError, out.Message)
	} else {
		h.Sessions.Notify(w, r, auth.NoticeSuccess, out.Message)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) loadFailed(w http.ResponseWriter, r *http.Request, what string, err error) {
	if h.Sessions.HandleAPIError(w, r, err) {
		return
	}
	h.Log.Warn("admin view load failed", zap.String("view", what), zap.Error(err))
	errorsfeature.RenderUnavailable(w, r, "Could not load "+what+". Please try again.")
}
