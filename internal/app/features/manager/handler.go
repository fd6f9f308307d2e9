// internal/app/features/manager/handler.go
package manager

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/clubsphere/internal/app/features/errors"
	clubstore "github.com/dalemusser/clubsphere/internal/app/store/clubs"
	dashboardstore "github.com/dalemusser/clubsphere/internal/app/store/dashboard"
	eventstore "github.com/dalemusser/clubsphere/internal/app/store/events"
	membershipstore "github.com/dalemusser/clubsphere/internal/app/store/memberships"
	registrationstore "github.com/dalemusser/clubsphere/internal/app/store/registrations"
	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/app/system/imagehost"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the club manager dashboard under /dashboard/manager.
// Admins use the same views over every club.
type Handler struct {
	Clubs         *clubstore.Store
	Events        *eventstore.Store
	Memberships   *membershipstore.Store
	Registrations *registrationstore.Store
	Stats         *dashboardstore.Store
	Images        *imagehost.Client
	Sessions      *auth.SessionManager
	Log           *zap.Logger
}

// Stores groups the backend stores the manager views read and write.
type Stores struct {
	Clubs         *clubstore.Store
	Events        *eventstore.Store
	Memberships   *membershipstore.Store
	Registrations *registrationstore.Store
	Stats         *dashboardstore.Store
}

func NewHandler(s Stores, images *imagehost.Client, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Clubs:         s.Clubs,
		Events:        s.Events,
		Memberships:   s.Memberships,
		Registrations: s.Registrations,
		Stats:         s.Stats,
		Images:        images,
		Sessions:      sm,
		Log:           logger,
	}
}

// myClubs returns the clubs the current user may manage.
func (h *Handler) myClubs(ctx context.Context, r *http.Request) ([]models.Club, error) {
	if authz.IsAdmin(r) {
		return h.Clubs.All(ctx)
	}
	u, _ := auth.CurrentUser(r)
	return h.Clubs.ManagedBy(ctx, u.Email)
}

// ownedClub reads the club fresh and checks the current user manages it.
// On false the response has been written.
func (h *Handler) ownedClub(ctx context.Context, w http.ResponseWriter, r *http.Request, id string) (*models.Club, bool) {
	club, err := h.Clubs.Fresh(ctx, id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			errorsfeature.RenderNotFound(w, r, "Club not found.")
			return nil, false
		}
		h.loadFailed(w, r, "the club", err)
		return nil, false
	}
	if !authz.CanManageClub(r, club) {
		errorsfeature.RenderForbidden(w, r, "You do not manage this club.", authz.ViewManagerClubs.Path())
		return nil, false
	}
	return club, true
}

// ownedEvent reads the event fresh and checks the current user manages
// its club. On false the response has been written.
func (h *Handler) ownedEvent(ctx context.Context, w http.ResponseWriter, r *http.Request, id string) (*models.Event, bool) {
	ev, err := h.Events.Fresh(ctx, id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			errorsfeature.RenderNotFound(w, r, "Event not found.")
			return nil, false
		}
		h.loadFailed(w, r, "the event", err)
		return nil, false
	}
	if _, ok := h.ownedClub(ctx, w, r, ev.ClubID.String()); !ok {
		return nil, false
	}
	return ev, true
}

// finish reports the outcome of a mutation and returns to back.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request, out querycache.Outcome, back string) {
	if !out.OK {
		if h.Sessions.HandleAPIError(w, r, out.Err) {
			return
		}
		h.Log.Warn("manager action failed", zap.String("path", r.URL.Path), zap.Error(out.Err))
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
	h.Log.Warn("manager view load failed", zap.String("view", what), zap.Error(err))
	errorsfeature.RenderUnavailable(w, r, "Could not load "+what+". Please try again.")
}
