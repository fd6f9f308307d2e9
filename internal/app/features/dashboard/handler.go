// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	membershipstore "github.com/dalemusser/clubsphere/internal/app/store/memberships"
	paymentstore "github.com/dalemusser/clubsphere/internal/app/store/payments"
	registrationstore "github.com/dalemusser/clubsphere/internal/app/store/registrations"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// resolvingRefresh is how often, in seconds, the placeholder polls while
// the role sync is pending.
const resolvingRefresh = "2"

type Handler struct {
	Memberships   *membershipstore.Store
	Registrations *registrationstore.Store
	Payments      *paymentstore.Store
	Sessions      *auth.SessionManager
	Log           *zap.Logger
}

func NewHandler(
	memberships *membershipstore.Store,
	registrations *registrationstore.Store,
	payments *paymentstore.Store,
	sm *auth.SessionManager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Memberships:   memberships,
		Registrations: registrations,
		Payments:      payments,
		Sessions:      sm,
		Log:           logger,
	}
}

// ServeDashboard handles GET /dashboard. Admins and managers are sent to
// their landing view; members get the overview in place. While the role is
// still resolving a placeholder page refreshes itself until it is known.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		auth.RedirectToLogin(w, r)
		return
	}

	if u.Resolving() {
		h.serveResolving(w, r, u)
		return
	}

	if u.Role != models.RoleMember {
		http.Redirect(w, r, authz.LandingPath(u.Role), http.StatusSeeOther)
		return
	}
	h.ServeOverview(w, r)
}

type resolvingData struct {
	viewdata.BaseVM
	Attempts int
}

func (h *Handler) serveResolving(w http.ResponseWriter, r *http.Request, u *auth.SessionUser) {
	h.Log.Debug("dashboard waiting on role",
		zap.String("email", u.Email),
		zap.Int("sync_attempts", u.SyncAttempts))
	w.Header().Set("Refresh", resolvingRefresh)
	w.Header().Set("Cache-Control", "no-store")
	templates.Render(w, r, "dashboard_resolving", resolvingData{
		BaseVM:   viewdata.NewBaseVM(w, r, "Dashboard", "/"),
		Attempts: u.SyncAttempts,
	})
}
