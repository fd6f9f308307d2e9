// internal/app/features/login/handler.go
package login

import (
	"net/http"
	"strings"

	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/formutil"
	"github.com/dalemusser/clubsphere/internal/app/system/identity"
	"github.com/dalemusser/clubsphere/internal/app/system/navigation"
	"github.com/dalemusser/clubsphere/internal/app/system/ratelimit"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	Provider      identity.Provider
	Sessions      *auth.SessionManager
	Limiter       *ratelimit.LoginLimiter
	GoogleEnabled bool
	Log           *zap.Logger
}

func NewHandler(provider identity.Provider, sm *auth.SessionManager, limiter *ratelimit.LoginLimiter, googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		Provider:      provider,
		Sessions:      sm,
		Limiter:       limiter,
		GoogleEnabled: googleEnabled,
		Log:           logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	formutil.Base
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

// googleErrors maps the ?error= codes set by the Google callback.
var googleErrors = map[string]string{
	"google_not_configured": "Google sign-in is not available.",
	"google_denied":         "Google sign-in was cancelled.",
	"invalid_state":         "Your Google sign-in expired. Please try again.",
	"google_failed":         "Google sign-in failed. Please try again.",
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok && u != nil {
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.AfterSignIn), http.StatusSeeOther)
		return
	}
	h.render(w, r, "", "", googleErrors[query.Get(r, "error")])
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	ret := formutil.Value(r, "return")

	if email == "" || password == "" {
		h.render(w, r, email, ret, "Please enter your email and password.")
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, email); !ok {
			h.Log.Info("sign-in rate limited", zap.String("email", email))
			h.render(w, r, email, ret, reason)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "sign in")
	defer cancel()

	res, err := h.Provider.SignIn(ctx, email, password)
	if err != nil {
		h.Log.Info("sign-in rejected", zap.String("email", email), zap.Error(err))
		h.render(w, r, email, ret, identity.UserMessage(err))
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}

	u, err := h.Sessions.Begin(w, r.WithContext(ctx), res)
	if err != nil {
		h.Log.Error("begin session", zap.Error(err))
		h.render(w, r, email, ret, "Could not start your session. Please try again.")
		return
	}
	h.Log.Info("signed in",
		zap.String("email", u.Email),
		zap.String("state", u.State.String()))

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.AfterSignIn), http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, email, ret, msg string) {
	if ret == "" {
		ret = query.Get(r, "return")
	}
	data := loginFormData{
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	}
	formutil.SetBase(&data.Base, w, r, "Login", "/")
	if msg != "" {
		data.SetError(msg)
	}
	templates.Render(w, r, "login", data)
}
