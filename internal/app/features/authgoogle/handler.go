// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/identity"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// stateTTL bounds how long a user may sit on Google's consent screen.
const stateTTL = 10 * time.Minute

// Handler handles Google OAuth authentication.
type Handler struct {
	Provider identity.Provider
	Sessions *auth.SessionManager
	States   querycache.Cache
	Log      *zap.Logger

	// OAuth configuration
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "https://clubsphere.example.com/auth/google/callback"
	Endpoint     oauth2.Endpoint
}

// NewHandler creates a new Google OAuth handler.
func NewHandler(
	provider identity.Provider,
	sm *auth.SessionManager,
	states querycache.Cache,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Provider:     provider,
		Sessions:     sm,
		States:       states,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		Endpoint:     google.Endpoint,
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     h.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
| Initiates the Google OAuth flow by redirecting to Google's consent screen.   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=google_failed", http.StatusSeeOther)
		return
	}

	returnURL := urlutil.SafeReturn(query.Get(r, "return"), "", "/")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.States.Set(ctx, stateKey(state), []byte(returnURL), stateTTL); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=google_failed", http.StatusSeeOther)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state)
	h.Log.Debug("initiating Google OAuth flow", zap.String("return_url", returnURL))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Exchanges the code, trades Google's ID token for a provider session and     |
| starts the ClubSphere session.                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := query.Get(r, "error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", query.Get(r, "error_description")))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "google sign in")
	defer cancel()

	returnURL, ok := h.consumeState(ctx, query.Get(r, "state"))
	if !ok {
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := query.Get(r, "code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, "/login?error=google_failed", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/login?error=google_failed", http.StatusSeeOther)
		return
	}
	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		h.Log.Error("Google token response has no id_token")
		http.Redirect(w, r, "/login?error=google_failed", http.StatusSeeOther)
		return
	}

	res, err := h.Provider.SignInWithGoogle(ctx, idToken, h.RedirectURL)
	if err != nil {
		h.Log.Warn("identity provider rejected Google sign-in", zap.Error(err))
		http.Redirect(w, r, "/login?error=google_failed", http.StatusSeeOther)
		return
	}

	u, err := h.Sessions.Begin(w, r.WithContext(ctx), res)
	if err != nil {
		h.Log.Error("begin session after Google sign-in", zap.Error(err))
		http.Redirect(w, r, "/login?error=google_failed", http.StatusSeeOther)
		return
	}
	h.Log.Info("user logged in via Google OAuth",
		zap.String("email", u.Email),
		zap.String("state", u.State.String()))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/"), http.StatusSeeOther)
}

// consumeState validates and deletes a pending OAuth state, returning the
// return URL saved with it.
func (h *Handler) consumeState(ctx context.Context, state string) (string, bool) {
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		return "", false
	}
	val, found, err := h.States.Get(ctx, stateKey(state))
	if err != nil {
		h.Log.Error("failed to load OAuth state", zap.Error(err))
		return "", false
	}
	if !found {
		h.Log.Warn("invalid or expired OAuth state")
		return "", false
	}
	if err := h.States.Delete(ctx, stateKey(state)); err != nil {
		h.Log.Warn("failed to delete OAuth state", zap.Error(err))
	}
	return string(val), true
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func stateKey(state string) string { return "oauth-state|" + state }

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
