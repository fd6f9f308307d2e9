package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/dalemusser/clubsphere/internal/domain/models"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session state                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// State is where a browser session sits in its lifecycle.
type State int

const (
	// StateUnauthenticated: no identity.
	StateUnauthenticated State = iota
	// StateResolving: signed in with the provider; the backend has not
	// confirmed a role yet.
	StateResolving
	// StateAuthenticated: signed in with a backend-assigned role.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// SessionUser is the Session Identity injected into r.Context().
type SessionUser struct {
	UID      string
	Name     string
	Email    string
	PhotoURL string
	Role     models.Role // RoleNone while resolving
	State    State

	// SyncAttempts and NextSyncAt describe the backoff of a failing sync.
	SyncAttempts int
	NextSyncAt   time.Time
}

// Resolving reports whether the backend role is still unknown.
func (u *SessionUser) Resolving() bool { return u.State == StateResolving }

// HasRole reports whether the user holds one of roles. A resolving session
// holds none.
func (u *SessionUser) HasRole(roles ...models.Role) bool {
	if u.State != StateAuthenticated {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// DisplayName falls back to the email when the provider has no name.
func (u *SessionUser) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user (resolving or authenticated).
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects u the way LoadSession does, with a bearer token
// derived from the uid. For tests.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	ctx := context.WithValue(r.Context(), currentUserKey, u)
	ctx = apiclient.WithToken(ctx, "test-token-"+u.UID)
	ctx = querycache.WithUser(ctx, u.Email)
	return r.WithContext(ctx)
}

func withUser(r *http.Request, u *SessionUser, token string) *http.Request {
	ctx := context.WithValue(r.Context(), currentUserKey, u)
	ctx = apiclient.WithToken(ctx, token)
	ctx = querycache.WithUser(ctx, u.Email)
	return r.WithContext(ctx)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Guards                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// RequireSignedIn ensures there is a user in context (set by LoadSession).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		redirectToLogin(w, r)
	})
}

// RequireRole ensures the signed-in user holds one of the allowed roles.
// A session whose role is still resolving is sent to /dashboard, which
// waits for the role and routes from there.
func (sm *SessionManager) RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)

			// 1) Not signed in → 401 semantics
			if !ok {
				redirectToLogin(w, r)
				return
			}

			// 2) Role unknown → wait on the dashboard placeholder
			if u.Resolving() {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/dashboard")
					w.WriteHeader(http.StatusAccepted)
					return
				}
				if wantsHTML(r) {
					http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
					return
				}
				http.Error(w, "role not resolved", http.StatusForbidden)
				return
			}

			// 3) Signed in but wrong role → 403 semantics
			if !u.HasRole(allowed...) {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/forbidden")
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RedirectToLogin sends the browser to the login page, preserving where it
// was headed.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) { redirectToLogin(w, r) }

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(currentURI(r))

	// HTMX: full-page client redirect (no partial swap)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html")
}

func currentURI(r *http.Request) string {
	// POST targets are not safe to return to; go back to the page instead.
	if r.Method != http.MethodGet {
		if ref := r.Header.Get("Referer"); ref != "" {
			if u, err := url.Parse(ref); err == nil && u.Path != "" {
				return u.RequestURI()
			}
		}
		return "/dashboard"
	}
	u := *r.URL
	return u.RequestURI()
}
