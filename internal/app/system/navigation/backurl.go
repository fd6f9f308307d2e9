// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/dashboard").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject. These prevent
	// redirect loops back to auth or action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks both the query parameter and form value for "return", validates
// the URL is safe (not an open redirect), optionally validates the prefix,
// and excludes specified subpaths to prevent redirect loops.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}

	if ret != "" && valid(ret, opts) {
		return ret
	}
	return opts.Fallback
}

func valid(ret string, opts BackURLOptions) bool {
	if !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") {
		return false
	}
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return false
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if strings.Contains(ret, excluded) {
			return false
		}
	}
	return true
}

// Common back URL configurations for reuse across packages.
var (
	// AfterSignIn is where login, registration and Google sign-in land.
	AfterSignIn = BackURLOptions{
		ExcludedSubpaths: []string{"/login", "/register", "/logout", "/auth/"},
		Fallback:         "/",
	}

	// AfterCheckout is where a cancelled checkout returns to.
	AfterCheckout = BackURLOptions{
		ExcludedSubpaths: []string{"/checkout"},
		Fallback:         "/dashboard",
	}

	// ManagerBackURL returns options for manager dashboard pages.
	ManagerBackURL = BackURLOptions{
		AllowedPrefix:    "/dashboard",
		ExcludedSubpaths: []string{"/add-", "/edit-"},
		Fallback:         "/dashboard/manager/clubs",
	}
)
