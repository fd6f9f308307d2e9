// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(w, r, "Sign in required", backURL),
		Message: "Please sign in to continue.",
	}
	data.BackURL = backURL
	w.WriteHeader(http.StatusUnauthorized)
	templates.Render(w, r, "error_page", data)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "You don't have permission to view this page."
	}
	if backURL == "" {
		backURL = "/"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(w, r, "Access denied", backURL),
		Message: msg,
	}
	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_page", data)
}

// RenderNotFound shows the "page not found" page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Sorry, we couldn't find the page you were looking for."
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(w, r, "Page not found", "/"),
		Message: msg,
	}
	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_page", data)
}

// RenderUnavailable shows a page for a failed backend read.
func RenderUnavailable(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Something went wrong. Please try again."
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(w, r, "Something went wrong", "/"),
		Message: msg,
	}
	w.WriteHeader(http.StatusBadGateway)
	templates.Render(w, r, "error_page", data)
}
