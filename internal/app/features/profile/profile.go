// internal/app/features/profile/profile.go
package profile

import (
	"net/http"

	errorsfeature "github.com/dalemusser/clubsphere/internal/app/features/errors"
	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/formutil"
	"github.com/dalemusser/clubsphere/internal/app/system/imagehost"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// profileData is the view model for the profile page.
type profileData struct {
	formutil.Base
	Name  string
	Email string
	Photo string
}

// ServeProfile renders the profile form from the session identity.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		errorsfeature.RenderUnauthorized(w, r, "/login")
		return
	}
	h.render(w, r, profileData{Name: u.Name, Email: u.Email, Photo: u.PhotoURL}, "")
}

// HandleUpdate saves the display name and, when one was chosen, a new
// photo. The backend is written first; the identity provider and the
// session follow.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		errorsfeature.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "profile update")
	defer cancel()
	r = r.WithContext(ctx)

	data := profileData{Name: formutil.Value(r, "name"), Email: u.Email, Photo: u.PhotoURL}
	if data.Name == "" {
		h.render(w, r, data, "Please enter your name.")
		return
	}

	photo, err := h.Images.FromForm(r, "photo")
	if err != nil {
		h.Log.Warn("profile photo upload failed", zap.Error(err))
		h.render(w, r, data, imagehost.UserMessage(err))
		return
	}

	out := h.Users.UpdateProfile(ctx, models.ProfileUpdate{Name: data.Name, PhotoURL: photo})
	if !out.OK {
		if h.Sessions.HandleAPIError(w, r, out.Err) {
			return
		}
		h.render(w, r, data, out.Message)
		return
	}

	if err := h.Provider.UpdateProfile(ctx, apiclient.TokenFrom(ctx), data.Name, photo); err != nil {
		h.Log.Warn("identity provider profile update failed", zap.String("email", u.Email), zap.Error(err))
	}
	if err := h.Sessions.UpdateIdentity(w, r, data.Name, photo); err != nil {
		h.Log.Warn("session identity update failed", zap.Error(err))
	}

	h.Sessions.Notify(w, r, auth.NoticeSuccess, out.Message)
	http.Redirect(w, r, "/dashboard/profile", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data profileData, msg string) {
	formutil.SetBase(&data.Base, w, r, "Edit Profile", "/dashboard")
	if msg != "" {
		data.SetError(msg)
	}
	templates.Render(w, r, "profile", data)
}
