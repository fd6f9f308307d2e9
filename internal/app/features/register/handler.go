// internal/app/features/register/handler.go
package register

import (
	"net/http"
	"net/mail"
	"strings"
	"unicode"

	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/formutil"
	"github.com/dalemusser/clubsphere/internal/app/system/identity"
	"github.com/dalemusser/clubsphere/internal/app/system/imagehost"
	"github.com/dalemusser/clubsphere/internal/app/system/navigation"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	Provider identity.Provider
	Images   *imagehost.Client
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

func NewHandler(provider identity.Provider, images *imagehost.Client, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Provider: provider,
		Images:   images,
		Sessions: sm,
		Log:      logger,
	}
}

type registerFormData struct {
	formutil.Base
	Name      string
	Email     string
	ReturnURL string
}

// ServeRegister handles GET /register.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok && u != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, registerFormData{}, "")
}

// HandleRegister handles POST /register: upload the photo, create the
// provider account, then start a session the same way sign-in does.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "sign up")
	defer cancel()
	r = r.WithContext(ctx)

	data := registerFormData{
		Name:      formutil.Value(r, "name"),
		Email:     formutil.Value(r, "email"),
		ReturnURL: formutil.Value(r, "return"),
	}
	password := r.FormValue("password")

	if msg := validate(data.Name, data.Email, password); msg != "" {
		h.render(w, r, data, msg)
		return
	}
	photoURL, err := h.Images.FromForm(r, "photo")
	if err != nil {
		h.Log.Warn("profile photo upload failed", zap.Error(err))
		h.render(w, r, data, imagehost.UserMessage(err))
		return
	}

	res, err := h.Provider.SignUp(ctx, data.Email, password, data.Name, photoURL)
	if err != nil {
		h.Log.Info("sign-up rejected", zap.String("email", data.Email), zap.Error(err))
		h.render(w, r, data, identity.UserMessage(err))
		return
	}

	if _, err := h.Sessions.Begin(w, r, res); err != nil {
		h.Log.Error("begin session after sign-up", zap.Error(err))
		h.render(w, r, data, "Your account was created, but we could not sign you in. Please log in.")
		return
	}
	h.Log.Info("account created", zap.String("email", data.Email))
	h.Sessions.Notify(w, r, auth.NoticeSuccess, "User created successfully.")
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.AfterSignIn), http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data registerFormData, msg string) {
	formutil.SetBase(&data.Base, w, r, "Register", "/")
	if msg != "" {
		data.SetError(msg)
	}
	templates.Render(w, r, "register", data)
}

// validate returns the first problem with the submitted fields.
func validate(name, email, password string) string {
	if name == "" {
		return "Please enter your name."
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return "Please enter a valid email address."
	}
	return PasswordProblem(password)
}

// PasswordProblem describes why password is not acceptable, or returns "".
func PasswordProblem(password string) string {
	if len(password) < 6 {
		return "Password must be at least 6 characters long."
	}
	var upper, lower bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		}
	}
	if !upper {
		return "Password must contain at least one uppercase letter."
	}
	if !lower {
		return "Password must contain at least one lowercase letter."
	}
	return ""
}
