// internal/app/features/manager/clubs.go
package manager

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/app/system/formutil"
	"github.com/dalemusser/clubsphere/internal/app/system/imagehost"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type clubsData struct {
	viewdata.BaseVM
	Clubs []models.Club
}

type clubFormData struct {
	formutil.Base
	ID         string
	Input      models.ClubInput
	Banner     string
	Categories []string
	Action     string
	Submit     string
}

// ServeClubs lists the clubs the user manages.
func (h *Handler) ServeClubs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "manager clubs")
	defer cancel()

	clubs, err := h.myClubs(ctx, r)
	if err != nil {
		h.loadFailed(w, r, "your clubs", err)
		return
	}
	templates.Render(w, r, "manager_clubs", clubsData{
		BaseVM: viewdata.NewBaseVM(w, r, "Manage Clubs", authz.ViewManagerOverview.Path()),
		Clubs:  clubs,
	})
}

// ServeAddClub renders an empty club form.
func (h *Handler) ServeAddClub(w http.ResponseWriter, r *http.Request) {
	h.renderClubForm(w, r, clubFormData{Input: models.ClubInput{Category: models.ClubCategories[0]}}, "")
}

// HandleAddClub creates a club. New clubs wait for admin approval.
func (h *Handler) HandleAddClub(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "add club")
	defer cancel()
	r = r.WithContext(ctx)

	data := clubFormData{}
	in, msg := readClub(r)
	data.Input = in
	if msg != "" {
		h.renderClubForm(w, r, data, msg)
		return
	}
	banner, err := h.Images.FromForm(r, "banner")
	if err != nil {
		h.Log.Warn("club banner upload failed", zap.Error(err))
		h.renderClubForm(w, r, data, imagehost.UserMessage(err))
		return
	}
	in.BannerImage = banner

	out := h.Clubs.Create(ctx, in)
	if !out.OK {
		if h.Sessions.HandleAPIError(w, r, out.Err) {
			return
		}
		h.renderClubForm(w, r, data, out.Message)
		return
	}
	h.finish(w, r, out, authz.ViewManagerClubs.Path())
}

// ServeEditClub renders the form for a club the user manages.
func (h *Handler) ServeEditClub(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "edit club form")
	defer cancel()

	club, ok := h.ownedClub(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	h.renderClubForm(w, r, clubFormData{
		ID:     club.ID,
		Banner: club.BannerImage,
		Input: models.ClubInput{
			Name:          club.Name,
			Category:      club.Category,
			Description:   club.Description,
			Location:      club.Location,
			MembershipFee: club.MembershipFee,
		},
	}, "")
}

// HandleEditClub saves a club the user manages. The banner is replaced
// only when a new one is uploaded.
func (h *Handler) HandleEditClub(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "edit club")
	defer cancel()
	r = r.WithContext(ctx)

	club, ok := h.ownedClub(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	in, msg := readClub(r)
	data := clubFormData{ID: club.ID, Banner: club.BannerImage, Input: in}
	if msg != "" {
		h.renderClubForm(w, r, data, msg)
		return
	}
	banner, err := h.Images.FromForm(r, "banner")
	if err != nil {
		h.Log.Warn("club banner upload failed", zap.Error(err))
		h.renderClubForm(w, r, data, imagehost.UserMessage(err))
		return
	}
	in.BannerImage = banner
	if in.BannerImage == "" {
		in.BannerImage = club.BannerImage
	}

	out := h.Clubs.Update(ctx, club.ID, in)
	if !out.OK {
		if h.Sessions.HandleAPIError(w, r, out.Err) {
			return
		}
		h.renderClubForm(w, r, data, out.Message)
		return
	}
	h.finish(w, r, out, authz.ViewManagerClubs.Path())
}

// readClub reads and checks the club form fields.
func readClub(r *http.Request) (models.ClubInput, string) {
	in := models.ClubInput{
		Name:        formutil.Value(r, "clubName"),
		Category:    formutil.Value(r, "category"),
		Description: formutil.Value(r, "description"),
		Location:    formutil.Value(r, "location"),
	}
	fee, err := formutil.Amount(r, "membershipFee")
	if err != nil {
		return in, "Membership fee must be a number of zero or more."
	}
	in.MembershipFee = fee

	switch {
	case in.Name == "":
		return in, "Club name is required."
	case !validCategory(in.Category):
		return in, "Choose a category."
	case in.Location == "":
		return in, "Location is required."
	}
	return in, ""
}

func validCategory(c string) bool {
	for _, known := range models.ClubCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (h *Handler) renderClubForm(w http.ResponseWriter, r *http.Request, data clubFormData, msg string) {
	title, action, submit := "Add Club", authz.ViewManagerAddClub.Path(), "Create Club"
	if data.ID != "" {
		title, action, submit = "Edit Club", authz.ViewManagerEditClub.Path()+"/"+data.ID, "Save Changes"
	}
	formutil.SetBase(&data.Base, w, r, title, authz.ViewManagerClubs.Path())
	if msg != "" {
		data.SetError(msg)
	}
	data.Categories = models.ClubCategories
	data.Action = action
	data.Submit = submit
	templates.Render(w, r, "manager_club_form", data)
}
