// internal/app/features/admin/clubs.go
package admin

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/clubsphere/internal/app/features/errors"
	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/app/system/formutil"
	"github.com/dalemusser/clubsphere/internal/app/system/search"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

type clubsData struct {
	viewdata.BaseVM
	Clubs    []models.Club
	Status   string
	Statuses []models.ClubStatus
}

type clubMembersData struct {
	viewdata.BaseVM
	Club    models.Club
	Members []models.Membership
}

// ServeClubs lists every club, optionally narrowed by ?status=.
func (h *Handler) ServeClubs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin clubs")
	defer cancel()

	clubs, err := h.Clubs.All(ctx)
	if err != nil {
		h.loadFailed(w, r, "clubs", err)
		return
	}
	status := strings.ToLower(strings.TrimSpace(query.Get(r, "status")))
	if search.EqualsAnyFold(status, string(models.ClubPending), string(models.ClubApproved), string(models.ClubRejected)) {
		clubs = byStatus(clubs, models.ClubStatus(status))
	} else {
		status = ""
	}
	templates.Render(w, r, "admin_clubs", clubsData{
		BaseVM:   viewdata.NewBaseVM(w, r, "All Clubs", "/dashboard/admin"),
		Clubs:    clubs,
		Status:   status,
		Statuses: []models.ClubStatus{models.ClubPending, models.ClubApproved, models.ClubRejected},
	})
}

// HandleApprove handles POST /clubs/{id}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.ClubApproved)
}

// HandleReject handles POST /clubs/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.ClubRejected)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status models.ClubStatus) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "club status")
	defer cancel()
	out := h.Clubs.SetStatus(ctx, chi.URLParam(r, "id"), status)
	h.finish(w, r, out, authz.ViewAdminClubs.Path())
}

// HandleDeleteClub asks for confirmation, then deletes the club.
func (h *Handler) HandleDeleteClub(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back := authz.ViewAdminClubs.Path()
	if !formutil.Confirmed(r) {
		name := formutil.Value(r, "name")
		if name == "" {
			name = "this club"
		}
		templates.Render(w, r, "admin_confirm", formutil.NewConfirm(w, r,
			"Delete Club",
			"Delete "+name+"? Its events and memberships go with it. This cannot be undone.",
			back+"/"+id+"/delete", "Delete Club", back))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete club")
	defer cancel()
	h.finish(w, r, h.Clubs.Delete(ctx, id), back)
}

// ServeClubMembers lists the members of one club.
func (h *Handler) ServeClubMembers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin club members")
	defer cancel()

	var (
		club    *models.Club
		members []models.Membership
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		club, err = h.Clubs.Get(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		members, err = h.Memberships.ForClub(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		if apiclient.IsNotFound(err) {
			errorsfeature.RenderNotFound(w, r, "Club not found.")
			return
		}
		h.loadFailed(w, r, "club members", err)
		return
	}

	templates.Render(w, r, "admin_club_members", clubMembersData{
		BaseVM:  viewdata.NewBaseVM(w, r, club.Name+" Members", authz.ViewAdminClubs.Path()),
		Club:    *club,
		Members: members,
	})
}
