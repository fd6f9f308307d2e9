package admin_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dalemusser/clubsphere/internal/app/features/admin"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/clubsphere/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	h     *admin.Handler
	be    *testutil.FakeBackend
	sm    *auth.SessionManager
	admin testutil.TestUser
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	be := testutil.NewFakeBackend(t)
	stores := testutil.NewStores(t, be)
	sm := testutil.NewSessionManager(t)
	h := admin.NewHandler(admin.Stores{
		Clubs:       stores.Clubs,
		Events:      stores.Events,
		Users:       stores.Users,
		Memberships: stores.Memberships,
		Payments:    stores.Payments,
		Stats:       stores.Dashboard,
	}, sm, zap.NewNop())
	return &fixture{
		h:     h,
		be:    be,
		sm:    sm,
		admin: be.AddUser("Root", "root@test.com", models.RoleAdmin),
	}
}

func (f *fixture) post(fn http.HandlerFunc, target, id string, form url.Values) *testutil.ResponseRecorder {
	req := testutil.NewFormRequest(target, form, f.admin)
	if id != "" {
		req = testutil.WithChiURLParam(req, "id", id)
	}
	rec := testutil.NewRecorder()
	testutil.Serve(fn, rec, req)
	return rec
}

func confirmed(extra url.Values) url.Values {
	v := url.Values{"confirm": {"yes"}}
	for k, vals := range extra {
		v[k] = vals
	}
	return v
}

func TestServeOverview_LoadsStatsAndClubs(t *testing.T) {
	f := newFixture(t)
	f.be.AddClub(models.Club{Name: "Chess", Status: models.ClubPending})

	rec := testutil.NewRecorder()
	testutil.Serve(f.h.ServeOverview, rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/admin", f.admin))

	rec.AssertStatus(t, http.StatusOK)
	if f.be.Calls(http.MethodGet, "/dashboard/admin/stats") != 1 {
		t.Error("expected one stats call")
	}
	if f.be.Calls(http.MethodGet, "/clubs/admin/all") != 1 {
		t.Error("expected one all-clubs call")
	}
}

func TestServeOverview_BackendDown(t *testing.T) {
	f := newFixture(t)
	f.be.FailOn(http.MethodGet, "/dashboard/admin/stats", http.StatusInternalServerError, "boom")

	rec := testutil.NewRecorder()
	testutil.Serve(f.h.ServeOverview, rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/admin", f.admin))

	rec.AssertStatus(t, http.StatusBadGateway)
}

func TestHandleApprove(t *testing.T) {
	f := newFixture(t)
	club := f.be.AddClub(models.Club{Name: "Chess", Status: models.ClubPending})

	rec := f.post(f.h.HandleApprove, "/dashboard/admin/clubs/"+club.ID+"/approve", club.ID, url.Values{})

	rec.AssertRedirect(t, "/dashboard/admin/clubs")
	got, _ := f.be.Club(club.ID)
	if got.Status != models.ClubApproved {
		t.Errorf("status: got %q, want approved", got.Status)
	}
	if !testutil.HasNotice(testutil.Notices(f.sm, rec), auth.NoticeSuccess, "Club approved") {
		t.Error("expected success notice")
	}
}

func TestHandleReject_BackendMessageShown(t *testing.T) {
	f := newFixture(t)
	club := f.be.AddClub(models.Club{Name: "Chess", Status: models.ClubPending})
	f.be.FailOn(http.MethodPut, "/clubs/"+club.ID+"/status", http.StatusBadRequest, "Club already reviewed")

	rec := f.post(f.h.HandleReject, "/dashboard/admin/clubs/"+club.ID+"/reject", club.ID, url.Values{})

	rec.AssertRedirect(t, "/dashboard/admin/clubs")
	if !testutil.HasNotice(testutil.Notices(f.sm, rec), auth.NoticeError, "Club already reviewed") {
		t.Error("expected the backend message as an error notice")
	}
}

func TestHandleDeleteClub_RequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	club := f.be.AddClub(models.Club{Name: "Chess"})
	target := "/dashboard/admin/clubs/" + club.ID + "/delete"

	rec := f.post(f.h.HandleDeleteClub, target, club.ID, url.Values{"name": {"Chess"}})
	if rec.Header().Get("Location") != "" {
		t.Error("unconfirmed delete must show the confirmation page")
	}
	if f.be.Calls(http.MethodDelete, "/clubs/"+club.ID) != 0 {
		t.Fatal("club deleted without confirmation")
	}

	rec = f.post(f.h.HandleDeleteClub, target, club.ID, confirmed(nil))
	rec.AssertRedirect(t, "/dashboard/admin/clubs")
	if _, ok := f.be.Club(club.ID); ok {
		t.Error("club still present after confirmed delete")
	}
}

func TestHandleSetRole(t *testing.T) {
	f := newFixture(t)
	u := f.be.AddUser("Ada", "ada@test.com", models.RoleMember)
	target := "/dashboard/admin/users/" + u.ID + "/role"

	rec := f.post(f.h.HandleSetRole, target, u.ID, url.Values{"role": {"clubManager"}})
	if f.be.Calls(http.MethodPut, "/users/"+u.ID+"/role") != 0 {
		t.Fatal("role changed without confirmation")
	}

	rec = f.post(f.h.HandleSetRole, target, u.ID, confirmed(url.Values{"role": {"clubManager"}}))
	rec.AssertRedirect(t, "/dashboard/admin/users")
	got, _ := f.be.User(u.ID)
	if got.Role != models.RoleClubManager {
		t.Errorf("role: got %q, want clubManager", got.Role)
	}
	if !testutil.HasNotice(testutil.Notices(f.sm, rec), auth.NoticeSuccess, "User role updated to Club Manager") {
		t.Error("expected success notice")
	}
}

func TestHandleSetRole_InvalidRole(t *testing.T) {
	f := newFixture(t)
	u := f.be.AddUser("Ada", "ada@test.com", models.RoleMember)

	rec := f.post(f.h.HandleSetRole, "/dashboard/admin/users/"+u.ID+"/role", u.ID, confirmed(url.Values{"role": {"superadmin"}}))

	rec.AssertRedirect(t, "/dashboard/admin/users")
	if f.be.Calls(http.MethodPut, "/users/"+u.ID+"/role") != 0 {
		t.Error("invalid role must not reach the backend")
	}
}

func TestHandleSetRole_SameRoleNamesUserByEmailWhenUnnamed(t *testing.T) {
	f := newFixture(t)
	u := f.be.AddUser("", "noname@test.com", models.RoleMember)

	rec := f.post(f.h.HandleSetRole, "/dashboard/admin/users/"+u.ID+"/role", u.ID, confirmed(url.Values{"role": {"member"}}))

	rec.AssertRedirect(t, "/dashboard/admin/users")
	if f.be.Calls(http.MethodPut, "/users/"+u.ID+"/role") != 0 {
		t.Error("unchanged role must not reach the backend")
	}
	if !testutil.HasNotice(testutil.Notices(f.sm, rec), auth.NoticeInfo, "noname@test.com is already Member.") {
		t.Errorf("expected notice naming the user by email, got %+v", testutil.Notices(f.sm, rec))
	}
}

func TestOwnAccountIsRefused(t *testing.T) {
	tests := []struct {
		name   string
		action func(h *admin.Handler) http.HandlerFunc
		suffix string
		form   url.Values
		method string
		path   string
	}{
		{"role", func(h *admin.Handler) http.HandlerFunc { return h.HandleSetRole }, "/role", confirmed(url.Values{"role": {"member"}}), http.MethodPut, "/role"},
		{"delete", func(h *admin.Handler) http.HandlerFunc { return h.HandleDeleteUser }, "/delete", confirmed(nil), http.MethodDelete, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.admin.ID

			rec := f.post(tc.action(f.h), "/dashboard/admin/users/"+id+tc.suffix, id, tc.form)

			rec.AssertRedirect(t, "/dashboard/admin/users")
			if n := f.be.Calls(tc.method, "/users/"+id+tc.path); n != 0 {
				t.Errorf("backend mutation called %d times for own account", n)
			}
			if !testutil.HasNotice(testutil.Notices(f.sm, rec), auth.NoticeError, "You cannot change your own account.") {
				t.Error("expected refusal notice")
			}
		})
	}
}

func TestHandleDeleteUser(t *testing.T) {
	f := newFixture(t)
	u := f.be.AddUser("Ada", "ada@test.com", models.RoleMember)

	rec := f.post(f.h.HandleDeleteUser, "/dashboard/admin/users/"+u.ID+"/delete", u.ID, confirmed(nil))

	rec.AssertRedirect(t, "/dashboard/admin/users")
	if _, ok := f.be.User(u.ID); ok {
		t.Error("user still present")
	}
}

func TestHandleDeleteUser_Unknown(t *testing.T) {
	f := newFixture(t)

	rec := f.post(f.h.HandleDeleteUser, "/dashboard/admin/users/nope/delete", "nope", confirmed(nil))

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleDeleteEvent(t *testing.T) {
	f := newFixture(t)
	ev := f.be.AddEvent(models.Event{Title: "Gala", ClubID: "c1"})
	target := "/dashboard/admin/events/" + ev.ID + "/delete"

	f.post(f.h.HandleDeleteEvent, target, ev.ID, url.Values{"title": {"Gala"}})
	if f.be.Calls(http.MethodDelete, "/events/"+ev.ID) != 0 {
		t.Fatal("event deleted without confirmation")
	}

	rec := f.post(f.h.HandleDeleteEvent, target, ev.ID, confirmed(nil))
	rec.AssertRedirect(t, "/dashboard/admin/events")
	if f.be.Calls(http.MethodDelete, "/events/"+ev.ID) != 1 {
		t.Error("expected one delete call")
	}
}

func TestServeClubMembers_UnknownClub(t *testing.T) {
	f := newFixture(t)
	req := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/admin/club/nope", f.admin), "id", "nope")

	rec := testutil.NewRecorder()
	testutil.Serve(f.h.ServeClubMembers, rec, req)

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServePayments(t *testing.T) {
	f := newFixture(t)

	rec := testutil.NewRecorder()
	testutil.Serve(f.h.ServePayments, rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/admin/payments", f.admin))

	rec.AssertStatus(t, http.StatusOK)
	if f.be.Calls(http.MethodGet, "/payments/all") != 1 {
		t.Error("expected one payments call")
	}
}

func TestRoutes_AdminOnly(t *testing.T) {
	tests := []struct {
		name string
		user testutil.TestUser
	}{
		{"member", testutil.MemberUser()},
		{"manager", testutil.ManagerUser()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			router := admin.Routes(f.h, f.sm)
			req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/users", nil), tc.user)
			rec := testutil.NewRecorder()

			router.ServeHTTP(rec, req)

			rec.AssertRedirect(t, "/forbidden")
			if n := len(f.be.CallLog()); n != 0 {
				t.Errorf("forbidden request made %d backend calls", n)
			}
		})
	}
}
