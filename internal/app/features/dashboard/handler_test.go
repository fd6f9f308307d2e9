package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/clubsphere/internal/app/features/dashboard"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/clubsphere/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	h  *dashboard.Handler
	be *testutil.FakeBackend
	sm *auth.SessionManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	be := testutil.NewFakeBackend(t)
	stores := testutil.NewStores(t, be)
	sm := testutil.NewSessionManager(t)
	h := dashboard.NewHandler(stores.Memberships, stores.Registrations, stores.Payments, sm, zap.NewNop())
	return &fixture{h: h, be: be, sm: sm}
}

func (f *fixture) get(user *testutil.TestUser, target string, fn http.HandlerFunc) *testutil.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if user != nil {
		req = testutil.WithUser(req, *user)
	}
	rec := testutil.NewRecorder()
	testutil.Serve(fn, rec, req)
	return rec
}

func TestServeDashboard_Unauthenticated(t *testing.T) {
	f := newFixture(t)

	rec := f.get(nil, "/dashboard", f.h.ServeDashboard)

	rec.AssertRedirect(t, "/login?return=%2Fdashboard")
}

func TestServeDashboard_RoleLanding(t *testing.T) {
	tests := []struct {
		name string
		user testutil.TestUser
		want string
	}{
		{"admin", testutil.AdminUser(), "/dashboard/admin/clubs"},
		{"manager", testutil.ManagerUser(), "/dashboard/manager"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.get(&tc.user, "/dashboard", f.h.ServeDashboard)
			rec.AssertRedirect(t, tc.want)
		})
	}
}

func TestServeDashboard_ResolvingShowsPlaceholder(t *testing.T) {
	f := newFixture(t)
	pending := testutil.TestUser{UID: "uid-pending", Name: "Pending", Email: "pending@test.com"}

	rec := f.get(&pending, "/dashboard", f.h.ServeDashboard)

	if got := rec.Header().Get("Refresh"); got != "2" {
		t.Errorf("Refresh header: got %q, want %q", got, "2")
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("resolving session must not be redirected, got %q", loc)
	}
	if len(f.be.CallLog()) != 0 {
		t.Errorf("placeholder must not call the backend: %v", f.be.CallLog())
	}
}

func TestServeDashboard_MemberLoadsOverview(t *testing.T) {
	f := newFixture(t)
	member := f.be.AddUser("Member", "member@test.com", models.RoleMember)
	club := f.be.AddClub(models.Club{Name: "Chess"})
	f.be.AddMembership(club.ID, member.Email)

	f.get(&member, "/dashboard", f.h.ServeDashboard)

	for _, path := range []string{"/memberships/my", "/event-registrations/my", "/payments/my-payments"} {
		if n := f.be.Calls(http.MethodGet, path); n != 1 {
			t.Errorf("GET %s: got %d calls, want 1", path, n)
		}
	}
}

func TestServeOverview_BackendDown(t *testing.T) {
	f := newFixture(t)
	member := f.be.AddUser("Member", "member@test.com", models.RoleMember)
	f.be.FailOn(http.MethodGet, "/payments/my-payments", http.StatusInternalServerError, "boom")

	rec := f.get(&member, "/dashboard", f.h.ServeOverview)

	rec.AssertStatus(t, http.StatusBadGateway)
}

func TestServeMyClubs_ListsMemberships(t *testing.T) {
	f := newFixture(t)
	member := f.be.AddUser("Member", "member@test.com", models.RoleMember)

	f.get(&member, "/dashboard/my-clubs", f.h.ServeMyClubs)

	if n := f.be.Calls(http.MethodGet, "/memberships/my"); n != 1 {
		t.Errorf("GET /memberships/my: got %d calls, want 1", n)
	}
}

func TestRoutes_ResolvingUserWaitsOnDashboard(t *testing.T) {
	f := newFixture(t)
	router := dashboard.Routes(f.h, f.sm)
	pending := testutil.TestUser{UID: "uid-pending", Name: "Pending", Email: "pending@test.com"}

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/my-events", pending)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertRedirect(t, "/dashboard")
}
