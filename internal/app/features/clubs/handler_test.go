package clubs_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/clubsphere/internal/app/features/clubs"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/clubsphere/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	h    *clubs.Handler
	be   *testutil.FakeBackend
	sm   *auth.SessionManager
	user testutil.TestUser
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	be := testutil.NewFakeBackend(t)
	stores := testutil.NewStores(t, be)
	sm := testutil.NewSessionManager(t)
	enroll := stores.NewEnrollment(stores.NewFlow(t, &testutil.StubProcessor{}))
	h := clubs.NewHandler(stores.Clubs, stores.Events, stores.Memberships, enroll, sm, zap.NewNop())
	return &fixture{h: h, be: be, sm: sm, user: be.AddUser("Member", "member@test.com", models.RoleMember)}
}

func (f *fixture) join(clubID string) *testutil.ResponseRecorder {
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/clubs/"+clubID+"/join", f.user)
	req = testutil.WithChiURLParam(req, "id", clubID)
	rec := testutil.NewRecorder()
	f.h.HandleJoin(rec, req)
	return rec
}

func TestHandleJoin_FreeClubJoinsWithoutPayment(t *testing.T) {
	f := newFixture(t)
	club := f.be.AddClub(models.Club{Name: "Chess", MembershipFee: 0})

	rec := f.join(club.ID)

	rec.AssertRedirect(t, "/clubs/"+club.ID)
	if n := f.be.Calls(http.MethodPost, "/memberships/join"); n != 1 {
		t.Errorf("join calls: got %d, want 1", n)
	}
	if n := f.be.Calls(http.MethodPost, "/payments/create-intent"); n != 0 {
		t.Errorf("free club must not open a payment intent, got %d calls", n)
	}
	if !testutil.HasNotice(testutil.Notices(f.sm, rec), auth.NoticeSuccess, "You have successfully joined the club.") {
		t.Error("expected success notice")
	}
}

func TestHandleJoin_PaidClubGoesToCheckoutFirst(t *testing.T) {
	f := newFixture(t)
	club := f.be.AddClub(models.Club{Name: "Sailing", MembershipFee: 25})

	rec := f.join(club.ID)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/checkout/") {
		t.Errorf("expected redirect to checkout, got %q", loc)
	}
	if n := f.be.Calls(http.MethodPost, "/payments/create-intent"); n != 1 {
		t.Errorf("create-intent calls: got %d, want 1", n)
	}
	if n := f.be.Calls(http.MethodPost, "/memberships/join"); n != 0 {
		t.Errorf("no membership request may be sent before payment, got %d", n)
	}
}

func TestHandleJoin_BackendRefusalShowsItsMessage(t *testing.T) {
	f := newFixture(t)
	club := f.be.AddClub(models.Club{Name: "Chess"})
	f.be.AddMembership(club.ID, f.user.Email)

	rec := f.join(club.ID)

	rec.AssertRedirect(t, "/clubs/"+club.ID)
	if !testutil.HasNotice(testutil.Notices(f.sm, rec), auth.NoticeError, "Already a member of this club") {
		t.Error("expected the backend's message as an error notice")
	}
}

func TestHandleJoin_UnknownClub(t *testing.T) {
	f := newFixture(t)

	rec := f.join("missing")

	rec.AssertRedirect(t, "/clubs/missing")
	if n := f.be.Calls(http.MethodPost, "/memberships/join"); n != 0 {
		t.Errorf("join calls: got %d, want 0", n)
	}
}

func TestServeDetail_ChecksMembershipOnlyWhenSignedIn(t *testing.T) {
	f := newFixture(t)
	club := f.be.AddClub(models.Club{Name: "Chess"})

	req := testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/clubs/"+club.ID), "id", club.ID)
	testutil.Serve(f.h.ServeDetail, testutil.NewRecorder(), req)
	if n := f.be.Calls(http.MethodGet, "/memberships/check/"+club.ID); n != 0 {
		t.Errorf("anonymous visit checked membership %d times", n)
	}

	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/clubs/"+club.ID, f.user)
	req = testutil.WithChiURLParam(req, "id", club.ID)
	testutil.Serve(f.h.ServeDetail, testutil.NewRecorder(), req)
	if n := f.be.Calls(http.MethodGet, "/memberships/check/"+club.ID); n != 1 {
		t.Errorf("membership checks: got %d, want 1", n)
	}
}

func TestServeDetail_NotFound(t *testing.T) {
	f := newFixture(t)
	req := testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/clubs/nope"), "id", "nope")
	rec := testutil.NewRecorder()
	testutil.Serve(f.h.ServeDetail, rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestRoutes_JoinRequiresSignIn(t *testing.T) {
	f := newFixture(t)
	club := f.be.AddClub(models.Club{Name: "Chess"})
	router := clubs.Routes(f.h, f.sm)

	req := testutil.NewRequest(http.MethodPost, "/"+club.ID+"/join")
	req.Header.Set("Accept", "text/html")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/login") {
		t.Errorf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if n := f.be.Calls(http.MethodPost, "/memberships/join"); n != 0 {
		t.Errorf("join calls: got %d, want 0", n)
	}
}
