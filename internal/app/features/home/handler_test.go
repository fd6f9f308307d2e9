package home_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/clubsphere/internal/app/features/home"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/clubsphere/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*home.Handler, *testutil.FakeBackend) {
	t.Helper()
	be := testutil.NewFakeBackend(t)
	stores := testutil.NewStores(t, be)
	return home.NewHandler(stores.Clubs, zap.NewNop()), be
}

func TestNewHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	if h == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestServeRoot_LoadsFeaturedClubs(t *testing.T) {
	h, be := newTestHandler(t)
	be.AddClub(models.Club{Name: "Chess", MembersCount: 4})

	rec := testutil.NewRecorder()
	testutil.Serve(h.ServeRoot, rec, testutil.NewRequest(http.MethodGet, "/"))

	if n := be.Calls(http.MethodGet, "/clubs"); n != 1 {
		t.Errorf("GET /clubs calls: got %d, want 1", n)
	}
}

func TestServeRoot_BackendFailureIsRetriedNextVisit(t *testing.T) {
	h, be := newTestHandler(t)
	be.FailOn(http.MethodGet, "/clubs", http.StatusInternalServerError, "boom")

	testutil.Serve(h.ServeRoot, testutil.NewRecorder(), testutil.NewRequest(http.MethodGet, "/"))
	be.ClearFailures()
	testutil.Serve(h.ServeRoot, testutil.NewRecorder(), testutil.NewRequest(http.MethodGet, "/"))

	if n := be.Calls(http.MethodGet, "/clubs"); n != 2 {
		t.Errorf("GET /clubs calls: got %d, want 2 (failures are not cached)", n)
	}
}
