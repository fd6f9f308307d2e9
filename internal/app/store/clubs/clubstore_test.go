package clubstore_test

import (
	"net/http"
	"testing"

	clubstore "github.com/dalemusser/clubsphere/internal/app/store/clubs"
	dashboardstore "github.com/dalemusser/clubsphere/internal/app/store/dashboard"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/clubsphere/internal/testutil"
)

func TestStore_ListOnlyApprovedAndCached(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := clubstore.New(be.Client(), testutil.NewQueryCache(t))
	ctx := testutil.TestContext(t)

	be.AddClub(models.Club{Name: "Chess", Status: models.ClubApproved})
	be.AddClub(models.Club{Name: "Hidden", Status: models.ClubPending})

	clubs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(clubs) != 1 || clubs[0].Name != "Chess" {
		t.Fatalf("expected only the approved club, got %+v", clubs)
	}

	if _, err := store.List(ctx); err != nil {
		t.Fatalf("second List failed: %v", err)
	}
	if n := be.Calls(http.MethodGet, "/clubs"); n != 1 {
		t.Errorf("GET /clubs calls: got %d, want 1", n)
	}
}

func TestFilter(t *testing.T) {
	clubs := []models.Club{
		{Name: "Chess Club", Category: "Games"},
		{Name: "Photo Walkers", Category: "Arts"},
		{Name: "Board Games Night", Category: "Games"},
	}

	tests := []struct {
		name     string
		search   string
		category string
		want     int
	}{
		{"no filter", "", "", 3},
		{"all category", "", "All", 3},
		{"case-insensitive search", "CHESS", "", 1},
		{"category only", "", "Games", 2},
		{"search and category", "night", "Games", 1},
		{"no match", "zzz", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clubstore.Filter(clubs, tt.search, tt.category); len(got) != tt.want {
				t.Errorf("got %d clubs, want %d", len(got), tt.want)
			}
		})
	}
}

func TestStore_Featured(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := clubstore.New(be.Client(), testutil.NewQueryCache(t))
	ctx := testutil.TestContext(t)

	for i, n := range []int{5, 50, 12, 30} {
		be.AddClub(models.Club{Name: string(rune('A' + i)), MembersCount: n})
	}

	top, err := store.Featured(ctx, 3)
	if err != nil {
		t.Fatalf("Featured failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 clubs, got %d", len(top))
	}
	if top[0].MembersCount != 50 || top[1].MembersCount != 30 || top[2].MembersCount != 12 {
		t.Errorf("unexpected order: %d, %d, %d", top[0].MembersCount, top[1].MembersCount, top[2].MembersCount)
	}
}

func TestStore_ManagedBy(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := clubstore.New(be.Client(), testutil.NewQueryCache(t))
	mgr := be.AddUser("Manager", "mgr@test.com", models.RoleClubManager)

	be.AddClub(models.Club{Name: "Mine", ManagerEmail: "MGR@test.com", Status: models.ClubPending})
	be.AddClub(models.Club{Name: "Theirs", ManagerEmail: "other@test.com"})

	clubs, err := store.ManagedBy(mgr.Context(), mgr.Email)
	if err != nil {
		t.Fatalf("ManagedBy failed: %v", err)
	}
	if len(clubs) != 1 || clubs[0].Name != "Mine" {
		t.Errorf("expected only the manager's club, got %+v", clubs)
	}
}

func TestStore_SetStatusInvalidatesAdminViews(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	qc := testutil.NewQueryCache(t)
	store := clubstore.New(be.Client(), qc)
	stats := dashboardstore.New(be.Client(), qc)
	admin := be.AddUser("Admin", "admin@test.com", models.RoleAdmin)
	ctx := admin.Context()

	club := be.AddClub(models.Club{Name: "Pending", Status: models.ClubPending})

	if _, err := store.All(ctx); err != nil {
		t.Fatalf("All failed: %v", err)
	}
	before, err := stats.AdminStats(ctx)
	if err != nil {
		t.Fatalf("AdminStats failed: %v", err)
	}
	if before.PendingClubs != 1 {
		t.Fatalf("pending clubs before approval: got %d, want 1", before.PendingClubs)
	}
	public, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(public) != 0 {
		t.Fatalf("pending club should not be listed publicly")
	}

	out := store.SetStatus(ctx, club.ID, models.ClubApproved)
	if !out.OK {
		t.Fatalf("SetStatus failed: %s", out.Message)
	}
	if out.Message != "Club approved" {
		t.Errorf("message: got %q", out.Message)
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if all[0].Status != models.ClubApproved {
		t.Errorf("admin list not refreshed: status %q", all[0].Status)
	}
	if n := be.Calls(http.MethodGet, "/clubs/admin/all"); n != 2 {
		t.Errorf("GET /clubs/admin/all calls: got %d, want 2", n)
	}

	after, err := stats.AdminStats(ctx)
	if err != nil {
		t.Fatalf("AdminStats failed: %v", err)
	}
	if after.PendingClubs != 0 {
		t.Errorf("admin stats not refreshed: pending clubs %d", after.PendingClubs)
	}
	if n := be.Calls(http.MethodGet, "/dashboard/admin/stats"); n != 2 {
		t.Errorf("GET /dashboard/admin/stats calls: got %d, want 2", n)
	}

	public, err = store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(public) != 1 {
		t.Errorf("approved club should now be listed publicly")
	}
}

func TestStore_CreateFailureUsesBackendMessage(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := clubstore.New(be.Client(), testutil.NewQueryCache(t))
	mgr := be.AddUser("Manager", "mgr@test.com", models.RoleClubManager)

	be.FailOn(http.MethodPost, "/clubs", http.StatusBadRequest, "Club name already taken")

	out := store.Create(mgr.Context(), models.ClubInput{Name: "Dup"})
	if out.OK {
		t.Fatal("expected failure")
	}
	if out.Message != "Club name already taken" {
		t.Errorf("message: got %q", out.Message)
	}
}

func TestStore_CreateSetsManagerAndPending(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := clubstore.New(be.Client(), testutil.NewQueryCache(t))
	mgr := be.AddUser("Manager", "mgr@test.com", models.RoleClubManager)

	out := store.Create(mgr.Context(), models.ClubInput{Name: "New Club", Category: "Sports", MembershipFee: 10})
	if !out.OK {
		t.Fatalf("Create failed: %s", out.Message)
	}

	clubs, err := store.ManagedBy(mgr.Context(), mgr.Email)
	if err != nil {
		t.Fatalf("ManagedBy failed: %v", err)
	}
	if len(clubs) != 1 || clubs[0].Status != models.ClubPending {
		t.Errorf("expected one pending club, got %+v", clubs)
	}
}
