package membershipstore_test

import (
	"net/http"
	"testing"

	membershipstore "github.com/dalemusser/clubsphere/internal/app/store/memberships"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/clubsphere/internal/testutil"
)

func TestStore_JoinRefreshesCheckAndMine(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := membershipstore.New(be.Client(), testutil.NewQueryCache(t))
	member := be.AddUser("Member", "member@test.com", models.RoleMember)
	ctx := member.Context()
	club := be.AddClub(models.Club{Name: "Chess"})

	check, err := store.Check(ctx, club.ID)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if check.IsMember {
		t.Fatal("should not be a member yet")
	}

	out := store.Join(ctx, club.ID)
	if !out.OK {
		t.Fatalf("Join failed: %s", out.Message)
	}

	check, err = store.Check(ctx, club.ID)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !check.IsMember {
		t.Error("membership check not refreshed after join")
	}

	mine, err := store.Mine(ctx)
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ClubID.String() != club.ID {
		t.Fatalf("unexpected memberships: %+v", mine)
	}
	if mine[0].Club == nil || mine[0].Club.Name != "Chess" {
		t.Error("expected populated club on membership")
	}
}

func TestStore_JoinTwiceReportsBackendMessage(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := membershipstore.New(be.Client(), testutil.NewQueryCache(t))
	member := be.AddUser("Member", "member@test.com", models.RoleMember)
	club := be.AddClub(models.Club{Name: "Chess"})
	be.AddMembership(club.ID, member.Email)

	out := store.Join(member.Context(), club.ID)
	if out.OK {
		t.Fatal("expected failure")
	}
	if out.Message != "Already a member of this club" {
		t.Errorf("message: got %q", out.Message)
	}
}

func TestStore_CheckIsPerUser(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := membershipstore.New(be.Client(), testutil.NewQueryCache(t))
	alice := be.AddUser("Alice", "alice@test.com", models.RoleMember)
	bob := be.AddUser("Bob", "bob@test.com", models.RoleMember)
	club := be.AddClub(models.Club{Name: "Chess"})
	be.AddMembership(club.ID, alice.Email)

	a, err := store.Check(alice.Context(), club.ID)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	b, err := store.Check(bob.Context(), club.ID)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !a.IsMember || b.IsMember {
		t.Errorf("alice=%v bob=%v, want true/false", a.IsMember, b.IsMember)
	}
	if n := be.Calls(http.MethodGet, "/memberships/check/"+club.ID); n != 2 {
		t.Errorf("check calls: got %d, want 2", n)
	}
}

func TestStore_ForClub(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := membershipstore.New(be.Client(), testutil.NewQueryCache(t))
	mgr := be.AddUser("Manager", "mgr@test.com", models.RoleClubManager)
	club := be.AddClub(models.Club{Name: "Chess", ManagerEmail: mgr.Email})
	other := be.AddClub(models.Club{Name: "Go"})
	be.AddMembership(club.ID, "a@test.com")
	be.AddMembership(club.ID, "b@test.com")
	be.AddMembership(other.ID, "c@test.com")

	members, err := store.ForClub(mgr.Context(), club.ID)
	if err != nil {
		t.Fatalf("ForClub failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("got %d members, want 2", len(members))
	}
}
