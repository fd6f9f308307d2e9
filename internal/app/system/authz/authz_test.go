package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/domain/models"
)

func reqAs(role models.Role, email string) *http.Request {
	req := httptest.NewRequest("GET", "/test", nil)
	state := auth.StateAuthenticated
	if role == models.RoleNone {
		state = auth.StateResolving
	}
	return auth.WithTestUser(req, &auth.SessionUser{UID: "u1", Email: email, Role: role, State: state})
}

func TestIsAdmin(t *testing.T) {
	if !authz.IsAdmin(reqAs(models.RoleAdmin, "a@test.com")) {
		t.Error("expected admin")
	}
	if authz.IsAdmin(reqAs(models.RoleClubManager, "m@test.com")) {
		t.Error("manager is not admin")
	}
	if authz.IsAdmin(httptest.NewRequest("GET", "/test", nil)) {
		t.Error("anonymous is not admin")
	}
}

func TestCanManage(t *testing.T) {
	tests := []struct {
		role models.Role
		want bool
	}{
		{models.RoleAdmin, true},
		{models.RoleClubManager, true},
		{models.RoleMember, false},
		{models.RoleNone, false},
	}
	for _, tt := range tests {
		if got := authz.CanManage(reqAs(tt.role, "x@test.com")); got != tt.want {
			t.Errorf("CanManage(%q): got %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestResolvingHasNoRole(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{UID: "u1", Role: models.RoleAdmin, State: auth.StateResolving})
	if authz.IsAdmin(req) {
		t.Error("resolving session must not act as admin")
	}
	if _, ok := authz.Role(req); ok {
		t.Error("resolving session has no role")
	}
}

func TestCanManageClub(t *testing.T) {
	club := &models.Club{ManagerEmail: "Owner@test.com"}

	if !authz.CanManageClub(reqAs(models.RoleClubManager, "owner@test.com"), club) {
		t.Error("manager should manage own club")
	}
	if authz.CanManageClub(reqAs(models.RoleClubManager, "other@test.com"), club) {
		t.Error("manager should not manage another's club")
	}
	if !authz.CanManageClub(reqAs(models.RoleAdmin, "admin@test.com"), club) {
		t.Error("admin manages every club")
	}
	if authz.CanManageClub(reqAs(models.RoleMember, "owner@test.com"), club) {
		t.Error("member cannot manage even if listed as manager")
	}
}

func TestCanModifyUser(t *testing.T) {
	req := reqAs(models.RoleAdmin, "Admin@test.com")
	if authz.CanModifyUser(req, models.User{Email: "admin@test.com"}) {
		t.Error("admin must not modify their own account")
	}
	if !authz.CanModifyUser(req, models.User{Email: "someone@test.com"}) {
		t.Error("admin should modify other accounts")
	}
	if authz.CanModifyUser(reqAs(models.RoleClubManager, "m@test.com"), models.User{Email: "someone@test.com"}) {
		t.Error("only admins modify users")
	}
}

func TestLandingPath(t *testing.T) {
	tests := map[models.Role]string{
		models.RoleAdmin:       "/dashboard/admin/clubs",
		models.RoleClubManager: "/dashboard/manager",
		models.RoleMember:      "/dashboard",
	}
	for role, want := range tests {
		if got := authz.LandingPath(role); got != want {
			t.Errorf("LandingPath(%q): got %q, want %q", role, got, want)
		}
	}
}

func TestMenu(t *testing.T) {
	member := authz.Menu(models.RoleMember, authz.ViewMyClubs)
	if len(member) != 4 {
		t.Fatalf("member menu: got %d items, want 4", len(member))
	}
	if !member[1].Active || member[1].Path != "/dashboard/my-clubs" {
		t.Errorf("expected My Clubs active, got %+v", member[1])
	}

	manager := authz.Menu(models.RoleClubManager, authz.ViewNone)
	if len(manager) != 6 {
		t.Errorf("manager menu: got %d items, want 6", len(manager))
	}

	admin := authz.Menu(models.RoleAdmin, authz.ViewNone)
	if len(admin) != 10 {
		t.Errorf("admin menu: got %d items, want 10", len(admin))
	}
}

func TestBindView(t *testing.T) {
	var seen authz.View
	h := authz.BindView(authz.ViewAdminUsers)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = authz.CurrentView(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/anything/users/or/not", nil))
	if seen != authz.ViewAdminUsers {
		t.Errorf("view: got %v, want ViewAdminUsers", seen)
	}
	if !authz.ViewAdminUsers.Allows(models.RoleAdmin) || authz.ViewAdminUsers.Allows(models.RoleClubManager) {
		t.Error("admin users view is admin only")
	}
}
