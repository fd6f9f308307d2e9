package viewdata_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
)

func TestNewBaseVM_Anonymous(t *testing.T) {
	r := httptest.NewRequest("GET", "/clubs", nil)
	vm := viewdata.NewBaseVM(httptest.NewRecorder(), r, "Clubs", "/")

	if vm.IsLoggedIn || vm.CanManage || vm.IsAdmin {
		t.Errorf("anonymous view model has user flags: %+v", vm)
	}
	if vm.SiteName != viewdata.SiteName || vm.Title != "Clubs" {
		t.Errorf("unexpected page fields: %+v", vm)
	}
}

func TestNewBaseVM_ManagerDashboard(t *testing.T) {
	r := httptest.NewRequest("GET", "/dashboard/manager/clubs", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{
		UID: "u1", Name: "Mia", Email: "mia@test.com",
		Role: models.RoleClubManager, State: auth.StateAuthenticated,
	})
	r = r.WithContext(authz.WithView(r.Context(), authz.ViewManagerClubs))

	vm := viewdata.NewBaseVM(httptest.NewRecorder(), r, "Manage Clubs", "/dashboard")

	if !vm.IsLoggedIn || !vm.CanManage || vm.IsAdmin {
		t.Errorf("unexpected role flags: %+v", vm)
	}
	if vm.RoleLabel != "Club Manager" || vm.UserName != "Mia" {
		t.Errorf("unexpected user fields: %+v", vm)
	}
	var active string
	for _, m := range vm.Menu {
		if m.Active {
			active = m.Path
		}
	}
	if active != "/dashboard/manager/clubs" {
		t.Errorf("active menu item: got %q", active)
	}
}

func TestNewBaseVM_ResolvingHasNoRole(t *testing.T) {
	r := httptest.NewRequest("GET", "/dashboard", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{UID: "u1", Email: "x@test.com", State: auth.StateResolving})

	vm := viewdata.NewBaseVM(httptest.NewRecorder(), r, "Dashboard", "/")
	if !vm.Resolving || vm.Role != models.RoleNone || vm.CanManage {
		t.Errorf("resolving session should carry no role: %+v", vm)
	}
}

func TestNewBaseVM_Notices(t *testing.T) {
	viewdata.SetNoticeLoader(func(w http.ResponseWriter, r *http.Request) []auth.Notice {
		return []auth.Notice{{Kind: auth.NoticeSuccess, Text: "Saved"}}
	})
	defer viewdata.SetNoticeLoader(nil)

	vm := viewdata.NewBaseVM(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil), "Home", "/")
	if len(vm.Notices) != 1 || vm.Notices[0].Text != "Saved" {
		t.Errorf("notices: got %+v", vm.Notices)
	}
}
