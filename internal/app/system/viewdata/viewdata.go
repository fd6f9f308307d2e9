// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is shown in the header and page titles.
const SiteName = "ClubSphere"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(w, r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Resolving  bool
	Role       models.Role
	RoleLabel  string
	UserName   string
	UserEmail  string
	PhotoURL   string
	CanManage  bool
	IsAdmin    bool

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// Dashboard context, set when the route is bound to a view
	View authz.View
	Menu []authz.MenuItem

	// CSRF protection
	CSRFToken string

	// Flash notices queued by earlier requests
	Notices []auth.Notice
}

// NoticeLoader pops queued notices for the request. Set by bootstrap.
type NoticeLoader func(w http.ResponseWriter, r *http.Request) []auth.Notice

var noticeLoader NoticeLoader

// SetNoticeLoader sets the function used to pop flash notices.
// Call this once at startup from bootstrap after the session manager exists.
func SetNoticeLoader(loader NoticeLoader) {
	noticeLoader = loader
}

// NewBaseVM creates a fully populated BaseVM for a page. Call it before
// writing the response: popping notices updates the session cookie.
func NewBaseVM(w http.ResponseWriter, r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
		View:        authz.CurrentView(r),
	}

	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Resolving = u.Resolving()
		vm.UserName = u.DisplayName()
		vm.UserEmail = u.Email
		vm.PhotoURL = u.PhotoURL
		if role, ok := authz.Role(r); ok {
			vm.Role = role
		}
		vm.RoleLabel = vm.Role.Label()
		vm.CanManage = authz.CanManage(r)
		vm.IsAdmin = authz.IsAdmin(r)
		if vm.View != authz.ViewNone {
			vm.Menu = authz.Menu(vm.Role, vm.View)
		}
	}

	if noticeLoader != nil && w != nil {
		vm.Notices = noticeLoader(w, r)
	}
	return vm
}
