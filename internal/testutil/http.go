package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/dalemusser/clubsphere/internal/domain/models"
)

// TestUser represents user data for testing HTTP handlers. UID is the
// identity-provider id; ID is the backend document id (set by AddUser).
type TestUser struct {
	UID   string
	ID    string
	Name  string
	Email string
	Role  models.Role
}

// AdminUser returns a TestUser with admin role.
func AdminUser() TestUser {
	return TestUser{UID: "uid-admin", Name: "Test Admin", Email: "admin@test.com", Role: models.RoleAdmin}
}

// ManagerUser returns a TestUser with clubManager role.
func ManagerUser() TestUser {
	return TestUser{UID: "uid-manager", Name: "Test Manager", Email: "manager@test.com", Role: models.RoleClubManager}
}

// MemberUser returns a TestUser with member role.
func MemberUser() TestUser {
	return TestUser{UID: "uid-member", Name: "Test Member", Email: "member@test.com", Role: models.RoleMember}
}

// SessionUser converts u into the session form handlers see. A user with
// no role is resolving.
func (u TestUser) SessionUser() *auth.SessionUser {
	state := auth.StateAuthenticated
	if u.Role == models.RoleNone {
		state = auth.StateResolving
	}
	return &auth.SessionUser{UID: u.UID, Name: u.Name, Email: u.Email, Role: u.Role, State: state}
}

// Context returns a context carrying u's bearer token and cache scope,
// for calling stores directly.
func (u TestUser) Context() context.Context {
	ctx := apiclient.WithToken(context.Background(), "test-token-"+u.UID)
	return querycache.WithUser(ctx, u.Email)
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, user.SessionUser())
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}

// NewFormRequest creates a urlencoded POST with a user in context.
func NewFormRequest(target string, form url.Values, user TestUser) *http.Request {
	var body io.Reader = strings.NewReader(form.Encode())
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return WithUser(req, user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	location := r.Header().Get("Location")
	if location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// AssertNotContains checks the response body does not contain s.
func (r *ResponseRecorder) AssertNotContains(t interface{ Errorf(string, ...any) }, s string) {
	if strings.Contains(r.Body.String(), s) {
		t.Errorf("response body unexpectedly contains %q", s)
	}
}
