package testutil

import (
	"context"
	"net/http"
	"sync"
	"testing"

	clubstore "github.com/dalemusser/clubsphere/internal/app/store/clubs"
	dashboardstore "github.com/dalemusser/clubsphere/internal/app/store/dashboard"
	eventstore "github.com/dalemusser/clubsphere/internal/app/store/events"
	membershipstore "github.com/dalemusser/clubsphere/internal/app/store/memberships"
	paymentstore "github.com/dalemusser/clubsphere/internal/app/store/payments"
	registrationstore "github.com/dalemusser/clubsphere/internal/app/store/registrations"
	userstore "github.com/dalemusser/clubsphere/internal/app/store/users"
	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/enrollment"
	"github.com/dalemusser/clubsphere/internal/app/system/identity"
	"github.com/dalemusser/clubsphere/internal/app/system/payments"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"go.uber.org/zap"
)

// Stores bundles every API-backed store over one fake backend and one
// query cache, the way bootstrap wires them.
type Stores struct {
	API   *apiclient.Client
	Cache *querycache.Client

	Clubs         *clubstore.Store
	Events        *eventstore.Store
	Users         *userstore.Store
	Memberships   *membershipstore.Store
	Registrations *registrationstore.Store
	Payments      *paymentstore.Store
	Dashboard     *dashboardstore.Store
}

// NewStores builds the stores against be.
func NewStores(t *testing.T, be *FakeBackend) *Stores {
	t.Helper()
	api := be.Client()
	qc := NewQueryCache(t)
	return &Stores{
		API:           api,
		Cache:         qc,
		Clubs:         clubstore.New(api, qc),
		Events:        eventstore.New(api, qc),
		Users:         userstore.New(api, qc),
		Memberships:   membershipstore.New(api, qc),
		Registrations: registrationstore.New(api, qc),
		Payments:      paymentstore.New(api, qc),
		Dashboard:     dashboardstore.New(api, qc),
	}
}

// StubProcessor stands in for Stripe. Confirm succeeds unless Err or
// Status is set.
type StubProcessor struct {
	mu     sync.Mutex
	Err    error
	Status string
	calls  int
}

func (p *StubProcessor) PublishableKey() string { return "pk_test_clubsphere" }

func (p *StubProcessor) Confirm(ctx context.Context, secret, pm string) (*payments.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.Err != nil {
		return nil, p.Err
	}
	status := p.Status
	if status == "" {
		status = "succeeded"
	}
	return &payments.Intent{ID: payments.IntentID(secret), Status: status}, nil
}

// Calls is how many confirmations were attempted.
func (p *StubProcessor) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// NewFlow builds a payment flow over the stores' payment backend.
func (s *Stores) NewFlow(t *testing.T, proc payments.Processor) *payments.Flow {
	t.Helper()
	return payments.NewFlow(payments.FlowConfig{
		Backend:   s.Payments,
		Processor: proc,
		Cache:     s.Cache.Cache(),
		Logger:    zap.NewNop(),
	})
}

// NewEnrollment builds the enrollment service over the stores and flow.
func (s *Stores) NewEnrollment(flow *payments.Flow) *enrollment.Service {
	return enrollment.New(enrollment.Config{
		Clubs:         s.Clubs,
		Events:        s.Events,
		Memberships:   s.Memberships,
		Registrations: s.Registrations,
		Checkouts:     flow,
		Logger:        zap.NewNop(),
	})
}

// NewSessionManager returns a session manager with fixed test keys.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(auth.Config{
		SessionKey: "test-session-key-must-be-32-chars-long",
		BlockKey:   "0123456789abcdef0123456789abcdef",
		Name:       "test-session",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// Serve runs h. Template rendering may panic in tests where no template
// engine has been booted; that panic is swallowed so the handler's
// side effects can still be checked.
func Serve(h http.HandlerFunc, w http.ResponseWriter, r *http.Request) {
	defer func() {
		_ = recover()
	}()
	h(w, r)
}

// Notices replays the cookies rec set and returns the notices queued on
// the session.
func Notices(sm *auth.SessionManager, rec *ResponseRecorder) []auth.Notice {
	return sm.PopNotices(NewRecorder(), Replay(rec))
}

// Replay returns a GET request carrying the cookies rec set. When a cookie
// was written more than once the last value wins, as in a browser.
func Replay(rec *ResponseRecorder) *http.Request {
	req := NewRequest(http.MethodGet, "/")
	latest := map[string]*http.Cookie{}
	var order []string
	for _, c := range rec.Result().Cookies() {
		if _, seen := latest[c.Name]; !seen {
			order = append(order, c.Name)
		}
		latest[c.Name] = c
	}
	for _, name := range order {
		if c := latest[name]; c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return req
}

// SessionUser replays rec's cookies through the session middleware and
// returns the signed-in user, if any.
func SessionUser(sm *auth.SessionManager, rec *ResponseRecorder) (*auth.SessionUser, bool) {
	var (
		u  *auth.SessionUser
		ok bool
	)
	sm.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok = auth.CurrentUser(r)
	})).ServeHTTP(NewRecorder(), Replay(rec))
	return u, ok
}

// HasNotice reports whether notices holds text with the given kind.
func HasNotice(notices []auth.Notice, kind, text string) bool {
	for _, n := range notices {
		if n.Kind == kind && n.Text == text {
			return true
		}
	}
	return false
}

// SignIn starts a session for u the way the login handler does and
// returns the recorder holding its cookie.
func SignIn(t *testing.T, sm *auth.SessionManager, u TestUser) *ResponseRecorder {
	t.Helper()
	rec := NewRecorder()
	res := &identity.Result{
		User:   identity.User{UID: u.UID, Email: u.Email, DisplayName: u.Name},
		Tokens: identity.Tokens{IDToken: "test-token-" + u.UID, RefreshToken: "refresh-" + u.UID},
	}
	if _, err := sm.Begin(rec, NewRequest(http.MethodPost, "/login"), res); err != nil {
		t.Fatalf("begin session: %v", err)
	}
	return rec
}

// WithSession adds the cookies session set to r.
func WithSession(r *http.Request, session *ResponseRecorder) *http.Request {
	for _, c := range Replay(session).Cookies() {
		r.AddCookie(c)
	}
	return r
}
