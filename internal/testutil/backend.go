package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// FakeBackend is an in-memory ClubSphere API served over httptest. Bearer
// tokens of the form "test-token-<uid>" identify users added with AddUser,
// which is the token WithUser puts on a request.
type FakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu            sync.Mutex
	users         map[string]*models.User // by _id
	uidToID       map[string]string
	clubs         map[string]*models.Club
	events        map[string]*models.Event
	memberships   []models.Membership
	registrations []models.Registration
	payments      []models.Payment
	calls         []string
	failures      map[string]failure
	seq           int
}

type failure struct {
	status  int
	message string
}

// NewFakeBackend starts a fake API that is closed with the test.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	b := &FakeBackend{
		t:        t,
		users:    map[string]*models.User{},
		uidToID:  map[string]string{},
		clubs:    map[string]*models.Club{},
		events:   map[string]*models.Event{},
		failures: map[string]failure{},
	}
	b.srv = httptest.NewServer(b.routes())
	t.Cleanup(b.srv.Close)
	return b
}

// URL is the backend origin (without "/api").
func (b *FakeBackend) URL() string { return b.srv.URL }

// Client returns an API client pointed at the fake.
func (b *FakeBackend) Client() *apiclient.Client {
	c, err := apiclient.New(apiclient.Config{BaseURL: b.srv.URL})
	if err != nil {
		b.t.Fatalf("apiclient.New: %v", err)
	}
	return c
}

// FailOn makes every call to method+path fail with status and message.
// path is relative to /api, e.g. "/payments/confirm".
func (b *FakeBackend) FailOn(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

// ClearFailures removes every FailOn rule.
func (b *FakeBackend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = map[string]failure{}
}

// Calls returns how many times method+path was requested.
func (b *FakeBackend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == method+" "+path {
			n++
		}
	}
	return n
}

// CallLog returns every request seen so far as "METHOD /path".
func (b *FakeBackend) CallLog() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Fixtures                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// AddUser registers a backend user and returns the matching TestUser.
func (b *FakeBackend) AddUser(name, email string, role models.Role) TestUser {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID("user")
	uid := "uid-" + id
	b.users[id] = &models.User{ID: id, Name: name, Email: email, Role: role, CreatedAt: models.FlexTime{Time: time.Now()}}
	b.uidToID[uid] = id
	return TestUser{UID: uid, ID: id, Name: name, Email: email, Role: role}
}

// AddClub stores c, assigning an id and status when missing.
func (b *FakeBackend) AddClub(c models.Club) models.Club {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.ID == "" {
		c.ID = b.nextID("club")
	}
	if c.Status == "" {
		c.Status = models.ClubApproved
	}
	b.clubs[c.ID] = &c
	return c
}

// AddEvent stores e, assigning an id when missing.
func (b *FakeBackend) AddEvent(e models.Event) models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.ID == "" {
		e.ID = b.nextID("event")
	}
	b.events[e.ID] = &e
	return e
}

// AddMembership makes email a member of clubID.
func (b *FakeBackend) AddMembership(clubID, email string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.memberships = append(b.memberships, models.Membership{
		ID: b.nextID("mem"), ClubID: models.Ref(clubID), UserEmail: email, Status: "active",
	})
}

// Club returns the stored club.
func (b *FakeBackend) Club(id string) (models.Club, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.clubs[id]
	if !ok {
		return models.Club{}, false
	}
	return *c, true
}

// User returns the stored user.
func (b *FakeBackend) User(id string) (models.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[id]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

// ClubNamed returns the stored club called name.
func (b *FakeBackend) ClubNamed(name string) (models.Club, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.clubs {
		if c.Name == name {
			return *c, true
		}
	}
	return models.Club{}, false
}

// EventTitled returns the stored event called title.
func (b *FakeBackend) EventTitled(title string) (models.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.events {
		if e.Title == title {
			return *e, true
		}
	}
	return models.Event{}, false
}

// Memberships returns every membership.
func (b *FakeBackend) Memberships() []models.Membership {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Membership(nil), b.memberships...)
}

// Registrations returns every registration.
func (b *FakeBackend) Registrations() []models.Registration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Registration(nil), b.registrations...)
}

// Payments returns every recorded payment.
func (b *FakeBackend) Payments() []models.Payment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Payment(nil), b.payments...)
}

func (b *FakeBackend) nextID(kind string) string {
	b.seq++
	return fmt.Sprintf("%s%06d", kind, b.seq)
}

/*─────────────────────────────────────────────────────────────────────────────*
| HTTP                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (b *FakeBackend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/sync", b.authed(b.sync))
		r.Get("/users", b.authed(b.listUsers))
		r.Put("/users/profile", b.authed(b.updateProfile))
		r.Put("/users/{id}/role", b.authed(b.setRole))
		r.Delete("/users/{id}", b.authed(b.deleteUser))

		r.Get("/clubs", b.listClubs)
		r.Get("/clubs/admin/all", b.authed(b.allClubs))
		r.Get("/clubs/{id}", b.getClub)
		r.Post("/clubs", b.authed(b.createClub))
		r.Put("/clubs/{id}", b.authed(b.updateClub))
		r.Put("/clubs/{id}/status", b.authed(b.setClubStatus))
		r.Delete("/clubs/{id}", b.authed(b.deleteClub))

		r.Get("/memberships/my", b.authed(b.myMemberships))
		r.Get("/memberships/club/{id}", b.authed(b.clubMembers))
		r.Get("/memberships/check/{id}", b.authed(b.checkMembership))
		r.Post("/memberships/join", b.authed(b.join))

		r.Get("/events", b.listEvents)
		r.Get("/events/{id}", b.getEvent)
		r.Post("/events", b.authed(b.createEvent))
		r.Put("/events/{id}", b.authed(b.updateEvent))
		r.Delete("/events/{id}", b.authed(b.deleteEvent))

		r.Get("/event-registrations/my", b.authed(b.myRegistrations))
		r.Get("/event-registrations/event/{id}", b.authed(b.eventRegistrations))
		r.Get("/event-registrations/check/{id}", b.authed(b.checkRegistration))
		r.Post("/event-registrations/register", b.authed(b.register))

		r.Post("/payments/create-intent", b.authed(b.createIntent))
		r.Post("/payments/confirm", b.authed(b.confirmPayment))
		r.Get("/payments/my-payments", b.authed(b.myPayments))
		r.Get("/payments/all", b.authed(b.allPayments))

		r.Get("/dashboard/admin/stats", b.authed(b.adminStats))
		r.Get("/dashboard/manager/stats", b.authed(b.managerStats))
	})
	return r
}

func (b *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api")
		key := r.Method + " " + path

		b.mu.Lock()
		b.calls = append(b.calls, key)
		f, fail := b.failures[key]
		b.mu.Unlock()

		if fail {
			writeJSON(w, f.status, map[string]string{"message": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type authedFunc func(w http.ResponseWriter, r *http.Request, me *models.User)

// authed resolves the bearer token to a user or answers 401.
func (b *FakeBackend) authed(fn authedFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimPrefix(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "), "test-token-")
		b.mu.Lock()
		id, ok := b.uidToID[uid]
		var me *models.User
		if ok {
			u := *b.users[id]
			me = &u
		}
		b.mu.Unlock()
		if me == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized access"})
			return
		}
		fn(w, r, me)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) {
	_ = json.NewDecoder(r.Body).Decode(v)
}

func (b *FakeBackend) sync(w http.ResponseWriter, r *http.Request, me *models.User) {
	var in models.SyncRequest
	decode(r, &in)
	b.mu.Lock()
	u := b.users[me.ID]
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.PhotoURL != "" {
		u.PhotoURL = in.PhotoURL
	}
	out := *u
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) listUsers(w http.ResponseWriter, r *http.Request, me *models.User) {
	b.mu.Lock()
	out := make([]models.User, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, *u)
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) updateProfile(w http.ResponseWriter, r *http.Request, me *models.User) {
	var in models.ProfileUpdate
	decode(r, &in)
	b.mu.Lock()
	b.users[me.ID].Name = in.Name
	if in.PhotoURL != "" {
		b.users[me.ID].PhotoURL = in.PhotoURL
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

func (b *FakeBackend) setRole(w http.ResponseWriter, r *http.Request, me *models.User) {
	var in struct {
		Role string `json:"role"`
	}
	decode(r, &in)
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
		return
	}
	u.Role = models.ParseRole(in.Role)
	writeJSON(w, http.StatusOK, u)
}

func (b *FakeBackend) deleteUser(w http.ResponseWriter, r *http.Request, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.users, chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (b *FakeBackend) listClubs(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := []models.Club{}
	for _, c := range b.clubs {
		if c.Status == models.ClubApproved {
			out = append(out, *c)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) allClubs(w http.ResponseWriter, r *http.Request, me *models.User) {
	b.mu.Lock()
	out := []models.Club{}
	for _, c := range b.clubs {
		out = append(out, *c)
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) getClub(w http.ResponseWriter, r *http.Request) {
	c, ok := b.Club(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Club not found"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (b *FakeBackend) createClub(w http.ResponseWriter, r *http.Request, me *models.User) {
	var in models.ClubInput
	decode(r, &in)
	c := b.AddClub(models.Club{
		Name: in.Name, Category: in.Category, Description: in.Description, Location: in.Location,
		BannerImage: in.BannerImage, MembershipFee: in.MembershipFee,
		ManagerEmail: me.Email, Status: models.ClubPending,
	})
	writeJSON(w, http.StatusCreated, c)
}

func (b *FakeBackend) updateClub(w http.ResponseWriter, r *http.Request, me *models.User) {
	var in models.ClubInput
	decode(r, &in)
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.clubs[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Club not found"})
		return
	}
	c.Name, c.Category, c.Description, c.Location = in.Name, in.Category, in.Description, in.Location
	c.MembershipFee = in.MembershipFee
	if in.BannerImage != "" {
		c.BannerImage = in.BannerImage
	}
	writeJSON(w, http.StatusOK, c)
}

func (b *FakeBackend) setClubStatus(w http.ResponseWriter, r *http.Request, me *models.User) {
	var in struct {
		Status models.ClubStatus `json:"status"`
	}
	decode(r, &in)
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.clubs[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Club not found"})
		return
	}
	c.Status = in.Status
	writeJSON(w, http.StatusOK, c)
}

func (b *FakeBackend) deleteClub(w http.ResponseWriter, r *http.Request, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clubs, chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (b *FakeBackend) myMemberships(w http.ResponseWriter, r *http.Request, me *models.User) {
	b.mu.Lock()
	out := []models.Membership{}
	for _, m := range b.memberships {
		if strings.EqualFold(m.UserEmail, me.Email) {
			if c, ok := b.clubs[m.ClubID.String()]; ok {
				cc := *c
				m.Club = &cc
			}
			out = append(out, m)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) clubMembers(w http.ResponseWriter, r *http.Request, me *models.User) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	out := []models.Membership{}
	for _, m := range b.memberships {
		if m.ClubID.String() == id {
			out = append(out, m)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) checkMembership(w http.ResponseWriter, r *http.Request, me *models.User) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	out := models.MembershipCheck{}
	for _, m := range b.memberships {
		if m.ClubID.String() == id && strings.EqualFold(m.UserEmail, me.Email) {
			out = models.MembershipCheck{IsMember: true, Status: m.Status}
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) join(w http.ResponseWriter, r *http.Request, me *models.User) {
	var in struct {
		ClubID string `json:"clubId"`
	}
	decode(r, &in)
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.clubs[in.ClubID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Club not found"})
		return
	}
	for _, m := range b.memberships {
		if m.ClubID.String() == in.ClubID && strings.EqualFold(m.UserEmail, me.Email) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Already a member of this club"})
			return
		}
	}
	m := models.Membership{ID: b.nextID("mem"), ClubID: models.Ref(in.ClubID), UserEmail: me.Email, Status: "active"}
	b.memberships = append(b.memberships, m)
	c.MembersCount++
	writeJSON(w, http.StatusCreated, m)
}

func (b *FakeBackend) listEvents(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := []models.Event{}
	for _, e := range b.events {
		out = append(out, *e)
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) getEvent(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	e, ok := b.events[chi.URLParam(r, "id")]
	var out models.Event
	if ok {
		out = *e
	}
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Event not found"})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func eventFromInput(in models.EventInput) models.Event {
	date, _ := models.ParseFlexTime(in.EventDate)
	return models.Event{
		Title: in.Title, ClubID: models.Ref(in.ClubID), Description: in.Description,
		EventDate: date, Location: in.Location, IsPaid: in.IsPaid, EventFee: in.EventFee,
		MaxAttendees: in.MaxAttendees, BannerImage: in.BannerImage,
	}
}

func (b *FakeBackend) createEvent(w http.ResponseWriter, r *http.Request, me *models.User) {
	var in models.EventInput
	decode(r, &in)
	writeJSON(w, http.StatusCreated, b.AddEvent(eventFromInput(in)))
}

func (b *FakeBackend) updateEvent(w http.ResponseWriter, r *http.Request, me *models.User) {
	var in models.EventInput
	decode(r, &in)
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.events[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Event not found"})
		return
	}
	e := eventFromInput(in)
	e.ID = id
	b.events[id] = &e
	writeJSON(w, http.StatusOK, e)
}

func (b *FakeBackend) deleteEvent(w http.ResponseWriter, r *http.Request, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.events, chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (b *FakeBackend) myRegistrations(w http.ResponseWriter, r *http.Request, me *models.User) {
	b.mu.Lock()
	out := []models.Registration{}
	for _, reg := range b.registrations {
		if strings.EqualFold(reg.UserEmail, me.Email) {
			if e, ok := b.events[reg.EventID.String()]; ok {
				ee := *e
				reg.Event = &ee
			}
			out = append(out, reg)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) eventRegistrations(w http.ResponseWriter, r *http.Request, me *models.User) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	out := []models.Registration{}
	for _, reg := range b.registrations {
		if reg.EventID.String() == id {
			out = append(out, reg)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) checkRegistration(w http.ResponseWriter, r *http.Request, me *models.User) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	out := models.RegistrationCheck{}
	for _, reg := range b.registrations {
		if reg.EventID.String() == id && strings.EqualFold(reg.UserEmail, me.Email) {
			out = models.RegistrationCheck{IsRegistered: true, Status: reg.Status}
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) register(w http.ResponseWriter, r *http.Request, me *models.User) {
	var in struct {
		EventID string `json:"eventId"`
	}
	decode(r, &in)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.events[in.EventID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Event not found"})
		return
	}
	for _, reg := range b.registrations {
		if reg.EventID.String() == in.EventID && strings.EqualFold(reg.UserEmail, me.Email) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Already registered for this event"})
			return
		}
	}
	reg := models.Registration{ID: b.nextID("reg"), EventID: models.Ref(in.EventID), UserEmail: me.Email, Status: "registered"}
	b.registrations = append(b.registrations, reg)
	writeJSON(w, http.StatusCreated, reg)
}

func (b *FakeBackend) createIntent(w http.ResponseWriter, r *http.Request, me *models.User) {
	var in models.PaymentInfo
	decode(r, &in)
	if in.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid amount"})
		return
	}
	b.mu.Lock()
	id := b.nextID("pi_")
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": id + "_secret_test"})
}

func (b *FakeBackend) confirmPayment(w http.ResponseWriter, r *http.Request, me *models.User) {
	var in models.PaymentRecord
	decode(r, &in)
	b.mu.Lock()
	p := models.Payment{
		ID: b.nextID("pay"), UserEmail: me.Email, Amount: in.Amount, Type: in.Type,
		ClubID: models.Ref(in.ClubID), EventID: models.Ref(in.EventID),
		PaymentIntentID: in.PaymentIntentID, Status: "succeeded",
		CreatedAt: models.FlexTime{Time: time.Now()},
	}
	b.payments = append(b.payments, p)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (b *FakeBackend) myPayments(w http.ResponseWriter, r *http.Request, me *models.User) {
	b.mu.Lock()
	out := []models.Payment{}
	for _, p := range b.payments {
		if strings.EqualFold(p.UserEmail, me.Email) {
			out = append(out, p)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) allPayments(w http.ResponseWriter, r *http.Request, me *models.User) {
	writeJSON(w, http.StatusOK, b.Payments())
}

func (b *FakeBackend) adminStats(w http.ResponseWriter, r *http.Request, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var rev float64
	for _, p := range b.payments {
		rev += p.Amount
	}
	pending := 0
	for _, c := range b.clubs {
		if c.Status == models.ClubPending {
			pending++
		}
	}
	writeJSON(w, http.StatusOK, models.AdminStats{
		TotalUsers: len(b.users), TotalClubs: len(b.clubs), TotalEvents: len(b.events),
		TotalMembers: len(b.memberships), PendingClubs: pending, TotalRevenue: rev,
	})
}

func (b *FakeBackend) managerStats(w http.ResponseWriter, r *http.Request, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	mine := map[string]bool{}
	for _, c := range b.clubs {
		if strings.EqualFold(c.ManagerEmail, me.Email) {
			mine[c.ID] = true
		}
	}
	out := models.ManagerStats{TotalClubs: len(mine)}
	for _, m := range b.memberships {
		if mine[m.ClubID.String()] {
			out.TotalMembers++
		}
	}
	for _, e := range b.events {
		if mine[e.ClubID.String()] {
			out.TotalEvents++
		}
	}
	for _, p := range b.payments {
		if mine[p.ClubID.String()] {
			out.TotalRevenue += p.Amount
		}
	}
	writeJSON(w, http.StatusOK, out)
}
