package models_test

import (
	"encoding/json"
	"testing"

	"github.com/dalemusser/clubsphere/internal/domain/models"
)

func TestRef_DecodesStringOrDocument(t *testing.T) {
	var evs []models.Event
	raw := `[{"_id":"e1","clubId":"c1"},{"_id":"e2","clubId":{"_id":"c2","clubName":"Chess"}},{"_id":"e3","clubId":null}]`
	if err := json.Unmarshal([]byte(raw), &evs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []models.Ref{"c1", "c2", ""}
	for i, ev := range evs {
		if ev.ClubID != want[i] {
			t.Errorf("event %d clubId: got %q, want %q", i, ev.ClubID, want[i])
		}
	}
}

func TestFlexTime_Layouts(t *testing.T) {
	cases := []string{
		"2025-03-01T18:30:00.000Z",
		"2025-03-01T18:30",
		"2025-03-01",
	}
	for _, s := range cases {
		ft, err := models.ParseFlexTime(s)
		if err != nil {
			t.Errorf("ParseFlexTime(%q): %v", s, err)
			continue
		}
		if ft.Year() != 2025 || ft.Month() != 3 || ft.Day() != 1 {
			t.Errorf("ParseFlexTime(%q) = %v", s, ft.Time)
		}
	}
	if _, err := models.ParseFlexTime("yesterday"); err == nil {
		t.Error("expected error for unrecognized layout")
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]models.Role{
		"admin":       models.RoleAdmin,
		"clubManager": models.RoleClubManager,
		" Member ":    models.RoleMember,
		"superadmin":  models.RoleNone,
		"":            models.RoleNone,
	}
	for in, want := range cases {
		if got := models.ParseRole(in); got != want {
			t.Errorf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEvent_RequiresPayment(t *testing.T) {
	cases := []struct {
		ev   models.Event
		want bool
	}{
		{models.Event{IsPaid: false, EventFee: 10}, false},
		{models.Event{IsPaid: true, EventFee: 0}, false},
		{models.Event{IsPaid: true, EventFee: -1}, false},
		{models.Event{IsPaid: true, EventFee: 5}, true},
	}
	for _, c := range cases {
		if got := c.ev.RequiresPayment(); got != c.want {
			t.Errorf("RequiresPayment(%+v) = %v, want %v", c.ev, got, c.want)
		}
	}
}

func TestClub_ManagedBy(t *testing.T) {
	c := models.Club{ManagerEmail: "Lead@Example.com"}
	if !c.ManagedBy("lead@example.com") {
		t.Error("expected case-insensitive match")
	}
	if c.ManagedBy("") {
		t.Error("empty email must never match")
	}
}

func TestMembership_PopulatedClub(t *testing.T) {
	var ms []models.Membership
	raw := `[{"_id":"m1","clubId":{"_id":"c1","clubName":"Chess"},"status":"active"},{"_id":"m2","clubId":"c2"}]`
	if err := json.Unmarshal([]byte(raw), &ms); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ms[0].ClubID != "c1" || ms[0].Club == nil || ms[0].Club.Name != "Chess" {
		t.Errorf("populated club not decoded: %+v", ms[0])
	}
	if ms[1].ClubID != "c2" || ms[1].Club != nil {
		t.Errorf("bare club id: %+v", ms[1])
	}
}

func TestRegistration_PopulatedEvent(t *testing.T) {
	var r models.Registration
	raw := `{"_id":"r1","eventId":{"_id":"e1","title":"Gala","eventDate":"2026-05-01"},"status":"registered"}`
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.EventID != "e1" || r.Event == nil || r.Event.Title != "Gala" {
		t.Errorf("populated event not decoded: %+v", r)
	}
}
