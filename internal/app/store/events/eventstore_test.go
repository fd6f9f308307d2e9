package eventstore_test

import (
	"net/http"
	"testing"
	"time"

	eventstore "github.com/dalemusser/clubsphere/internal/app/store/events"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/clubsphere/internal/testutil"
)

func at(s string) models.FlexTime {
	t, _ := time.Parse("2006-01-02", s)
	return models.FlexTime{Time: t}
}

func TestStore_ListSortedByDate(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := eventstore.New(be.Client(), testutil.NewQueryCache(t))
	ctx := testutil.TestContext(t)

	be.AddEvent(models.Event{Title: "Later", EventDate: at("2026-12-01")})
	be.AddEvent(models.Event{Title: "Sooner", EventDate: at("2026-11-01")})

	events, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(events) != 2 || events[0].Title != "Sooner" {
		t.Errorf("unexpected order: %+v", events)
	}
}

func TestStore_ForClubs(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := eventstore.New(be.Client(), testutil.NewQueryCache(t))
	ctx := testutil.TestContext(t)

	be.AddEvent(models.Event{Title: "A", ClubID: "c1"})
	be.AddEvent(models.Event{Title: "B", ClubID: "c2"})
	be.AddEvent(models.Event{Title: "C", ClubID: "c3"})

	events, err := store.ForClubs(ctx, "c1", "c3")
	if err != nil {
		t.Fatalf("ForClubs failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}
}

func TestStore_CreateInvalidatesList(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := eventstore.New(be.Client(), testutil.NewQueryCache(t))
	mgr := be.AddUser("Manager", "mgr@test.com", models.RoleClubManager)
	ctx := mgr.Context()

	if _, err := store.List(ctx); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	out := store.Create(ctx, models.EventInput{Title: "Launch", ClubID: "c1", EventDate: "2026-11-20T18:30"})
	if !out.OK {
		t.Fatalf("Create failed: %s", out.Message)
	}
	events, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Launch" {
		t.Errorf("list not refreshed: %+v", events)
	}
	if events[0].EventDate.InputValue() != "2026-11-20T18:30" {
		t.Errorf("event date: got %q", events[0].EventDate.InputValue())
	}
}

func TestStore_FreshBypassesCache(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := eventstore.New(be.Client(), testutil.NewQueryCache(t))
	ctx := testutil.TestContext(t)
	ev := be.AddEvent(models.Event{Title: "Paid", IsPaid: true, EventFee: 15})

	for i := 0; i < 2; i++ {
		if _, err := store.Get(ctx, ev.ID); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if _, err := store.Fresh(ctx, ev.ID); err != nil {
			t.Fatalf("Fresh failed: %v", err)
		}
	}
	if n := be.Calls(http.MethodGet, "/events/"+ev.ID); n != 3 {
		t.Errorf("GET event calls: got %d, want 3 (1 cached + 2 fresh)", n)
	}
}
