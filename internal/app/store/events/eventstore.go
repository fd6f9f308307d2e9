// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"sort"

	"github.com/dalemusser/clubsphere/internal/app/store"
	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/dalemusser/clubsphere/internal/domain/models"
)

type Store struct {
	api *apiclient.Client
	qc  *querycache.Client
}

func New(api *apiclient.Client, qc *querycache.Client) *Store {
	return &Store{api: api, qc: qc}
}

// List returns every event, soonest first.
func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	return querycache.FetchShared(ctx, s.qc, store.KeyEvents, func(ctx context.Context) ([]models.Event, error) {
		var out []models.Event
		if err := s.api.Get(apiclient.WithoutToken(ctx), "/events", nil, &out); err != nil {
			return nil, err
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate.Time) })
		return out, nil
	})
}

// ForClubs returns the events belonging to any of clubIDs.
func (s *Store) ForClubs(ctx context.Context, clubIDs ...string) ([]models.Event, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	want := make(map[string]struct{}, len(clubIDs))
	for _, id := range clubIDs {
		want[id] = struct{}{}
	}
	var out []models.Event
	for _, e := range all {
		if _, ok := want[e.ClubID.String()]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Get returns one event.
func (s *Store) Get(ctx context.Context, id string) (*models.Event, error) {
	return querycache.FetchShared(ctx, s.qc, store.KeyEvent(id), func(ctx context.Context) (*models.Event, error) {
		return s.Fresh(ctx, id)
	})
}

// Fresh reads an event straight from the backend, bypassing the cache.
func (s *Store) Fresh(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	if err := s.api.Get(ctx, "/events/"+apiclient.PathEscape(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create adds an event to a club.
func (s *Store) Create(ctx context.Context, in models.EventInput) querycache.Outcome {
	return s.qc.Mutate(ctx, querycache.Mutation{
		Success:     "Event created",
		Failure:     "Failed to create event",
		Invalidates: []querycache.Key{store.KeyEvents, store.KeyManagerStats, store.KeyAdminStats},
	}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/events", in, nil)
	})
}

// Update edits an event.
func (s *Store) Update(ctx context.Context, id string, in models.EventInput) querycache.Outcome {
	return s.qc.Mutate(ctx, querycache.Mutation{
		Success:     "Event updated",
		Failure:     "Failed to update event",
		Invalidates: []querycache.Key{store.KeyEvents, store.KeyEvent(id), store.KeyManagerStats},
	}, func(ctx context.Context) error {
		return s.api.Put(ctx, "/events/"+apiclient.PathEscape(id), in, nil)
	})
}

// Delete removes an event.
func (s *Store) Delete(ctx context.Context, id string) querycache.Outcome {
	return s.qc.Mutate(ctx, querycache.Mutation{
		Success: "Event deleted",
		Failure: "Failed to delete event",
		Invalidates: []querycache.Key{
			store.KeyEvents, store.KeyEvent(id), store.KeyManagerStats, store.KeyAdminStats,
			store.KeyEventRegistrations(id), store.KeyMyRegs,
		},
	}, func(ctx context.Context) error {
		return s.api.Delete(ctx, "/events/"+apiclient.PathEscape(id), nil)
	})
}
