// internal/app/store/clubs/clubstore.go
package clubstore

import (
	"context"
	"sort"
	"strings"

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

// List returns the publicly listed clubs.
func (s *Store) List(ctx context.Context) ([]models.Club, error) {
	return querycache.FetchShared(ctx, s.qc, store.KeyClubs, func(ctx context.Context) ([]models.Club, error) {
		var out []models.Club
		err := s.api.Get(apiclient.WithoutToken(ctx), "/clubs", nil, &out)
		return out, err
	})
}

// Filter narrows clubs by a case-insensitive name search and a category
// ("" or "All" keeps every category).
func Filter(clubs []models.Club, search, category string) []models.Club {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Club, 0, len(clubs))
	for _, c := range clubs {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		if category != "" && category != "All" && c.Category != category {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Featured returns the n clubs with the most members.
func (s *Store) Featured(ctx context.Context, n int) ([]models.Club, error) {
	clubs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := append([]models.Club(nil), clubs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MembersCount > out[j].MembersCount })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Get returns one club.
func (s *Store) Get(ctx context.Context, id string) (*models.Club, error) {
	return querycache.FetchShared(ctx, s.qc, store.KeyClub(id), func(ctx context.Context) (*models.Club, error) {
		var c models.Club
		if err := s.api.Get(ctx, "/clubs/"+apiclient.PathEscape(id), nil, &c); err != nil {
			return nil, err
		}
		return &c, nil
	})
}

// Fresh reads a club straight from the backend, bypassing the cache. Used
// where the amount to charge is read.
func (s *Store) Fresh(ctx context.Context, id string) (*models.Club, error) {
	var c models.Club
	if err := s.api.Get(ctx, "/clubs/"+apiclient.PathEscape(id), nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// All returns every club regardless of status (admin and manager views).
func (s *Store) All(ctx context.Context) ([]models.Club, error) {
	return querycache.FetchPrivate(ctx, s.qc, store.KeyAllClubsAdmin, func(ctx context.Context) ([]models.Club, error) {
		var out []models.Club
		err := s.api.Get(ctx, "/clubs/admin/all", nil, &out)
		return out, err
	})
}

// ManagedBy returns the clubs whose manager is email.
func (s *Store) ManagedBy(ctx context.Context, email string) ([]models.Club, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Club
	for _, c := range all {
		if c.ManagedBy(email) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Create submits a new club for approval.
func (s *Store) Create(ctx context.Context, in models.ClubInput) querycache.Outcome {
	return s.qc.Mutate(ctx, querycache.Mutation{
		Success:     "Club created and sent for approval",
		Failure:     "Failed to create club",
		Invalidates: []querycache.Key{store.KeyAllClubsAdmin, store.KeyManagerStats, store.KeyAdminStats},
	}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/clubs", in, nil)
	})
}

// Update edits a club.
func (s *Store) Update(ctx context.Context, id string, in models.ClubInput) querycache.Outcome {
	return s.qc.Mutate(ctx, querycache.Mutation{
		Success:     "Club updated",
		Failure:     "Failed to update club",
		Invalidates: []querycache.Key{store.KeyAllClubsAdmin, store.KeyClub(id), store.KeyClubs, store.KeyManagerStats},
	}, func(ctx context.Context) error {
		return s.api.Put(ctx, "/clubs/"+apiclient.PathEscape(id), in, nil)
	})
}

// SetStatus approves or rejects a club.
func (s *Store) SetStatus(ctx context.Context, id string, status models.ClubStatus) querycache.Outcome {
	return s.qc.Mutate(ctx, querycache.Mutation{
		Success:     "Club " + string(status),
		Failure:     "Failed to update club status",
		Invalidates: []querycache.Key{store.KeyAllClubsAdmin, store.KeyAdminStats, store.KeyClubs, store.KeyClub(id)},
	}, func(ctx context.Context) error {
		return s.api.Put(ctx, "/clubs/"+apiclient.PathEscape(id)+"/status", map[string]string{"status": string(status)}, nil)
	})
}

// Delete removes a club.
func (s *Store) Delete(ctx context.Context, id string) querycache.Outcome {
	return s.qc.Mutate(ctx, querycache.Mutation{
		Success: "Club deleted",
		Failure: "Failed to delete club",
		Invalidates: []querycache.Key{
			store.KeyAllClubsAdmin, store.KeyAdminStats, store.KeyManagerStats,
			store.KeyClubs, store.KeyClub(id), store.KeyEvents,
		},
	}, func(ctx context.Context) error {
		return s.api.Delete(ctx, "/clubs/"+apiclient.PathEscape(id), nil)
	})
}
