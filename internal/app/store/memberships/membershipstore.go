// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"

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

// Mine returns the caller's memberships.
func (s *Store) Mine(ctx context.Context) ([]models.Membership, error) {
	return querycache.FetchPrivate(ctx, s.qc, store.KeyMyMemberships, func(ctx context.Context) ([]models.Membership, error) {
		var out []models.Membership
		err := s.api.Get(ctx, "/memberships/my", nil, &out)
		return out, err
	})
}

// ForClub returns a club's members (manager/admin).
func (s *Store) ForClub(ctx context.Context, clubID string) ([]models.Membership, error) {
	return querycache.FetchPrivate(ctx, s.qc, store.KeyClubMembers(clubID), func(ctx context.Context) ([]models.Membership, error) {
		var out []models.Membership
		err := s.api.Get(ctx, "/memberships/club/"+apiclient.PathEscape(clubID), nil, &out)
		return out, err
	})
}

// Check reports whether the caller belongs to the club.
func (s *Store) Check(ctx context.Context, clubID string) (*models.MembershipCheck, error) {
	key := append(store.KeyMembership(clubID), querycache.UserFrom(ctx))
	return querycache.FetchPrivate(ctx, s.qc, key, func(ctx context.Context) (*models.MembershipCheck, error) {
		var out models.MembershipCheck
		if err := s.api.Get(ctx, "/memberships/check/"+apiclient.PathEscape(clubID), nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Join makes the caller a member of the club. Paid clubs are joined only
// after the payment has been recorded.
func (s *Store) Join(ctx context.Context, clubID string) querycache.Outcome {
	return s.qc.Mutate(ctx, querycache.Mutation{
		Success: "You have successfully joined the club.",
		Failure: "Failed to join club",
		Invalidates: []querycache.Key{
			store.KeyMembership(clubID), store.KeyMyMemberships, store.KeyClub(clubID),
			store.KeyClubs, store.KeyClubMembers(clubID), store.KeyManagerStats, store.KeyAdminStats,
		},
	}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/memberships/join", map[string]string{"clubId": clubID}, nil)
	})
}
