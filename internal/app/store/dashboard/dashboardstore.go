// internal/app/store/dashboard/dashboardstore.go
package dashboardstore

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

// AdminStats returns the platform totals.
func (s *Store) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	return querycache.FetchPrivate(ctx, s.qc, store.KeyAdminStats, func(ctx context.Context) (*models.AdminStats, error) {
		var out models.AdminStats
		if err := s.api.Get(ctx, "/dashboard/admin/stats", nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// ManagerStats returns the totals across the caller's clubs.
func (s *Store) ManagerStats(ctx context.Context) (*models.ManagerStats, error) {
	return querycache.FetchPrivate(ctx, s.qc, store.KeyManagerStats, func(ctx context.Context) (*models.ManagerStats, error) {
		var out models.ManagerStats
		if err := s.api.Get(ctx, "/dashboard/manager/stats", nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
