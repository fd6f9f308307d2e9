// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dalemusser/clubsphere/internal/app/store"
	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/tidwall/gjson"
)

type Store struct {
	api *apiclient.Client
	qc  *querycache.Client
}

func New(api *apiclient.Client, qc *querycache.Client) *Store {
	return &Store{api: api, qc: qc}
}

// Sync pushes the provider identity to the backend and returns the role it
// holds there. The backend answers with the user document, either bare or
// under "user".
func (s *Store) Sync(ctx context.Context, req models.SyncRequest) (*models.SyncResult, error) {
	var raw json.RawMessage
	if err := s.api.Post(ctx, "/users/sync", req, &raw); err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(raw)
	if u := doc.Get("user"); u.IsObject() {
		doc = u
	}
	res := &models.SyncResult{
		ID:   doc.Get("_id").String(),
		Role: models.ParseRole(doc.Get("role").String()),
	}
	if !res.Role.Valid() {
		return nil, fmt.Errorf("sync: backend returned role %q", doc.Get("role").String())
	}
	return res, nil
}

// List returns every user (admin).
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	return querycache.FetchPrivate(ctx, s.qc, store.KeyAllUsers, func(ctx context.Context) ([]models.User, error) {
		var out []models.User
		err := s.api.Get(ctx, "/users", nil, &out)
		return out, err
	})
}

// SetRole changes a user's role.
func (s *Store) SetRole(ctx context.Context, id string, role models.Role) querycache.Outcome {
	return s.qc.Mutate(ctx, querycache.Mutation{
		Success:     "User role updated to " + role.Label(),
		Failure:     "Failed to update role",
		Invalidates: []querycache.Key{store.KeyAllUsers, store.KeyAdminStats},
	}, func(ctx context.Context) error {
		return s.api.Put(ctx, "/users/"+apiclient.PathEscape(id)+"/role", map[string]string{"role": string(role)}, nil)
	})
}

// Delete removes a user.
func (s *Store) Delete(ctx context.Context, id string) querycache.Outcome {
	return s.qc.Mutate(ctx, querycache.Mutation{
		Success:     "User deleted",
		Failure:     "Failed to delete user",
		Invalidates: []querycache.Key{store.KeyAllUsers, store.KeyAdminStats},
	}, func(ctx context.Context) error {
		return s.api.Delete(ctx, "/users/"+apiclient.PathEscape(id), nil)
	})
}

// UpdateProfile writes the caller's own name and photo.
func (s *Store) UpdateProfile(ctx context.Context, p models.ProfileUpdate) querycache.Outcome {
	return s.qc.Mutate(ctx, querycache.Mutation{
		Success:     "Profile updated",
		Failure:     "Failed to update profile",
		Invalidates: []querycache.Key{store.KeyAllUsers},
	}, func(ctx context.Context) error {
		return s.api.Put(ctx, "/users/profile", p, nil)
	})
}
