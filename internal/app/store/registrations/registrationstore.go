// internal/app/store/registrations/registrationstore.go
package registrationstore

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

// Mine returns the caller's event registrations.
func (s *Store) Mine(ctx context.Context) ([]models.Registration, error) {
	return querycache.FetchPrivate(ctx, s.qc, store.KeyMyRegs, func(ctx context.Context) ([]models.Registration, error) {
		var out []models.Registration
		err := s.api.Get(ctx, "/event-registrations/my", nil, &out)
		return out, err
	})
}

// ForEvent returns an event's attendees (manager/admin).
func (s *Store) ForEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	return querycache.FetchPrivate(ctx, s.qc, store.KeyEventRegistrations(eventID), func(ctx context.Context) ([]models.Registration, error) {
		var out []models.Registration
		err := s.api.Get(ctx, "/event-registrations/event/"+apiclient.PathEscape(eventID), nil, &out)
		return out, err
	})
}

// Check reports whether the caller is registered for the event.
func (s *Store) Check(ctx context.Context, eventID string) (*models.RegistrationCheck, error) {
	key := append(store.KeyRegistration(eventID), querycache.UserFrom(ctx))
	return querycache.FetchPrivate(ctx, s.qc, key, func(ctx context.Context) (*models.RegistrationCheck, error) {
		var out models.RegistrationCheck
		if err := s.api.Get(ctx, "/event-registrations/check/"+apiclient.PathEscape(eventID), nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Register signs the caller up for the event.
func (s *Store) Register(ctx context.Context, eventID string) querycache.Outcome {
	return s.qc.Mutate(ctx, querycache.Mutation{
		Success: "Successfully registered for the event.",
		Failure: "Failed to register for event",
		Invalidates: []querycache.Key{
			store.KeyRegistration(eventID), store.KeyMyRegs, store.KeyEvent(eventID),
			store.KeyEventRegistrations(eventID), store.KeyManagerStats,
		},
	}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/event-registrations/register", map[string]string{"eventId": eventID}, nil)
	})
}
