// internal/app/store/payments/paymentstore.go
package paymentstore

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

// CreateIntent asks the backend for a payment intent and returns its client
// secret.
func (s *Store) CreateIntent(ctx context.Context, info models.PaymentInfo) (string, error) {
	var raw json.RawMessage
	if err := s.api.Post(ctx, "/payments/create-intent", info, &raw); err != nil {
		return "", err
	}
	secret := gjson.GetBytes(raw, "clientSecret").String()
	if secret == "" {
		return "", fmt.Errorf("create-intent: response has no clientSecret")
	}
	return secret, nil
}

// RecordPayment persists a confirmed charge.
func (s *Store) RecordPayment(ctx context.Context, rec models.PaymentRecord) error {
	if err := s.api.Post(ctx, "/payments/confirm", rec, nil); err != nil {
		return err
	}
	s.qc.Invalidate(ctx, store.KeyMyPayments, store.KeyAllPayments, store.KeyAdminStats, store.KeyManagerStats)
	return nil
}

// Mine returns the caller's payments.
func (s *Store) Mine(ctx context.Context) ([]models.Payment, error) {
	return querycache.FetchPrivate(ctx, s.qc, store.KeyMyPayments, func(ctx context.Context) ([]models.Payment, error) {
		var out []models.Payment
		err := s.api.Get(ctx, "/payments/my-payments", nil, &out)
		return out, err
	})
}

// All returns every payment (admin).
func (s *Store) All(ctx context.Context) ([]models.Payment, error) {
	return querycache.FetchPrivate(ctx, s.qc, store.KeyAllPayments, func(ctx context.Context) ([]models.Payment, error) {
		var out []models.Payment
		err := s.api.Get(ctx, "/payments/all", nil, &out)
		return out, err
	})
}
