package payments_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/clubsphere/internal/app/system/payments"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu        sync.Mutex
	intents   []models.PaymentInfo
	records   []models.PaymentRecord
	recordErr error
}

func (b *fakeBackend) CreateIntent(ctx context.Context, info models.PaymentInfo) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.intents = append(b.intents, info)
	return "pi_123_secret_abc", nil
}

func (b *fakeBackend) RecordPayment(ctx context.Context, rec models.PaymentRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.recordErr != nil {
		return b.recordErr
	}
	b.records = append(b.records, rec)
	return nil
}

type fakeProcessor struct {
	calls  atomic.Int32
	status string
	err    error
	block  chan struct{}
}

func (p *fakeProcessor) PublishableKey() string { return "pk_test" }

func (p *fakeProcessor) Confirm(ctx context.Context, secret, pm string) (*payments.Intent, error) {
	p.calls.Add(1)
	if p.block != nil {
		<-p.block
	}
	if p.err != nil {
		return nil, p.err
	}
	status := p.status
	if status == "" {
		status = "succeeded"
	}
	return &payments.Intent{ID: payments.IntentID(secret), Status: status}, nil
}

func newFlow(b *fakeBackend, p *fakeProcessor) *payments.Flow {
	return payments.NewFlow(payments.FlowConfig{
		Backend:   b,
		Processor: p,
		Cache:     querycache.NewMemoryCache(64),
	})
}

var clubFee = models.PaymentInfo{Amount: 25, Type: models.PaymentMembership, ClubID: "c1"}

func TestIntentID(t *testing.T) {
	assert.Equal(t, "pi_3Nx", payments.IntentID("pi_3Nx_secret_XYZ"))
	assert.Equal(t, "", payments.IntentID("garbage"))
}

func TestOpen_ZeroAmountRefused(t *testing.T) {
	b := &fakeBackend{}
	f := newFlow(b, &fakeProcessor{})

	_, err := f.Open(context.Background(), "ana@x.com", models.PaymentInfo{Type: models.PaymentMembership, ClubID: "c1"}, "Chess", "/clubs/c1")
	assert.ErrorIs(t, err, payments.ErrNothingToPay)
	assert.Empty(t, b.intents)
}

func TestSubmit_HappyPathRecordsBeforeSuccess(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{}
	p := &fakeProcessor{}
	f := newFlow(b, p)

	co, err := f.Open(ctx, "Ana@X.com", clubFee, "Chess Club", "/clubs/c1")
	require.NoError(t, err)
	require.Len(t, b.intents, 1)
	assert.Equal(t, clubFee, b.intents[0])

	rc, err := f.Submit(ctx, "ana@x.com", co.ID, payments.Submission{PaymentMethodID: "pm_1"})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", rc.PaymentIntentID)

	require.Len(t, b.records, 1)
	assert.Equal(t, models.PaymentRecord{PaymentIntentID: "pi_123", Amount: 25, Type: models.PaymentMembership, ClubID: "c1"}, b.records[0])

	_, err = f.Submit(ctx, "ana@x.com", co.ID, payments.Submission{PaymentMethodID: "pm_1"})
	assert.ErrorIs(t, err, payments.ErrAlreadyPaid)
	assert.Equal(t, int32(1), p.calls.Load(), "a paid checkout must not be charged again")
}

func TestSubmit_MethodErrorShownInline(t *testing.T) {
	ctx := context.Background()
	p := &fakeProcessor{}
	f := newFlow(&fakeBackend{}, p)
	co, err := f.Open(ctx, "ana@x.com", clubFee, "Chess", "/clubs/c1")
	require.NoError(t, err)

	_, err = f.Submit(ctx, "ana@x.com", co.ID, payments.Submission{MethodError: "Your card number is incomplete."})
	var ce *payments.CardError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, payments.StageMethod, ce.Stage)
	assert.Equal(t, "Your card number is incomplete.", payments.UserMessage(err))
	assert.Zero(t, p.calls.Load())
}

func TestSubmit_DeclineKeepsCheckoutOpen(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{}
	p := &fakeProcessor{err: &payments.CardError{Stage: payments.StageConfirm, Code: "card_declined", Message: "Your card was declined."}}
	f := newFlow(b, p)
	co, err := f.Open(ctx, "ana@x.com", clubFee, "Chess", "/clubs/c1")
	require.NoError(t, err)

	_, err = f.Submit(ctx, "ana@x.com", co.ID, payments.Submission{PaymentMethodID: "pm_1"})
	assert.Equal(t, "Your card was declined.", payments.UserMessage(err))
	assert.Empty(t, b.records)

	p.err = nil
	_, err = f.Submit(ctx, "ana@x.com", co.ID, payments.Submission{PaymentMethodID: "pm_2"})
	require.NoError(t, err)
}

func TestSubmit_RecordFailureIsDistinctAndNotRetried(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{recordErr: errors.New("backend 500")}
	p := &fakeProcessor{}
	f := newFlow(b, p)
	co, err := f.Open(ctx, "ana@x.com", clubFee, "Chess", "/clubs/c1")
	require.NoError(t, err)

	_, err = f.Submit(ctx, "ana@x.com", co.ID, payments.Submission{PaymentMethodID: "pm_1"})
	require.ErrorIs(t, err, payments.ErrNotRecorded)
	assert.Equal(t, "Payment succeeded but failed to record. Please contact support.", payments.UserMessage(err))

	b.recordErr = nil
	_, err = f.Submit(ctx, "ana@x.com", co.ID, payments.Submission{PaymentMethodID: "pm_1"})
	require.ErrorIs(t, err, payments.ErrNotRecorded)
	assert.Equal(t, int32(1), p.calls.Load(), "the card must not be charged twice")
	assert.Empty(t, b.records, "recording is never retried automatically")
}

func TestSubmit_ConcurrentSubmissionRefused(t *testing.T) {
	ctx := context.Background()
	p := &fakeProcessor{block: make(chan struct{})}
	f := newFlow(&fakeBackend{}, p)
	co, err := f.Open(ctx, "ana@x.com", clubFee, "Chess", "/clubs/c1")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(ctx, "ana@x.com", co.ID, payments.Submission{PaymentMethodID: "pm_1"})
		done <- err
	}()

	require.Eventually(t, func() bool { return p.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	_, err = f.Submit(ctx, "ana@x.com", co.ID, payments.Submission{PaymentMethodID: "pm_1"})
	assert.ErrorIs(t, err, payments.ErrInFlight)

	close(p.block)
	require.NoError(t, <-done)
}

func TestGet_ForeignOwnerCannotSeeCheckout(t *testing.T) {
	ctx := context.Background()
	f := newFlow(&fakeBackend{}, &fakeProcessor{})
	co, err := f.Open(ctx, "ana@x.com", clubFee, "Chess", "/clubs/c1")
	require.NoError(t, err)

	_, err = f.Get(ctx, "mallory@x.com", co.ID)
	assert.ErrorIs(t, err, payments.ErrCheckoutNotFound)
}

func TestStripe_Confirm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents/pi_9/confirm", r.URL.Path)
		assert.Equal(t, "Bearer pk_test", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "pi_9_secret_s", r.PostForm.Get("client_secret"))
		if r.PostForm.Get("payment_method") == "pm_bad" {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"pi_9","status":"succeeded","amount":2500}`))
	}))
	defer srv.Close()

	s := payments.NewStripe(payments.StripeConfig{PublishableKey: "pk_test", APIURL: srv.URL})

	in, err := s.Confirm(context.Background(), "pi_9_secret_s", "pm_ok")
	require.NoError(t, err)
	assert.True(t, in.Succeeded())
	assert.Equal(t, int64(2500), in.Amount)

	_, err = s.Confirm(context.Background(), "pi_9_secret_s", "pm_bad")
	var ce *payments.CardError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "card_declined", ce.Code)
	assert.Equal(t, "Your card was declined.", ce.Message)
}
