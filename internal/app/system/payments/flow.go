// Package payments runs the four-step payment sequence: create the intent,
// confirm it with the processor, record it with the backend, and only then
// report success to the caller that performs the join or registration.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/clubsphere/internal/app/system/metrics"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backend is the part of the ClubSphere API the flow calls.
type Backend interface {
	CreateIntent(ctx context.Context, info models.PaymentInfo) (clientSecret string, err error)
	RecordPayment(ctx context.Context, rec models.PaymentRecord) error
}

// Status is where a checkout stands.
type Status string

const (
	StatusOpen       Status = "open"       // intent created, awaiting card
	StatusUnrecorded Status = "unrecorded" // charged, backend record failed
	StatusPaid       Status = "paid"       // charged and recorded
)

// Checkout is one open payment surface. It lives in the cache under its id.
type Checkout struct {
	ID           string             `json:"id"`
	Owner        string             `json:"owner"`
	Info         models.PaymentInfo `json:"info"`
	Title        string             `json:"title"`
	ReturnPath   string             `json:"returnPath"`
	ClientSecret string             `json:"clientSecret"`
	IntentID     string             `json:"intentId,omitempty"`
	Status       Status             `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// Receipt is handed to the caller once the payment is recorded.
type Receipt struct {
	PaymentIntentID string
	Info            models.PaymentInfo
}

// Submission is what the checkout form posts back.
type Submission struct {
	// PaymentMethodID is the id the card widget created.
	PaymentMethodID string
	// MethodError is the card widget's error, when it could not create one.
	MethodError string
}

// FlowConfig configures a Flow.
type FlowConfig struct {
	Backend   Backend
	Processor Processor
	Cache     querycache.Cache
	// CheckoutTTL is how long an unpaid checkout stays open.
	CheckoutTTL time.Duration
	// LockTTL bounds a single submission.
	LockTTL time.Duration
	Logger  *zap.Logger
}

// Flow runs checkouts.
type Flow struct {
	backend     Backend
	processor   Processor
	cache       querycache.Cache
	checkoutTTL time.Duration
	lockTTL     time.Duration
	log         *zap.Logger
	now         func() time.Time
}

// NewFlow creates a Flow.
func NewFlow(cfg FlowConfig) *Flow {
	f := &Flow{
		backend:     cfg.Backend,
		processor:   cfg.Processor,
		cache:       cfg.Cache,
		checkoutTTL: cfg.CheckoutTTL,
		lockTTL:     cfg.LockTTL,
		log:         cfg.Logger,
		now:         time.Now,
	}
	if f.checkoutTTL <= 0 {
		f.checkoutTTL = 30 * time.Minute
	}
	if f.lockTTL <= 0 {
		f.lockTTL = 2 * time.Minute
	}
	if f.log == nil {
		f.log = zap.NewNop()
	}
	return f
}

// PublishableKey is the key the card widget loads with.
func (f *Flow) PublishableKey() string { return f.processor.PublishableKey() }

// Open requests a payment intent for info and stores a checkout for owner.
// The amount must come from a freshly fetched club or event.
func (f *Flow) Open(ctx context.Context, owner string, info models.PaymentInfo, title, returnPath string) (*Checkout, error) {
	if info.Amount <= 0 {
		return nil, ErrNothingToPay
	}
	secret, err := f.backend.CreateIntent(ctx, info)
	if err != nil {
		metrics.PaymentOutcome(string(info.Type), "intent_failed")
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	if IntentID(secret) == "" {
		metrics.PaymentOutcome(string(info.Type), "intent_failed")
		return nil, fmt.Errorf("create payment intent: backend returned no usable client secret")
	}

	co := &Checkout{
		ID:           uuid.NewString(),
		Owner:        normalizeOwner(owner),
		Info:         info,
		Title:        title,
		ReturnPath:   returnPath,
		ClientSecret: secret,
		Status:       StatusOpen,
		CreatedAt:    f.now(),
	}
	if err := f.save(ctx, co); err != nil {
		return nil, err
	}
	metrics.PaymentOutcome(string(info.Type), "opened")
	f.log.Info("checkout opened",
		zap.String("checkout", co.ID),
		zap.String("type", string(info.Type)),
		zap.String("scope", info.ScopeID()),
		zap.Float64("amount", info.Amount))
	return co, nil
}

// Get loads owner's checkout.
func (f *Flow) Get(ctx context.Context, owner, id string) (*Checkout, error) {
	b, ok, err := f.cache.Get(ctx, checkoutKey(id))
	if err != nil {
		return nil, fmt.Errorf("load checkout: %w", err)
	}
	if !ok {
		return nil, ErrCheckoutNotFound
	}
	var co Checkout
	if err := json.Unmarshal(b, &co); err != nil {
		return nil, fmt.Errorf("decode checkout: %w", err)
	}
	if co.Owner != normalizeOwner(owner) {
		return nil, ErrCheckoutNotFound
	}
	return &co, nil
}

// Close forgets a checkout once its caller has finished with it.
func (f *Flow) Close(ctx context.Context, id string) {
	if err := f.cache.Delete(ctx, checkoutKey(id)); err != nil {
		f.log.Warn("failed to delete checkout", zap.String("checkout", id), zap.Error(err))
	}
}

// Submit confirms the charge and records it. Steps run strictly in order;
// a concurrent submission for the same checkout gets ErrInFlight. A charge
// the backend fails to record yields ErrNotRecorded, now and on every later
// submission, without charging again.
func (f *Flow) Submit(ctx context.Context, owner, id string, sub Submission) (*Receipt, error) {
	got, err := f.cache.SetNX(ctx, lockKey(id), []byte(owner), f.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("lock checkout: %w", err)
	}
	if !got {
		return nil, ErrInFlight
	}
	defer func() {
		// The lock must go even when the request context is done.
		if err := f.cache.Delete(context.WithoutCancel(ctx), lockKey(id)); err != nil {
			f.log.Warn("failed to release checkout lock", zap.String("checkout", id), zap.Error(err))
		}
	}()

	co, err := f.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	typ := string(co.Info.Type)

	switch co.Status {
	case StatusPaid:
		return nil, ErrAlreadyPaid
	case StatusUnrecorded:
		return nil, ErrNotRecorded
	}

	// payment method, created by the card widget in the browser
	if msg := strings.TrimSpace(sub.MethodError); msg != "" {
		metrics.PaymentOutcome(typ, "method_failed")
		return nil, &CardError{Stage: StageMethod, Message: msg}
	}
	if strings.TrimSpace(sub.PaymentMethodID) == "" {
		metrics.PaymentOutcome(typ, "method_failed")
		return nil, &CardError{Stage: StageMethod, Message: "Please enter your card details."}
	}

	// confirmation with the processor
	intent, err := f.processor.Confirm(ctx, co.ClientSecret, sub.PaymentMethodID)
	if err != nil {
		metrics.PaymentOutcome(typ, "confirm_failed")
		var ce *CardError
		if errors.As(err, &ce) {
			return nil, ce
		}
		f.log.Warn("payment confirmation failed", zap.String("checkout", id), zap.Error(err))
		return nil, &CardError{Stage: StageConfirm, Message: "Payment could not be confirmed. Please try again."}
	}
	if !intent.Succeeded() {
		metrics.PaymentOutcome(typ, "confirm_incomplete")
		f.log.Info("payment intent not succeeded",
			zap.String("checkout", id),
			zap.String("intent", intent.ID),
			zap.String("status", intent.Status))
		return nil, &CardError{Stage: StageConfirm, Code: intent.Status, Message: "Payment was not completed. Please try another card."}
	}

	intentID := intent.ID
	if intentID == "" {
		intentID = IntentID(co.ClientSecret)
	}
	co.IntentID = intentID
	co.Status = StatusUnrecorded
	if err := f.save(ctx, co); err != nil {
		f.log.Error("failed to mark checkout charged", zap.String("checkout", id), zap.Error(err))
	}

	// record with the backend
	rec := models.PaymentRecord{
		PaymentIntentID: intentID,
		Amount:          co.Info.Amount,
		Type:            co.Info.Type,
		ClubID:          co.Info.ClubID,
		EventID:         co.Info.EventID,
	}
	if err := f.backend.RecordPayment(ctx, rec); err != nil {
		metrics.PaymentOutcome(typ, "record_failed")
		f.log.Error("payment charged but not recorded",
			zap.String("checkout", id),
			zap.String("intent", intentID),
			zap.String("owner", co.Owner),
			zap.Float64("amount", co.Info.Amount),
			zap.Error(err))
		reportUnrecorded(ctx, co, err)
		return nil, fmt.Errorf("%w (intent %s): %v", ErrNotRecorded, intentID, err)
	}

	co.Status = StatusPaid
	if err := f.save(ctx, co); err != nil {
		f.log.Warn("failed to mark checkout paid", zap.String("checkout", id), zap.Error(err))
	}
	metrics.PaymentOutcome(typ, "recorded")
	f.log.Info("payment recorded",
		zap.String("checkout", id),
		zap.String("intent", intentID),
		zap.String("type", typ))
	return &Receipt{PaymentIntentID: intentID, Info: co.Info}, nil
}

func (f *Flow) save(ctx context.Context, co *Checkout) error {
	b, err := json.Marshal(co)
	if err != nil {
		return fmt.Errorf("encode checkout: %w", err)
	}
	if err := f.cache.Set(ctx, checkoutKey(co.ID), b, f.checkoutTTL); err != nil {
		return fmt.Errorf("store checkout: %w", err)
	}
	return nil
}

func reportUnrecorded(ctx context.Context, co *Checkout, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetTag("payment.stage", string(StageRecord))
		scope.SetTag("payment.type", string(co.Info.Type))
		scope.SetExtra("payment.intent", co.IntentID)
		scope.SetExtra("payment.scope", co.Info.ScopeID())
		scope.SetExtra("payment.amount", co.Info.Amount)
		scope.SetUser(sentry.User{Email: co.Owner})
		hub.CaptureException(err)
	})
}

func normalizeOwner(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func checkoutKey(id string) string { return "checkout|" + id }
func lockKey(id string) string     { return "checkout-lock|" + id }
