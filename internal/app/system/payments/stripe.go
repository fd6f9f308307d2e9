package payments

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// DefaultStripeURL is the Stripe API origin.
const DefaultStripeURL = "https://api.stripe.com"

// Intent is the processor's view of a payment intent after confirmation.
type Intent struct {
	ID     string
	Status string
	Amount int64 // minor units
}

// Succeeded reports whether the charge went through.
func (i *Intent) Succeeded() bool { return i.Status == "succeeded" }

// Processor confirms a payment intent with a payment method created by the
// browser-side card widget.
type Processor interface {
	Confirm(ctx context.Context, clientSecret, paymentMethodID string) (*Intent, error)
	// PublishableKey is handed to the card widget.
	PublishableKey() string
}

// StripeConfig configures the Stripe processor.
type StripeConfig struct {
	PublishableKey string
	APIURL         string
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// Stripe confirms intents the way Stripe.js does: with the publishable key
// and the intent's client secret. The secret key stays with the backend.
type Stripe struct {
	key        string
	apiURL     string
	httpClient *http.Client
	log        *zap.Logger
}

// NewStripe creates the processor.
func NewStripe(cfg StripeConfig) *Stripe {
	s := &Stripe{
		key:        cfg.PublishableKey,
		apiURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		httpClient: cfg.HTTPClient,
		log:        cfg.Logger,
	}
	if s.apiURL == "" {
		s.apiURL = DefaultStripeURL
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

var _ Processor = (*Stripe)(nil)

func (s *Stripe) PublishableKey() string { return s.key }

// IntentID extracts "pi_123" from a client secret "pi_123_secret_abc".
func IntentID(clientSecret string) string {
	if i := strings.Index(clientSecret, "_secret_"); i > 0 {
		return clientSecret[:i]
	}
	return ""
}

func (s *Stripe) Confirm(ctx context.Context, clientSecret, paymentMethodID string) (*Intent, error) {
	id := IntentID(clientSecret)
	if id == "" {
		return nil, fmt.Errorf("stripe confirm: malformed client secret")
	}
	if s.key == "" {
		return nil, fmt.Errorf("stripe confirm: publishable key not configured")
	}

	form := url.Values{}
	form.Set("client_secret", clientSecret)
	form.Set("payment_method", paymentMethodID)

	endpoint := s.apiURL + "/v1/payment_intents/" + url.PathEscape(id) + "/confirm"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("stripe confirm: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe confirm: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("stripe confirm: read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := gjson.GetBytes(body, "error")
		msg := e.Get("message").String()
		if msg == "" {
			msg = "Your card could not be charged."
		}
		s.log.Info("stripe declined confirmation",
			zap.String("intent", id),
			zap.Int("status", resp.StatusCode),
			zap.String("type", e.Get("type").String()),
			zap.String("code", e.Get("code").String()))
		return nil, &CardError{Stage: StageConfirm, Code: e.Get("code").String(), Message: msg}
	}

	return &Intent{
		ID:     gjson.GetBytes(body, "id").String(),
		Status: gjson.GetBytes(body, "status").String(),
		Amount: gjson.GetBytes(body, "amount").Int(),
	}, nil
}
