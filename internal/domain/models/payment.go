// internal/domain/models/payment.go
package models

// PaymentType scopes a payment to a club membership or an event registration.
type PaymentType string

const (
	PaymentMembership PaymentType = "membership"
	PaymentEvent      PaymentType = "event"
)

// Payment is a recorded payment as listed by the backend.
type Payment struct {
	ID              string      `json:"_id"`
	UserEmail       string      `json:"userEmail"`
	Amount          float64     `json:"amount"`
	Type            PaymentType `json:"type"`
	ClubID          Ref         `json:"clubId,omitempty"`
	EventID         Ref         `json:"eventId,omitempty"`
	PaymentIntentID string      `json:"paymentIntentId"`
	Status          string      `json:"status"`
	CreatedAt       FlexTime    `json:"createdAt"`
}

// PaymentInfo describes what is being paid for. Exactly one of ClubID and
// EventID is set, matching Type.
type PaymentInfo struct {
	Amount  float64     `json:"amount"`
	Type    PaymentType `json:"type"`
	ClubID  string      `json:"clubId,omitempty"`
	EventID string      `json:"eventId,omitempty"`
}

// ScopeID returns the club or event id the payment is scoped to.
func (p PaymentInfo) ScopeID() string {
	if p.Type == PaymentEvent {
		return p.EventID
	}
	return p.ClubID
}

// PaymentRecord is the payload for POST /payments/confirm.
type PaymentRecord struct {
	PaymentIntentID string      `json:"paymentIntentId"`
	Amount          float64     `json:"amount"`
	Type            PaymentType `json:"type"`
	ClubID          string      `json:"clubId,omitempty"`
	EventID         string      `json:"eventId,omitempty"`
}

// TotalAmount sums payment amounts.
func TotalAmount(ps []Payment) float64 {
	var sum float64
	for _, p := range ps {
		sum += p.Amount
	}
	return sum
}
