// internal/domain/models/membership.go
package models

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Membership joins a user to a club.
type Membership struct {
	ID        string   `json:"_id"`
	ClubID    Ref      `json:"clubId"`
	UserEmail string   `json:"userEmail"`
	Status    string   `json:"status"`
	PaymentID string   `json:"paymentId,omitempty"`
	JoinedAt  FlexTime `json:"joinedAt"`
	Club      *Club    `json:"club,omitempty"`
}

// UnmarshalJSON also accepts the club populated into clubId.
func (m *Membership) UnmarshalJSON(b []byte) error {
	type plain Membership
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.Club == nil {
		if raw := gjson.GetBytes(b, "clubId"); raw.IsObject() {
			var c Club
			if err := json.Unmarshal([]byte(raw.Raw), &c); err == nil {
				p.Club = &c
			}
		}
	}
	*m = Membership(p)
	return nil
}

// MembershipCheck is the response of GET /memberships/check/:id.
type MembershipCheck struct {
	IsMember bool   `json:"isMember"`
	Status   string `json:"status,omitempty"`
}

// Registration joins a user to an event.
type Registration struct {
	ID           string   `json:"_id"`
	EventID      Ref      `json:"eventId"`
	UserEmail    string   `json:"userEmail"`
	Status       string   `json:"status"`
	PaymentID    string   `json:"paymentId,omitempty"`
	RegisteredAt FlexTime `json:"registeredAt"`
	Event        *Event   `json:"event,omitempty"`
}

// UnmarshalJSON also accepts the event populated into eventId.
func (r *Registration) UnmarshalJSON(b []byte) error {
	type plain Registration
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.Event == nil {
		if raw := gjson.GetBytes(b, "eventId"); raw.IsObject() {
			var e Event
			if err := json.Unmarshal([]byte(raw.Raw), &e); err == nil {
				p.Event = &e
			}
		}
	}
	*r = Registration(p)
	return nil
}

// RegistrationCheck is the response of GET /event-registrations/check/:id.
type RegistrationCheck struct {
	IsRegistered bool   `json:"isRegistered"`
	Status       string `json:"status,omitempty"`
}
