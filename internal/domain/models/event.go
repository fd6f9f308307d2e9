// internal/domain/models/event.go
package models

// Event mirrors the backend event document.
type Event struct {
	ID           string   `json:"_id"`
	Title        string   `json:"title"`
	ClubID       Ref      `json:"clubId"`
	Description  string   `json:"description"`
	EventDate    FlexTime `json:"eventDate"`
	Location     string   `json:"location"`
	IsPaid       bool     `json:"isPaid"`
	EventFee     float64  `json:"eventFee"`
	MaxAttendees int      `json:"maxAttendees"`
	BannerImage  string   `json:"bannerImage"`
}

// RequiresPayment reports whether registration goes through checkout.
// A paid flag with a non-positive fee is treated as free.
func (e Event) RequiresPayment() bool { return e.IsPaid && e.EventFee > 0 }

// EventInput is the create/update payload for an event.
type EventInput struct {
	Title        string  `json:"title"`
	ClubID       string  `json:"clubId"`
	Description  string  `json:"description"`
	EventDate    string  `json:"eventDate"`
	Location     string  `json:"location"`
	IsPaid       bool    `json:"isPaid"`
	EventFee     float64 `json:"eventFee"`
	MaxAttendees int     `json:"maxAttendees,omitempty"`
	BannerImage  string  `json:"bannerImage,omitempty"`
}
