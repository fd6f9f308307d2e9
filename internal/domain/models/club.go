// internal/domain/models/club.go
package models

import "strings"

// ClubStatus is the approval state of a club. Only approved clubs are
// listed publicly.
type ClubStatus string

const (
	ClubPending  ClubStatus = "pending"
	ClubApproved ClubStatus = "approved"
	ClubRejected ClubStatus = "rejected"
)

// Club mirrors the backend club document.
type Club struct {
	ID            string     `json:"_id"`
	Name          string     `json:"clubName"`
	Category      string     `json:"category"`
	Description   string     `json:"description"`
	Location      string     `json:"location"`
	BannerImage   string     `json:"bannerImage"`
	MembershipFee float64    `json:"membershipFee"`
	ManagerEmail  string     `json:"managerEmail"`
	Status        ClubStatus `json:"status"`
	MembersCount  int        `json:"membersCount"`
	CreatedAt     FlexTime   `json:"createdAt"`
}

// IsPaid reports whether joining requires a payment.
func (c Club) IsPaid() bool { return c.MembershipFee > 0 }

// ManagedBy reports whether email is the club's manager (case-insensitive).
func (c Club) ManagedBy(email string) bool {
	return email != "" && strings.EqualFold(strings.TrimSpace(c.ManagerEmail), strings.TrimSpace(email))
}

// ClubInput is the create/update payload for a club.
type ClubInput struct {
	Name          string  `json:"clubName"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	BannerImage   string  `json:"bannerImage,omitempty"`
	MembershipFee float64 `json:"membershipFee"`
}

// ClubCategories are the categories offered by the club forms.
var ClubCategories = []string{
	"Photography", "Sports", "Tech", "Music", "Art", "Books", "Travel", "Gaming", "Other",
}
