// internal/domain/models/user.go
package models

import "strings"

// User is a backend user record as listed in the admin dashboard.
type User struct {
	ID        string   `json:"_id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	PhotoURL  string   `json:"photoURL,omitempty"`
	Role      Role     `json:"role"`
	CreatedAt FlexTime `json:"createdAt"`
}

// DisplayName is the name, or the email when the user has none.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

// Label names the user in prompts: "Name (email)", or just the email.
func (u User) Label() string {
	if strings.TrimSpace(u.Name) == "" {
		return u.Email
	}
	return u.Name + " (" + u.Email + ")"
}

// SyncRequest is the profile payload sent to POST /users/sync.
type SyncRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL"`
}

// SyncResult is the part of the sync response the session cares about.
type SyncResult struct {
	ID   string `json:"_id"`
	Role Role   `json:"role"`
}

// ProfileUpdate is the payload for PUT /users/profile.
type ProfileUpdate struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL,omitempty"`
}
