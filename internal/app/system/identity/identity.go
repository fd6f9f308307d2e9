// Package identity talks to the identity provider that issues the bearer
// tokens the ClubSphere API accepts.
package identity

import (
	"context"
	"time"
)

// User is the raw provider identity, before the backend assigns a role.
type User struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Tokens is a provider-issued ID token plus the refresh token that renews it.
type Tokens struct {
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Result is a successful sign-in, sign-up or federated sign-in.
type Result struct {
	User   User
	Tokens Tokens
}

// Provider is the identity provider surface the web tier needs.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Result, error)
	SignUp(ctx context.Context, email, password, displayName, photoURL string) (*Result, error)
	// SignInWithGoogle exchanges a Google ID token obtained through OAuth.
	SignInWithGoogle(ctx context.Context, googleIDToken, requestURI string) (*Result, error)
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
	UpdateProfile(ctx context.Context, idToken, displayName, photoURL string) error
}
