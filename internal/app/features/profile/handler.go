// internal/app/features/profile/handler.go
package profile

import (
	userstore "github.com/dalemusser/clubsphere/internal/app/store/users"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/identity"
	"github.com/dalemusser/clubsphere/internal/app/system/imagehost"
	"go.uber.org/zap"
)

// Handler owns the profile edit page.
type Handler struct {
	Users    *userstore.Store
	Provider identity.Provider
	Images   *imagehost.Client
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

// NewHandler constructs a Handler over the user store, the identity
// provider and the image host.
func NewHandler(users *userstore.Store, provider identity.Provider, images *imagehost.Client, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Provider: provider,
		Images:   images,
		Sessions: sm,
		Log:      logger,
	}
}
