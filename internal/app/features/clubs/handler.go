// Package clubs serves the public club list and club pages and the join
// action.
package clubs

import (
	"errors"

	clubstore "github.com/dalemusser/clubsphere/internal/app/store/clubs"
	eventstore "github.com/dalemusser/clubsphere/internal/app/store/events"
	membershipstore "github.com/dalemusser/clubsphere/internal/app/store/memberships"
	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/enrollment"
	"github.com/dalemusser/clubsphere/internal/app/system/payments"
	"go.uber.org/zap"
)

// Handler holds dependencies for the club pages.
type Handler struct {
	Clubs       *clubstore.Store
	Events      *eventstore.Store
	Memberships *membershipstore.Store
	Enroll      *enrollment.Service
	Sessions    *auth.SessionManager
	Log         *zap.Logger
}

func NewHandler(clubs *clubstore.Store, events *eventstore.Store, memberships *membershipstore.Store,
	enroll *enrollment.Service, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Clubs:       clubs,
		Events:      events,
		Memberships: memberships,
		Enroll:      enroll,
		Sessions:    sm,
		Log:         logger,
	}
}

// failureMessage is the notice for a join that could not start.
func failureMessage(err error) string {
	if _, ok := apiclient.AsError(err); ok {
		return apiclient.Message(err, "Could not join club.")
	}
	if errors.Is(err, payments.ErrNothingToPay) {
		return "This club has no membership fee."
	}
	return payments.UserMessage(err)
}
