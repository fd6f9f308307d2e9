// Package events serves the public event list and event pages and the
// registration action.
package events

import (
	"errors"

	clubstore "github.com/dalemusser/clubsphere/internal/app/store/clubs"
	eventstore "github.com/dalemusser/clubsphere/internal/app/store/events"
	registrationstore "github.com/dalemusser/clubsphere/internal/app/store/registrations"
	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/enrollment"
	"github.com/dalemusser/clubsphere/internal/app/system/payments"
	"go.uber.org/zap"
)

// Handler holds dependencies for the event pages.
type Handler struct {
	Events        *eventstore.Store
	Clubs         *clubstore.Store
	Registrations *registrationstore.Store
	Enroll        *enrollment.Service
	Sessions      *auth.SessionManager
	Log           *zap.Logger
}

func NewHandler(events *eventstore.Store, clubs *clubstore.Store, regs *registrationstore.Store,
	enroll *enrollment.Service, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Events:        events,
		Clubs:         clubs,
		Registrations: regs,
		Enroll:        enroll,
		Sessions:      sm,
		Log:           logger,
	}
}

func failureMessage(err error) string {
	if _, ok := apiclient.AsError(err); ok {
		return apiclient.Message(err, "Could not register for event.")
	}
	if errors.Is(err, payments.ErrNothingToPay) {
		return "This event is free."
	}
	return payments.UserMessage(err)
}
