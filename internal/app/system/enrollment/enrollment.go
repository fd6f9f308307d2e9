// Package enrollment decides whether joining a club or registering for an
// event needs a payment first, and finishes the enrollment once a checkout
// has been paid.
package enrollment

import (
	"context"
	"errors"

	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/payments"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"go.uber.org/zap"
)

// ClubReader reads a club straight from the backend.
type ClubReader interface {
	Fresh(ctx context.Context, id string) (*models.Club, error)
}

// EventReader reads an event straight from the backend.
type EventReader interface {
	Fresh(ctx context.Context, id string) (*models.Event, error)
}

// Joiner issues membership requests.
type Joiner interface {
	Join(ctx context.Context, clubID string) querycache.Outcome
}

// Registrar issues event registrations.
type Registrar interface {
	Register(ctx context.Context, eventID string) querycache.Outcome
}

// Checkouts is the payment flow as seen by enrollment.
type Checkouts interface {
	Open(ctx context.Context, owner string, info models.PaymentInfo, title, returnPath string) (*payments.Checkout, error)
	Get(ctx context.Context, owner, id string) (*payments.Checkout, error)
	Submit(ctx context.Context, owner, id string, sub payments.Submission) (*payments.Receipt, error)
	Close(ctx context.Context, id string)
}

// Start is what a join or register request led to: either the enrollment
// write was issued (Outcome) or a checkout must be paid first (Checkout).
type Start struct {
	Outcome  querycache.Outcome
	Checkout *payments.Checkout
}

// NeedsPayment reports whether the caller has to pay before enrolling.
func (s *Start) NeedsPayment() bool { return s.Checkout != nil }

// Completion is the result of finishing a paid checkout.
type Completion struct {
	Info       models.PaymentInfo
	ReturnPath string
	Outcome    querycache.Outcome
}

// Config wires the service to its stores and the payment flow.
type Config struct {
	Clubs         ClubReader
	Events        EventReader
	Memberships   Joiner
	Registrations Registrar
	Checkouts     Checkouts
	Logger        *zap.Logger
}

type Service struct {
	clubs     ClubReader
	events    EventReader
	members   Joiner
	regs      Registrar
	checkouts Checkouts
	log       *zap.Logger
}

func New(cfg Config) *Service {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		clubs:     cfg.Clubs,
		events:    cfg.Events,
		members:   cfg.Memberships,
		regs:      cfg.Registrations,
		checkouts: cfg.Checkouts,
		log:       log,
	}
}

// Checkout loads owner's open checkout.
func (s *Service) Checkout(ctx context.Context, owner, id string) (*payments.Checkout, error) {
	return s.checkouts.Get(ctx, owner, id)
}

// Cancel drops an open checkout.
func (s *Service) Cancel(ctx context.Context, id string) {
	s.checkouts.Close(ctx, id)
}

// ClubPath and EventPath are where a finished enrollment returns to.
func ClubPath(id string) string  { return "/clubs/" + apiclient.PathEscape(id) }
func EventPath(id string) string { return "/events/" + apiclient.PathEscape(id) }

// JoinClub joins a free club directly. A club with a fee opens a checkout
// for the fee read fresh from the backend.
func (s *Service) JoinClub(ctx context.Context, owner, clubID string) (*Start, error) {
	club, err := s.clubs.Fresh(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !club.IsPaid() {
		return &Start{Outcome: s.members.Join(ctx, club.ID)}, nil
	}
	info := models.PaymentInfo{
		Amount: club.MembershipFee,
		Type:   models.PaymentMembership,
		ClubID: club.ID,
	}
	co, err := s.checkouts.Open(ctx, owner, info, club.Name, ClubPath(club.ID))
	if err != nil {
		return nil, err
	}
	return &Start{Checkout: co}, nil
}

// RegisterEvent registers for a free event directly. A paid event with a
// positive fee opens a checkout first.
func (s *Service) RegisterEvent(ctx context.Context, owner, eventID string) (*Start, error) {
	ev, err := s.events.Fresh(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ev.RequiresPayment() {
		return &Start{Outcome: s.regs.Register(ctx, ev.ID)}, nil
	}
	info := models.PaymentInfo{
		Amount:  ev.EventFee,
		Type:    models.PaymentEvent,
		ClubID:  ev.ClubID.String(),
		EventID: ev.ID,
	}
	co, err := s.checkouts.Open(ctx, owner, info, ev.Title, EventPath(ev.ID))
	if err != nil {
		return nil, err
	}
	return &Start{Checkout: co}, nil
}

// Complete pays the checkout and then issues the join or registration.
// A checkout that was already paid only retries the enrollment write, so
// the card is never charged twice. The checkout is kept until enrollment
// succeeds.
func (s *Service) Complete(ctx context.Context, owner, checkoutID string, sub payments.Submission) (*Completion, error) {
	co, err := s.checkouts.Get(ctx, owner, checkoutID)
	if err != nil {
		return nil, err
	}

	if _, err := s.checkouts.Submit(ctx, owner, checkoutID, sub); err != nil {
		if !errors.Is(err, payments.ErrAlreadyPaid) {
			return nil, err
		}
		s.log.Info("checkout already paid; retrying enrollment", zap.String("checkout", checkoutID))
	}

	out := s.enroll(ctx, co.Info)
	if out.OK {
		s.checkouts.Close(ctx, checkoutID)
	} else {
		s.log.Warn("paid but enrollment failed",
			zap.String("checkout", checkoutID),
			zap.String("type", string(co.Info.Type)),
			zap.String("scope", co.Info.ScopeID()),
			zap.String("message", out.Message))
	}
	return &Completion{Info: co.Info, ReturnPath: co.ReturnPath, Outcome: out}, nil
}

func (s *Service) enroll(ctx context.Context, info models.PaymentInfo) querycache.Outcome {
	if info.Type == models.PaymentEvent {
		return s.regs.Register(ctx, info.EventID)
	}
	return s.members.Join(ctx, info.ClubID)
}
