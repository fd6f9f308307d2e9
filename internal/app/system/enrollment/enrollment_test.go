package enrollment_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	clubstore "github.com/dalemusser/clubsphere/internal/app/store/clubs"
	eventstore "github.com/dalemusser/clubsphere/internal/app/store/events"
	membershipstore "github.com/dalemusser/clubsphere/internal/app/store/memberships"
	paymentstore "github.com/dalemusser/clubsphere/internal/app/store/payments"
	registrationstore "github.com/dalemusser/clubsphere/internal/app/store/registrations"
	"github.com/dalemusser/clubsphere/internal/app/system/enrollment"
	"github.com/dalemusser/clubsphere/internal/app/system/payments"
	"github.com/dalemusser/clubsphere/internal/app/system/querycache"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/clubsphere/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type approvingProcessor struct{ calls atomic.Int32 }

func (p *approvingProcessor) PublishableKey() string { return "pk_test" }

func (p *approvingProcessor) Confirm(ctx context.Context, secret, pm string) (*payments.Intent, error) {
	p.calls.Add(1)
	return &payments.Intent{ID: payments.IntentID(secret), Status: "succeeded"}, nil
}

type harness struct {
	be   *testutil.FakeBackend
	proc *approvingProcessor
	svc  *enrollment.Service
	user testutil.TestUser
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	be := testutil.NewFakeBackend(t)
	api := be.Client()
	qc := testutil.NewQueryCache(t)
	proc := &approvingProcessor{}
	flow := payments.NewFlow(payments.FlowConfig{
		Backend:   paymentstore.New(api, qc),
		Processor: proc,
		Cache:     querycache.NewMemoryCache(64),
	})
	svc := enrollment.New(enrollment.Config{
		Clubs:         clubstore.New(api, qc),
		Events:        eventstore.New(api, qc),
		Memberships:   membershipstore.New(api, qc),
		Registrations: registrationstore.New(api, qc),
		Checkouts:     flow,
	})
	return &harness{be: be, proc: proc, svc: svc, user: be.AddUser("Member", "member@test.com", models.RoleMember)}
}

func TestJoinClub_FreeJoinsDirectly(t *testing.T) {
	h := newHarness(t)
	club := h.be.AddClub(models.Club{Name: "Chess"})

	start, err := h.svc.JoinClub(h.user.Context(), h.user.Email, club.ID)
	require.NoError(t, err)
	assert.False(t, start.NeedsPayment())
	assert.True(t, start.Outcome.OK)
	assert.Len(t, h.be.Memberships(), 1)
	assert.Equal(t, 0, h.be.Calls(http.MethodPost, "/payments/create-intent"))
}

func TestJoinClub_PaidOpensCheckout(t *testing.T) {
	h := newHarness(t)
	club := h.be.AddClub(models.Club{Name: "Sailing", MembershipFee: 40})

	start, err := h.svc.JoinClub(h.user.Context(), h.user.Email, club.ID)
	require.NoError(t, err)
	require.True(t, start.NeedsPayment())
	assert.Equal(t, 40.0, start.Checkout.Info.Amount)
	assert.Equal(t, models.PaymentMembership, start.Checkout.Info.Type)
	assert.Equal(t, club.ID, start.Checkout.Info.ClubID)
	assert.Equal(t, "/clubs/"+club.ID, start.Checkout.ReturnPath)
	assert.Empty(t, h.be.Memberships(), "no membership before payment")
}

func TestRegisterEvent_Decision(t *testing.T) {
	tests := []struct {
		name  string
		event models.Event
		pay   bool
	}{
		{"free", models.Event{Title: "Free"}, false},
		{"paid flag without fee", models.Event{Title: "Odd", IsPaid: true, EventFee: 0}, false},
		{"fee without paid flag", models.Event{Title: "Odd2", EventFee: 10}, false},
		{"paid", models.Event{Title: "Gala", IsPaid: true, EventFee: 12.5, ClubID: "c9"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			ev := h.be.AddEvent(tt.event)

			start, err := h.svc.RegisterEvent(h.user.Context(), h.user.Email, ev.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.pay, start.NeedsPayment())
			if tt.pay {
				assert.Equal(t, ev.ID, start.Checkout.Info.EventID)
				assert.Equal(t, "c9", start.Checkout.Info.ClubID)
				assert.Empty(t, h.be.Registrations())
			} else {
				assert.True(t, start.Outcome.OK)
				assert.Len(t, h.be.Registrations(), 1)
			}
		})
	}
}

func TestComplete_PaysRecordsThenJoins(t *testing.T) {
	h := newHarness(t)
	ctx := h.user.Context()
	club := h.be.AddClub(models.Club{Name: "Sailing", MembershipFee: 40})

	start, err := h.svc.JoinClub(ctx, h.user.Email, club.ID)
	require.NoError(t, err)

	done, err := h.svc.Complete(ctx, h.user.Email, start.Checkout.ID, payments.Submission{PaymentMethodID: "pm_card"})
	require.NoError(t, err)
	assert.True(t, done.Outcome.OK)
	assert.Equal(t, "/clubs/"+club.ID, done.ReturnPath)

	pays := h.be.Payments()
	require.Len(t, pays, 1)
	assert.Equal(t, 40.0, pays[0].Amount)
	assert.Len(t, h.be.Memberships(), 1)

	log := h.be.CallLog()
	confirmAt, joinAt := -1, -1
	for i, c := range log {
		switch c {
		case "POST /payments/confirm":
			confirmAt = i
		case "POST /memberships/join":
			joinAt = i
		}
	}
	assert.Less(t, confirmAt, joinAt, "payment must be recorded before joining")

	_, err = h.svc.Checkout(ctx, h.user.Email, start.Checkout.ID)
	assert.ErrorIs(t, err, payments.ErrCheckoutNotFound, "checkout closed after enrollment")
}

func TestComplete_RecordFailureNeverEnrolls(t *testing.T) {
	h := newHarness(t)
	ctx := h.user.Context()
	ev := h.be.AddEvent(models.Event{Title: "Gala", IsPaid: true, EventFee: 10})
	h.be.FailOn(http.MethodPost, "/payments/confirm", http.StatusInternalServerError, "db down")

	start, err := h.svc.RegisterEvent(ctx, h.user.Email, ev.ID)
	require.NoError(t, err)

	_, err = h.svc.Complete(ctx, h.user.Email, start.Checkout.ID, payments.Submission{PaymentMethodID: "pm_card"})
	require.ErrorIs(t, err, payments.ErrNotRecorded)
	assert.Equal(t, payments.NotRecordedMessage, payments.UserMessage(err))
	assert.Empty(t, h.be.Registrations())

	// A second submission does not charge again.
	h.be.ClearFailures()
	_, err = h.svc.Complete(ctx, h.user.Email, start.Checkout.ID, payments.Submission{PaymentMethodID: "pm_card"})
	require.ErrorIs(t, err, payments.ErrNotRecorded)
	assert.Equal(t, int32(1), h.proc.calls.Load())
	assert.Empty(t, h.be.Registrations())
}

func TestComplete_AlreadyPaidRetriesOnlyEnrollment(t *testing.T) {
	h := newHarness(t)
	ctx := h.user.Context()
	ev := h.be.AddEvent(models.Event{Title: "Gala", IsPaid: true, EventFee: 10})

	start, err := h.svc.RegisterEvent(ctx, h.user.Email, ev.ID)
	require.NoError(t, err)

	h.be.FailOn(http.MethodPost, "/event-registrations/register", http.StatusInternalServerError, "try later")
	done, err := h.svc.Complete(ctx, h.user.Email, start.Checkout.ID, payments.Submission{PaymentMethodID: "pm_card"})
	require.NoError(t, err)
	assert.False(t, done.Outcome.OK)
	assert.Equal(t, "try later", done.Outcome.Message)

	h.be.ClearFailures()
	done, err = h.svc.Complete(ctx, h.user.Email, start.Checkout.ID, payments.Submission{})
	require.NoError(t, err)
	assert.True(t, done.Outcome.OK)
	assert.Equal(t, int32(1), h.proc.calls.Load(), "card charged once")
	assert.Len(t, h.be.Payments(), 1)
	assert.Len(t, h.be.Registrations(), 1)
}

func TestComplete_OtherOwnerCannotSeeCheckout(t *testing.T) {
	h := newHarness(t)
	club := h.be.AddClub(models.Club{Name: "Sailing", MembershipFee: 40})
	start, err := h.svc.JoinClub(h.user.Context(), h.user.Email, club.ID)
	require.NoError(t, err)

	other := h.be.AddUser("Other", "other@test.com", models.RoleMember)
	_, err = h.svc.Complete(other.Context(), other.Email, start.Checkout.ID, payments.Submission{PaymentMethodID: "pm"})
	assert.ErrorIs(t, err, payments.ErrCheckoutNotFound)
	assert.Zero(t, h.proc.calls.Load())
}
