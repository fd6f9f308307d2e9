// Package checkout serves the payment surface for club memberships and
// paid events and finishes the enrollment once the payment is recorded.
package checkout

import (
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/clubsphere/internal/app/features/errors"
	"github.com/dalemusser/clubsphere/internal/app/system/auth"
	"github.com/dalemusser/clubsphere/internal/app/system/enrollment"
	"github.com/dalemusser/clubsphere/internal/app/system/formutil"
	"github.com/dalemusser/clubsphere/internal/app/system/payments"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler holds dependencies for the checkout pages.
type Handler struct {
	Enroll         *enrollment.Service
	PublishableKey string
	Sessions       *auth.SessionManager
	Log            *zap.Logger
}

func NewHandler(enroll *enrollment.Service, publishableKey string, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Enroll:         enroll,
		PublishableKey: publishableKey,
		Sessions:       sm,
		Log:            logger,
	}
}

type pageData struct {
	formutil.Base
	Checkout       *payments.Checkout
	PublishableKey string
	BillingName    string
	BillingEmail   string
	Paid           bool
	Unrecorded     bool
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, co *payments.Checkout, msg string) {
	data := pageData{
		Checkout:       co,
		PublishableKey: h.PublishableKey,
		Paid:           co.Status == payments.StatusPaid,
		Unrecorded:     co.Status == payments.StatusUnrecorded,
	}
	formutil.SetBase(&data.Base, w, r, "Complete Payment", co.ReturnPath)
	if u, ok := auth.CurrentUser(r); ok {
		data.BillingName = u.DisplayName()
		data.BillingEmail = u.Email
	}
	if msg != "" {
		data.SetError(msg)
	}
	templates.Render(w, r, "checkout_form", data)
}

// ServeForm handles GET /checkout/{id}.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "checkout load")
	defer cancel()

	co, err := h.Enroll.Checkout(ctx, u.Email, id)
	if err != nil {
		h.notFound(w, r, err)
		return
	}
	msg := ""
	if co.Status == payments.StatusUnrecorded {
		msg = payments.NotRecordedMessage
	}
	h.render(w, r, co, msg)
}

// HandleSubmit handles POST /checkout/{id}: confirm the charge, record it,
// then join or register. Card and confirmation errors keep the form open.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "id")
	sub := payments.Submission{
		PaymentMethodID: formutil.Value(r, "payment_method_id"),
		MethodError:     formutil.Value(r, "method_error"),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "checkout submit")
	defer cancel()

	done, err := h.Enroll.Complete(ctx, u.Email, id, sub)
	if err != nil {
		if h.Sessions.HandleAPIError(w, r, err) {
			return
		}
		co, getErr := h.Enroll.Checkout(ctx, u.Email, id)
		if getErr != nil {
			h.notFound(w, r, getErr)
			return
		}
		h.render(w, r, co, payments.UserMessage(err))
		return
	}

	if !done.Outcome.OK {
		if h.Sessions.HandleAPIError(w, r, done.Outcome.Err) {
			return
		}
		// Paid and recorded; only the enrollment write failed. The checkout
		// stays open so submitting again retries the enrollment alone.
		h.Sessions.Notify(w, r, auth.NoticeError, "Payment received, but "+enrollmentFailure(done.Info)+": "+done.Outcome.Message)
		http.Redirect(w, r, "/checkout/"+id, http.StatusSeeOther)
		return
	}

	h.Sessions.Notify(w, r, auth.NoticeSuccess, successMessage(done.Info))
	http.Redirect(w, r, done.ReturnPath, http.StatusSeeOther)
}

// HandleCancel handles POST /checkout/{id}/cancel. A checkout that was
// already charged is kept so the enrollment can still be finished.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "id")

	co, err := h.Enroll.Checkout(r.Context(), u.Email, id)
	if err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if co.Status == payments.StatusOpen {
		h.Enroll.Cancel(r.Context(), id)
		h.Sessions.Notify(w, r, auth.NoticeInfo, "Payment cancelled.")
	}
	http.Redirect(w, r, co.ReturnPath, http.StatusSeeOther)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, payments.ErrCheckoutNotFound) {
		h.Log.Warn("checkout unavailable", zap.Error(err))
	}
	errorsfeature.RenderNotFound(w, r, payments.UserMessage(payments.ErrCheckoutNotFound))
}

func successMessage(info models.PaymentInfo) string {
	if info.Type == models.PaymentEvent {
		return "Payment successful! You are registered for the event."
	}
	return "Payment successful! You have joined the club."
}

func enrollmentFailure(info models.PaymentInfo) string {
	if info.Type == models.PaymentEvent {
		return "the registration failed"
	}
	return "joining the club failed"
}
