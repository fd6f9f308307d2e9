package payments

import (
	"errors"
	"fmt"
)

// Stage names the step of the flow an error came from.
type Stage string

const (
	StageIntent  Stage = "intent"  // creating the payment intent
	StageMethod  Stage = "method"  // card widget creating the payment method
	StageConfirm Stage = "confirm" // processor confirming the charge
	StageRecord  Stage = "record"  // backend recording the payment
)

// NotRecordedMessage is shown when the charge went through but the backend
// did not record it.
const NotRecordedMessage = "Payment succeeded but failed to record. Please contact support."

var (
	// ErrNotRecorded: the processor charged the card but the backend did not
	// acknowledge the payment. It is never retried automatically.
	ErrNotRecorded = errors.New(NotRecordedMessage)
	// ErrInFlight: another submission for the same checkout is running.
	ErrInFlight = errors.New("a payment for this checkout is already being processed")
	// ErrCheckoutNotFound: unknown, expired or foreign checkout id.
	ErrCheckoutNotFound = errors.New("checkout not found or expired")
	// ErrAlreadyPaid: the checkout has already been charged.
	ErrAlreadyPaid = errors.New("this checkout has already been paid")
	// ErrNothingToPay: the amount is not positive.
	ErrNothingToPay = errors.New("nothing to pay")
)

// CardError is a user-facing failure from the card widget or the processor.
// The form is shown again with Message.
type CardError struct {
	Stage   Stage
	Code    string
	Message string
}

func (e *CardError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment %s: %s (%s)", e.Stage, e.Message, e.Code)
	}
	return fmt.Sprintf("payment %s: %s", e.Stage, e.Message)
}

// UserMessage maps any flow error to the text shown on the checkout form.
func UserMessage(err error) string {
	var ce *CardError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ce):
		return ce.Message
	case errors.Is(err, ErrNotRecorded):
		return NotRecordedMessage
	case errors.Is(err, ErrInFlight):
		return "Your payment is already being processed."
	case errors.Is(err, ErrCheckoutNotFound):
		return "This checkout has expired. Please start again."
	case errors.Is(err, ErrAlreadyPaid):
		return "This checkout has already been paid."
	default:
		return "Payment failed. Please try again."
	}
}
