package stripe

import (
	"errors"
	"fmt"

	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

var (
	ErrMissingSignature = errors.New("no signature header")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidPayload   = errors.New("invalid payload")
)

// VerifyEvent checks the Stripe-Signature header against secret and decodes
// the event. API version mismatches are tolerated.
func VerifyEvent(payload []byte, header, secret string) (stripego.Event, error) {
	if header == "" {
		return stripego.Event{}, ErrMissingSignature
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		header,
		secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err == nil {
		return event, nil
	}

	switch {
	case errors.Is(err, webhook.ErrNotSigned):
		return stripego.Event{}, ErrMissingSignature
	case errors.Is(err, webhook.ErrNoValidSignature),
		errors.Is(err, webhook.ErrInvalidHeader),
		errors.Is(err, webhook.ErrTooOld):
		return stripego.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	default:
		return stripego.Event{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
}
