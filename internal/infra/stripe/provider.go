// Package stripe adapts the Stripe API to the operations the platform needs.
package stripe

import (
	"context"
	"time"
)

// Provider is the subset of the payment provider used by the services.
type Provider interface {
	CreateExpressAccount(ctx context.Context, params AccountParams) (Account, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (AccountLink, error)
	GetAccount(ctx context.Context, accountID string) (Account, error)
	UpdatePayoutSchedule(ctx context.Context, accountID string, schedule PayoutSchedule) error
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (CheckoutSession, error)
}

type AccountParams struct {
	Email       string
	Country     string
	Currency    string
	BusinessURL string
	UserID      string
}

type Account struct {
	ID               string
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
	Country          string
	DefaultCurrency  string
}

type AccountLink struct {
	URL       string
	ExpiresAt time.Time
}

// PayoutSchedule.DelayDays is ignored for the manual interval.
type PayoutSchedule struct {
	Interval  string
	DelayDays int64
}

// CheckoutParams describes a one-time payment. An empty DestinationAccount
// makes a plain platform charge with no application fee.
type CheckoutParams struct {
	SupportID          string
	SupporterID        string
	CreatorID          string
	Amount             int64
	Currency           string
	ProductName        string
	Description        string
	SuccessURL         string
	CancelURL          string
	CustomerEmail      string
	DestinationAccount string
	ApplicationFee     int64
}

type CheckoutSession struct {
	ID  string
	URL string
}
