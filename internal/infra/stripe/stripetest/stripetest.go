// Package stripetest provides an in-memory payment provider and webhook
// signing helpers for tests.
package stripetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"artison-api/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75/webhook"
)

// Fake records every call. Set the *Err fields to make the next calls fail.
type Fake struct {
	mu sync.Mutex

	Accounts  map[string]stripe.Account
	Schedules map[string]stripe.PayoutSchedule
	Checkouts []stripe.CheckoutParams
	Links     []string

	CreateAccountErr  error
	GetAccountErr     error
	UpdatePayoutErr   error
	CreateCheckoutErr error
	CreateLinkErr     error

	calls int
	seq   int
}

var _ stripe.Provider = (*Fake)(nil)

func NewFake() *Fake {
	return &Fake{
		Accounts:  map[string]stripe.Account{},
		Schedules: map[string]stripe.PayoutSchedule{},
	}
}

// Calls is the total number of provider calls made.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// SetAccount replaces the provider-side state of an account.
func (f *Fake) SetAccount(a stripe.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Accounts[a.ID] = a
}

func (f *Fake) CreateExpressAccount(ctx context.Context, p stripe.AccountParams) (stripe.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.CreateAccountErr != nil {
		return stripe.Account{}, f.CreateAccountErr
	}
	f.seq++
	a := stripe.Account{
		ID:              fmt.Sprintf("acct_test_%d", f.seq),
		Country:         p.Country,
		DefaultCurrency: p.Currency,
	}
	f.Accounts[a.ID] = a
	return a, nil
}

func (f *Fake) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (stripe.AccountLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.CreateLinkErr != nil {
		return stripe.AccountLink{}, f.CreateLinkErr
	}
	f.Links = append(f.Links, accountID)
	return stripe.AccountLink{
		URL:       "https://connect.stripe.test/setup/" + accountID,
		ExpiresAt: time.Now().Add(5 * time.Minute).UTC(),
	}, nil
}

func (f *Fake) GetAccount(ctx context.Context, accountID string) (stripe.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.GetAccountErr != nil {
		return stripe.Account{}, f.GetAccountErr
	}
	a, ok := f.Accounts[accountID]
	if !ok {
		return stripe.Account{}, fmt.Errorf("no such account: %s", accountID)
	}
	return a, nil
}

func (f *Fake) UpdatePayoutSchedule(ctx context.Context, accountID string, s stripe.PayoutSchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.UpdatePayoutErr != nil {
		return f.UpdatePayoutErr
	}
	f.Schedules[accountID] = s
	return nil
}

func (f *Fake) CreateCheckoutSession(ctx context.Context, p stripe.CheckoutParams) (stripe.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.CreateCheckoutErr != nil {
		return stripe.CheckoutSession{}, f.CreateCheckoutErr
	}
	f.seq++
	f.Checkouts = append(f.Checkouts, p)
	id := fmt.Sprintf("cs_test_%d", f.seq)
	return stripe.CheckoutSession{ID: id, URL: "https://checkout.stripe.test/pay/" + id}, nil
}

// SignatureHeader builds a Stripe-Signature header for payload.
func SignatureHeader(payload []byte, secret string, at time.Time) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: at,
	})
	return signed.Header
}

// EventPayload wraps object as the data of a webhook event of eventType.
func EventPayload(eventType string, object string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":"evt_test","object":"event","api_version":"2023-08-16","created":%d,"type":%q,"data":{"object":%s}}`,
		time.Now().Unix(), eventType, object,
	))
}
