package stripe

import (
	"context"
	"fmt"
	"time"

	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// mccDigitalGoods is the merchant category for digital goods and media.
const mccDigitalGoods = "5815"

// Client implements Provider on a per-instance Stripe API client so no
// process-wide key is set.
type Client struct {
	api *client.API
}

func NewClient(secretKey string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api}
}

func (c *Client) CreateExpressAccount(ctx context.Context, p AccountParams) (Account, error) {
	params := &stripego.AccountParams{
		Type:            stripego.String(string(stripego.AccountTypeExpress)),
		Country:         stripego.String(p.Country),
		Email:           stripego.String(p.Email),
		DefaultCurrency: stripego.String(p.Currency),
		BusinessType:    stripego.String(string(stripego.AccountBusinessTypeIndividual)),
		Capabilities: &stripego.AccountCapabilitiesParams{
			CardPayments: &stripego.AccountCapabilitiesCardPaymentsParams{Requested: stripego.Bool(true)},
			Transfers:    &stripego.AccountCapabilitiesTransfersParams{Requested: stripego.Bool(true)},
		},
		BusinessProfile: &stripego.AccountBusinessProfileParams{
			URL: stripego.String(p.BusinessURL),
			MCC: stripego.String(mccDigitalGoods),
		},
	}
	params.Context = ctx
	params.AddMetadata("user_id", p.UserID)

	acct, err := c.api.Accounts.New(params)
	if err != nil {
		return Account{}, fmt.Errorf("create express account: %w", err)
	}
	return toAccount(acct), nil
}

func (c *Client) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (AccountLink, error) {
	params := &stripego.AccountLinkParams{
		Account:    stripego.String(accountID),
		RefreshURL: stripego.String(refreshURL),
		ReturnURL:  stripego.String(returnURL),
		Type:       stripego.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := c.api.AccountLinks.New(params)
	if err != nil {
		return AccountLink{}, fmt.Errorf("create account link: %w", err)
	}
	return AccountLink{URL: link.URL, ExpiresAt: time.Unix(link.ExpiresAt, 0).UTC()}, nil
}

func (c *Client) GetAccount(ctx context.Context, accountID string) (Account, error) {
	params := &stripego.AccountParams{}
	params.Context = ctx

	acct, err := c.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return Account{}, fmt.Errorf("get account %s: %w", accountID, err)
	}
	return toAccount(acct), nil
}

func (c *Client) UpdatePayoutSchedule(ctx context.Context, accountID string, s PayoutSchedule) error {
	schedule := &stripego.AccountSettingsPayoutsScheduleParams{
		Interval: stripego.String(s.Interval),
	}
	if s.Interval != "manual" {
		schedule.DelayDays = stripego.Int64(s.DelayDays)
	}
	params := &stripego.AccountParams{
		Settings: &stripego.AccountSettingsParams{
			Payouts: &stripego.AccountSettingsPayoutsParams{Schedule: schedule},
		},
	}
	params.Context = ctx

	if _, err := c.api.Accounts.Update(accountID, params); err != nil {
		return fmt.Errorf("update payout schedule %s: %w", accountID, err)
	}
	return nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (CheckoutSession, error) {
	params := &stripego.CheckoutSessionParams{
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripego.String(p.Currency),
					UnitAmount: stripego.Int64(p.Amount),
					ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripego.String(p.ProductName),
						Description: stripego.String(p.Description),
					},
				},
				Quantity: stripego.Int64(1),
			},
		},
		SuccessURL:        stripego.String(p.SuccessURL),
		CancelURL:         stripego.String(p.CancelURL),
		ClientReferenceID: stripego.String(p.SupportID),
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripego.String(p.CustomerEmail)
	}
	if p.DestinationAccount != "" {
		params.PaymentIntentData = &stripego.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripego.Int64(p.ApplicationFee),
			TransferData: &stripego.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripego.String(p.DestinationAccount),
			},
		}
	}
	params.Context = ctx
	params.AddMetadata("support_id", p.SupportID)
	params.AddMetadata("supporter_id", p.SupporterID)
	params.AddMetadata("creator_id", p.CreatorID)

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	return CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func toAccount(a *stripego.Account) Account {
	return Account{
		ID:               a.ID,
		ChargesEnabled:   a.ChargesEnabled,
		PayoutsEnabled:   a.PayoutsEnabled,
		DetailsSubmitted: a.DetailsSubmitted,
		Country:          a.Country,
		DefaultCurrency:  string(a.DefaultCurrency),
	}
}
