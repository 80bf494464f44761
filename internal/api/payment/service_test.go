package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"artison-api/config"
	"artison-api/database/databasetest"
	"artison-api/internal/api/apierr"
	"artison-api/internal/domain/billing"
	"artison-api/internal/domain/users"
	"artison-api/internal/infra/stripe"
	"artison-api/internal/infra/stripe/stripetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{FrontendURL: "http://localhost:5173"},
		Stripe:  config.StripeConfig{ConnectCountry: "JP"},
		Support: config.SupportConfig{Currency: "jpy", MinimumAmount: 150, PlatformFeePercent: 10},
	}
}

func setup(t *testing.T, provider stripe.Provider) (*Service, *gorm.DB) {
	t.Helper()
	db := databasetest.New(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(db, provider, testConfig(), logger), db
}

func createCreator(t *testing.T, db *gorm.DB) users.User {
	t.Helper()
	u := users.User{Email: "mika@example.com", Username: "mika", HashedPassword: "x", IsActive: true, IsCreator: true}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestCreateOnboardingLinkCreatesAccountOnce(t *testing.T) {
	fake := stripetest.NewFake()
	svc, db := setup(t, fake)
	ctx := context.Background()
	creator := createCreator(t, db)

	link, err := svc.CreateOnboardingLink(ctx, creator, "http://localhost:5173/done", "http://localhost:5173/retry")
	require.NoError(t, err)
	assert.Contains(t, link.URL, "acct_test_1")
	assert.False(t, link.ExpiresAt.IsZero())

	var stored billing.PaymentAccount
	require.NoError(t, db.First(&stored, "user_id = ?", creator.ID).Error)
	assert.Equal(t, "acct_test_1", stored.StripeAccountID)
	assert.Equal(t, "JP", stored.Country)
	assert.Equal(t, "jpy", stored.DefaultCurrency)

	_, err = svc.CreateOnboardingLink(ctx, creator, "http://localhost:5173/done", "http://localhost:5173/retry")
	require.NoError(t, err)
	assert.Len(t, fake.Accounts, 1)
	assert.Equal(t, []string{"acct_test_1", "acct_test_1"}, fake.Links)
}

func TestCreateOnboardingLinkProviderFailure(t *testing.T) {
	fake := stripetest.NewFake()
	fake.CreateAccountErr = errors.New("stripe down")
	svc, db := setup(t, fake)
	creator := createCreator(t, db)

	_, err := svc.CreateOnboardingLink(context.Background(), creator, "r", "f")
	assert.ErrorIs(t, err, apierr.ErrProvider)

	var n int64
	db.Model(&billing.PaymentAccount{}).Count(&n)
	assert.Zero(t, n)
}

// racingProvider stores a competing account row while the provider call is in flight.
type racingProvider struct {
	*stripetest.Fake
	db     *gorm.DB
	userID string
}

func (p *racingProvider) CreateExpressAccount(ctx context.Context, params stripe.AccountParams) (stripe.Account, error) {
	winner := billing.PaymentAccount{UserID: p.userID, StripeAccountID: "acct_winner", Country: "JP", DefaultCurrency: "jpy"}
	if err := p.db.Create(&winner).Error; err != nil {
		return stripe.Account{}, err
	}
	return p.Fake.CreateExpressAccount(ctx, params)
}

func TestCreateOnboardingLinkLosesAccountRace(t *testing.T) {
	db := databasetest.New(t)
	creator := createCreator(t, db)
	provider := &racingProvider{Fake: stripetest.NewFake(), db: db, userID: creator.ID}
	svc := NewService(db, provider, testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.CreateOnboardingLink(context.Background(), creator, "r", "f")
	require.NoError(t, err)
	assert.Equal(t, []string{"acct_winner"}, provider.Links)
}

func TestAccountStatusRefreshes(t *testing.T) {
	fake := stripetest.NewFake()
	svc, db := setup(t, fake)
	ctx := context.Background()
	creator := createCreator(t, db)
	_, err := svc.CreateOnboardingLink(ctx, creator, "r", "f")
	require.NoError(t, err)

	fake.SetAccount(stripe.Account{ID: "acct_test_1", ChargesEnabled: true, PayoutsEnabled: true, DetailsSubmitted: true})

	status, err := svc.AccountStatus(ctx, creator.ID)
	require.NoError(t, err)
	assert.True(t, status.ChargesEnabled)
	assert.True(t, status.PayoutsEnabled)
	assert.Equal(t, stripe.AccountStateActive, status.State)

	var stored billing.PaymentAccount
	require.NoError(t, db.First(&stored, "user_id = ?", creator.ID).Error)
	assert.True(t, stored.ChargesEnabled)
}

func TestAccountStatusSwallowsProviderError(t *testing.T) {
	fake := stripetest.NewFake()
	svc, db := setup(t, fake)
	ctx := context.Background()
	creator := createCreator(t, db)
	_, err := svc.CreateOnboardingLink(ctx, creator, "r", "f")
	require.NoError(t, err)

	fake.GetAccountErr = errors.New("timeout")
	status, err := svc.AccountStatus(ctx, creator.ID)
	require.NoError(t, err)
	assert.False(t, status.ChargesEnabled)
	assert.Equal(t, stripe.AccountStatePending, status.State)
}

func TestAccountStatusWithoutAccount(t *testing.T) {
	svc, db := setup(t, stripetest.NewFake())
	creator := createCreator(t, db)

	_, err := svc.AccountStatus(context.Background(), creator.ID)
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestUpdatePayoutSettings(t *testing.T) {
	fake := stripetest.NewFake()
	svc, db := setup(t, fake)
	ctx := context.Background()
	creator := createCreator(t, db)

	err := svc.UpdatePayoutSettings(ctx, creator.ID, "weekly", 7)
	assert.ErrorIs(t, err, apierr.ErrValidation)

	_, err = svc.CreateOnboardingLink(ctx, creator, "r", "f")
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePayoutSettings(ctx, creator.ID, "weekly", 3))
	assert.Equal(t, stripe.PayoutSchedule{Interval: "weekly", DelayDays: 3}, fake.Schedules["acct_test_1"])

	require.NoError(t, svc.UpdatePayoutSettings(ctx, creator.ID, "", 7))
	assert.Equal(t, "manual", fake.Schedules["acct_test_1"].Interval)

	fake.UpdatePayoutErr = errors.New("invalid interval")
	assert.ErrorIs(t, svc.UpdatePayoutSettings(ctx, creator.ID, "daily", 2), apierr.ErrValidation)
}

func TestHandleAccountUpdated(t *testing.T) {
	fake := stripetest.NewFake()
	svc, db := setup(t, fake)
	ctx := context.Background()
	creator := createCreator(t, db)
	_, err := svc.CreateOnboardingLink(ctx, creator, "r", "f")
	require.NoError(t, err)

	require.NoError(t, svc.HandleAccountUpdated(ctx, "acct_unknown"))

	fake.SetAccount(stripe.Account{ID: "acct_test_1", DetailsSubmitted: true, ChargesEnabled: true})
	require.NoError(t, svc.HandleAccountUpdated(ctx, "acct_test_1"))

	var stored billing.PaymentAccount
	require.NoError(t, db.First(&stored, "user_id = ?", creator.ID).Error)
	assert.True(t, stored.DetailsSubmitted)
	assert.True(t, stored.ChargesEnabled)
	assert.False(t, stored.PayoutsEnabled)
}
