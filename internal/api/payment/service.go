package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"artison-api/config"
	"artison-api/internal/api/apierr"
	"artison-api/internal/domain/billing"
	"artison-api/internal/domain/users"
	"artison-api/internal/infra/stripe"

	"gorm.io/gorm"
)

const (
	defaultPayoutInterval  = "manual"
	defaultPayoutDelayDays = 7
)

var errAccountNotFound = apierr.New(apierr.ErrNotFound, "Stripe account not found")

type Service struct {
	db       *gorm.DB
	provider stripe.Provider
	cfg      *config.Config
	logger   *slog.Logger
}

func NewService(db *gorm.DB, provider stripe.Provider, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{db: db, provider: provider, cfg: cfg, logger: logger}
}

// CreateOnboardingLink makes sure the creator has a connected account and
// returns a fresh onboarding link for it.
func (s *Service) CreateOnboardingLink(ctx context.Context, user users.User, returnURL, refreshURL string) (ConnectLink, error) {
	account, err := s.ensureAccount(ctx, user)
	if err != nil {
		return ConnectLink{}, err
	}

	link, err := s.provider.CreateAccountLink(ctx, account.StripeAccountID, refreshURL, returnURL)
	if err != nil {
		s.logger.Error("account link failed", "user_id", user.ID, "error", err)
		return ConnectLink{}, apierr.New(apierr.ErrProvider, "Failed to create onboarding link")
	}
	return ConnectLink{URL: link.URL, ExpiresAt: link.ExpiresAt}, nil
}

// ensureAccount returns the stored account or creates one at the provider.
// When two requests race, the loser of the insert re-reads the winner's row.
func (s *Service) ensureAccount(ctx context.Context, user users.User) (billing.PaymentAccount, error) {
	db := s.db.WithContext(ctx)

	account, err := s.findAccount(db, user.ID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apierr.ErrNotFound) {
		return billing.PaymentAccount{}, err
	}

	remote, err := s.provider.CreateExpressAccount(ctx, stripe.AccountParams{
		Email:       user.Email,
		Country:     s.cfg.Stripe.ConnectCountry,
		Currency:    s.cfg.Support.Currency,
		BusinessURL: fmt.Sprintf("%s/creator/%s", s.cfg.Server.FrontendURL, user.Username),
		UserID:      user.ID,
	})
	if err != nil {
		s.logger.Error("connected account creation failed", "user_id", user.ID, "error", err)
		return billing.PaymentAccount{}, apierr.New(apierr.ErrProvider, "Failed to create onboarding link")
	}

	account = billing.PaymentAccount{
		UserID:           user.ID,
		StripeAccountID:  remote.ID,
		ChargesEnabled:   remote.ChargesEnabled,
		PayoutsEnabled:   remote.PayoutsEnabled,
		DetailsSubmitted: remote.DetailsSubmitted,
		Country:          s.cfg.Stripe.ConnectCountry,
		DefaultCurrency:  s.cfg.Support.Currency,
	}
	if err := db.Create(&account).Error; err != nil {
		// Another request stored an account first: keep theirs.
		if stored, findErr := s.findAccount(db, user.ID); findErr == nil {
			s.logger.Warn("connected account created concurrently, using stored row",
				"user_id", user.ID, "orphaned_account", remote.ID, "error", err)
			return stored, nil
		}
		return billing.PaymentAccount{}, fmt.Errorf("store payment account: %w", err)
	}

	s.logger.Info("connected account created", "user_id", user.ID, "stripe_account_id", remote.ID)
	return account, nil
}

// AccountStatus refreshes the capability flags from the provider. Provider
// errors are logged and the last known local state is returned.
func (s *Service) AccountStatus(ctx context.Context, userID string) (AccountStatus, error) {
	db := s.db.WithContext(ctx)

	account, err := s.findAccount(db, userID)
	if err != nil {
		return AccountStatus{}, err
	}

	remote, err := s.provider.GetAccount(ctx, account.StripeAccountID)
	if err != nil {
		s.logger.Warn("account refresh failed, serving stored state", "user_id", userID, "error", err)
	} else if err := s.overwriteFlags(db, &account, remote); err != nil {
		return AccountStatus{}, err
	}

	return toStatus(account), nil
}

// UpdatePayoutSettings changes the payout schedule. The delay is not sent
// for manual payouts.
func (s *Service) UpdatePayoutSettings(ctx context.Context, userID, interval string, delayDays int64) error {
	account, err := s.findAccount(s.db.WithContext(ctx), userID)
	if err != nil {
		if errors.Is(err, apierr.ErrNotFound) {
			return apierr.New(apierr.ErrValidation, "Failed to update payout settings")
		}
		return err
	}

	if interval == "" {
		interval = defaultPayoutInterval
	}
	err = s.provider.UpdatePayoutSchedule(ctx, account.StripeAccountID, stripe.PayoutSchedule{
		Interval:  interval,
		DelayDays: delayDays,
	})
	if err != nil {
		s.logger.Warn("payout schedule update failed", "user_id", userID, "error", err)
		return apierr.New(apierr.ErrValidation, "Failed to update payout settings")
	}
	return nil
}

// HandleAccountUpdated re-fetches an account named by a connect webhook.
// Unknown accounts are ignored.
func (s *Service) HandleAccountUpdated(ctx context.Context, stripeAccountID string) error {
	db := s.db.WithContext(ctx)

	var account billing.PaymentAccount
	err := db.Where("stripe_account_id = ?", stripeAccountID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("account.updated for unknown account", "stripe_account_id", stripeAccountID)
			return nil
		}
		return fmt.Errorf("load payment account: %w", err)
	}

	remote, err := s.provider.GetAccount(ctx, stripeAccountID)
	if err != nil {
		s.logger.Warn("account refresh from webhook failed", "stripe_account_id", stripeAccountID, "error", err)
		return nil
	}
	return s.overwriteFlags(db, &account, remote)
}

func (s *Service) overwriteFlags(db *gorm.DB, account *billing.PaymentAccount, remote stripe.Account) error {
	account.ChargesEnabled = remote.ChargesEnabled
	account.PayoutsEnabled = remote.PayoutsEnabled
	account.DetailsSubmitted = remote.DetailsSubmitted

	if err := db.Model(&billing.PaymentAccount{}).
		Where("user_id = ?", account.UserID).
		Updates(map[string]interface{}{
			"charges_enabled":   account.ChargesEnabled,
			"payouts_enabled":   account.PayoutsEnabled,
			"details_submitted": account.DetailsSubmitted,
		}).Error; err != nil {
		return fmt.Errorf("update payment account: %w", err)
	}
	return nil
}

func (s *Service) findAccount(db *gorm.DB, userID string) (billing.PaymentAccount, error) {
	var account billing.PaymentAccount
	if err := db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.PaymentAccount{}, errAccountNotFound
		}
		return billing.PaymentAccount{}, fmt.Errorf("load payment account: %w", err)
	}
	return account, nil
}

func toStatus(a billing.PaymentAccount) AccountStatus {
	return AccountStatus{
		PaymentAccount: a,
		State: stripe.NormalizeAccountState(&stripe.Account{
			ID:               a.StripeAccountID,
			ChargesEnabled:   a.ChargesEnabled,
			PayoutsEnabled:   a.PayoutsEnabled,
			DetailsSubmitted: a.DetailsSubmitted,
		}),
	}
}
