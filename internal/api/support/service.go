package support

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"artison-api/config"
	"artison-api/internal/api/apierr"
	"artison-api/internal/domain/billing"
	"artison-api/internal/domain/creators"
	"artison-api/internal/domain/users"
	"artison-api/internal/infra/cache"
	"artison-api/internal/infra/stripe"

	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	provider stripe.Provider
	cache    cache.StatsCache
	cfg      *config.Config
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, provider stripe.Provider, statsCache cache.StatsCache, cfg *config.Config, logger *slog.Logger) *Service {
	if statsCache == nil {
		statsCache = cache.Noop{}
	}
	return &Service{
		db:       db,
		provider: provider,
		cache:    statsCache,
		cfg:      cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) PublishableKey() string {
	return s.cfg.Stripe.PublishableKey
}

// CreateCheckout records a pending support and opens a hosted checkout for
// it. Every local check runs before the provider is called.
func (s *Service) CreateCheckout(ctx context.Context, supporter users.User, creatorUsername string, in CheckoutRequest) (CheckoutResponse, error) {
	db := s.db.WithContext(ctx)

	var creator users.User
	if err := db.Where("username = ?", creatorUsername).First(&creator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CheckoutResponse{}, apierr.New(apierr.ErrNotFound, "Creator not found")
		}
		return CheckoutResponse{}, fmt.Errorf("load creator: %w", err)
	}
	if creator.ID == supporter.ID {
		return CheckoutResponse{}, apierr.New(apierr.ErrValidation, "You cannot support yourself")
	}
	if in.Amount < s.cfg.Support.MinimumAmount {
		return CheckoutResponse{}, apierr.Newf(apierr.ErrValidation, "Minimum support amount is %d %s",
			s.cfg.Support.MinimumAmount, strings.ToUpper(s.cfg.Support.Currency))
	}

	var profile creators.CreatorProfile
	if err := db.Where("user_id = ?", creator.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CheckoutResponse{}, apierr.New(apierr.ErrValidation, "Creator profile not found")
		}
		return CheckoutResponse{}, fmt.Errorf("load creator profile: %w", err)
	}

	var destination string
	var account billing.PaymentAccount
	err := db.Where("user_id = ?", creator.ID).First(&account).Error
	switch {
	case err == nil && account.ChargesEnabled:
		destination = account.StripeAccountID
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return CheckoutResponse{}, fmt.Errorf("load payment account: %w", err)
	}

	support := billing.Support{
		SupporterID:   supporter.ID,
		CreatorID:     creator.ID,
		Amount:        in.Amount,
		PlatformFee:   billing.PlatformFee(in.Amount, s.cfg.Support.PlatformFeePercent),
		Currency:      s.cfg.Support.Currency,
		Message:       in.Message,
		PaymentStatus: billing.SupportPending,
	}
	if err := db.Create(&support).Error; err != nil {
		return CheckoutResponse{}, fmt.Errorf("create support: %w", err)
	}

	params := stripe.CheckoutParams{
		SupportID:     support.ID,
		SupporterID:   supporter.ID,
		CreatorID:     creator.ID,
		Amount:        support.Amount,
		Currency:      support.Currency,
		ProductName:   "Support for " + profile.DisplayName,
		Description:   "One-time support for @" + creator.Username,
		SuccessURL:    in.SuccessURL,
		CancelURL:     in.CancelURL,
		CustomerEmail: supporter.Email,
	}
	if destination != "" {
		params.DestinationAccount = destination
		params.ApplicationFee = support.PlatformFee
	}

	session, err := s.provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		s.logger.Error("checkout session failed", "support_id", support.ID, "error", err)
		s.markFailed(ctx, support.ID)
		return CheckoutResponse{}, apierr.New(apierr.ErrProvider, "Failed to create checkout session")
	}

	if err := db.Model(&billing.Support{}).
		Where("id = ?", support.ID).
		Update("stripe_checkout_session_id", session.ID).Error; err != nil {
		return CheckoutResponse{}, fmt.Errorf("store checkout session: %w", err)
	}

	s.logger.Info("checkout session created",
		"support_id", support.ID, "creator_id", creator.ID, "amount", support.Amount,
		"destination_charge", destination != "")
	return CheckoutResponse{CheckoutURL: session.URL, SessionID: session.ID}, nil
}

// markFailed moves a support to FAILED when its status allows it. The update
// is conditional on the status read so a concurrent completion wins.
func (s *Service) markFailed(ctx context.Context, supportID string) {
	db := s.db.WithContext(ctx)

	var support billing.Support
	if err := db.First(&support, "id = ?", supportID).Error; err != nil {
		s.logger.Error("mark support failed", "support_id", supportID, "error", err)
		return
	}
	if !support.PaymentStatus.CanFail() {
		s.logger.Warn("support not failed, status is final",
			"support_id", supportID, "status", support.PaymentStatus)
		return
	}

	err := db.Model(&billing.Support{}).
		Where("id = ? AND payment_status = ?", supportID, support.PaymentStatus).
		Update("payment_status", billing.SupportFailed).Error
	if err != nil {
		s.logger.Error("mark support failed", "support_id", supportID, "error", err)
	}
}

// HandleCheckoutCompleted applies a completion event to the support named by
// the session's client reference. Unknown references are ignored and a
// failed or refunded support is never moved. Re-delivery re-applies the same
// assignment; events are not deduplicated.
func (s *Service) HandleCheckoutCompleted(ctx context.Context, session CompletedSession) (*billing.Support, error) {
	if session.ClientReferenceID == "" {
		s.logger.Warn("completed session without client reference", "session_id", session.ID)
		return nil, nil
	}
	db := s.db.WithContext(ctx)

	var support billing.Support
	if err := db.Where("id = ?", session.ClientReferenceID).First(&support).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("completed session for unknown support",
				"session_id", session.ID, "support_id", session.ClientReferenceID)
			return nil, nil
		}
		return nil, fmt.Errorf("load support: %w", err)
	}

	if !support.PaymentStatus.CanComplete() {
		s.logger.Warn("completion ignored for settled support",
			"support_id", support.ID, "status", support.PaymentStatus)
		return &support, nil
	}
	if session.AmountTotal != 0 && session.AmountTotal != support.Amount {
		s.logger.Warn("completed amount differs from support amount",
			"support_id", support.ID, "expected", support.Amount, "reported", session.AmountTotal)
	}

	completedAt := s.now()
	updates := map[string]interface{}{
		"payment_status": billing.SupportCompleted,
		"completed_at":   completedAt,
	}
	if session.PaymentIntentID != "" {
		updates["stripe_payment_intent_id"] = session.PaymentIntentID
	}

	res := db.Model(&billing.Support{}).
		Where("id = ? AND payment_status IN ?", support.ID,
			[]billing.SupportStatus{billing.SupportPending, billing.SupportCompleted}).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("complete support: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &support, nil
	}

	support.PaymentStatus = billing.SupportCompleted
	support.CompletedAt = &completedAt
	if session.PaymentIntentID != "" {
		support.StripePaymentIntentID = &session.PaymentIntentID
	}

	s.cache.Invalidate(ctx, support.CreatorID)
	s.logger.Info("support completed", "support_id", support.ID, "creator_id", support.CreatorID, "amount", support.Amount)
	return &support, nil
}

// GetSupport returns a support to its supporter or its creator.
func (s *Service) GetSupport(ctx context.Context, userID, supportID string) (SupportWithUsers, error) {
	var support billing.Support
	if err := s.db.WithContext(ctx).Where("id = ?", supportID).First(&support).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SupportWithUsers{}, apierr.New(apierr.ErrNotFound, "Support not found")
		}
		return SupportWithUsers{}, fmt.Errorf("load support: %w", err)
	}
	if support.SupporterID != userID && support.CreatorID != userID {
		return SupportWithUsers{}, apierr.New(apierr.ErrForbidden, "Not allowed to view this support")
	}

	withUsers, err := s.attachUsers(ctx, []billing.Support{support})
	if err != nil {
		return SupportWithUsers{}, err
	}
	return withUsers[0], nil
}
