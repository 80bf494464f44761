package billing

import (
	"time"

	"artison-api/internal/domain/users"
)

// PaymentAccount mirrors a creator's connected account at the payment
// provider. The provider is the source of truth for the capability flags.
type PaymentAccount struct {
	UserID           string      `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	User             *users.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	StripeAccountID  string      `gorm:"type:varchar(255);not null;uniqueIndex:idx_payment_accounts_stripe_account_id" json:"stripe_account_id"`
	ChargesEnabled   bool        `gorm:"not null;default:false" json:"charges_enabled"`
	PayoutsEnabled   bool        `gorm:"not null;default:false" json:"payouts_enabled"`
	DetailsSubmitted bool        `gorm:"not null;default:false" json:"details_submitted"`
	Country          string      `gorm:"type:varchar(2);not null" json:"country"`
	DefaultCurrency  string      `gorm:"type:varchar(3);not null" json:"default_currency"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
