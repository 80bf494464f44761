package billing

import (
	"math"
	"time"

	"artison-api/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupportStatus string

const (
	SupportPending   SupportStatus = "pending"
	SupportCompleted SupportStatus = "completed"
	SupportFailed    SupportStatus = "failed"
	SupportRefunded  SupportStatus = "refunded"
)

// CanComplete reports whether a completion event may be applied. A
// completed support accepts re-delivery of the same event.
func (s SupportStatus) CanComplete() bool {
	return s == SupportPending || s == SupportCompleted
}

func (s SupportStatus) CanFail() bool {
	return s == SupportPending
}

// Support is one payment from a supporter to a creator. Amounts are in the
// minor unit of Currency.
type Support struct {
	ID                      string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	SupporterID             string        `gorm:"type:varchar(36);not null;index:idx_supports_supporter_id" json:"supporter_id"`
	Supporter               *users.User   `gorm:"foreignKey:SupporterID" json:"-"`
	CreatorID               string        `gorm:"type:varchar(36);not null;index:idx_supports_creator_status,priority:1" json:"creator_id"`
	Creator                 *users.User   `gorm:"foreignKey:CreatorID" json:"-"`
	Amount                  int64         `gorm:"not null" json:"amount"`
	PlatformFee             int64         `gorm:"not null;default:0" json:"platform_fee"`
	Currency                string        `gorm:"type:varchar(3);not null" json:"currency"`
	Message                 *string       `gorm:"type:varchar(500)" json:"message"`
	StripePaymentIntentID   *string       `gorm:"type:varchar(255);uniqueIndex:idx_supports_payment_intent" json:"-"`
	StripeCheckoutSessionID *string       `gorm:"type:varchar(255);uniqueIndex:idx_supports_checkout_session" json:"-"`
	PaymentStatus           SupportStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_supports_creator_status,priority:2" json:"payment_status"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (s *Support) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// PlatformFee is the platform's cut of amount, rounded down.
func PlatformFee(amount int64, percent float64) int64 {
	if amount <= 0 || percent <= 0 {
		return 0
	}
	return int64(math.Floor(float64(amount) * percent / 100))
}
