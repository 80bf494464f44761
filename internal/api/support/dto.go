package support

import (
	"artison-api/internal/domain/billing"
)

type CheckoutRequest struct {
	Amount     int64   `json:"amount" binding:"required,gt=0"`
	Message    *string `json:"message" binding:"omitempty,max=500"`
	SuccessURL string  `json:"success_url" binding:"required"`
	CancelURL  string  `json:"cancel_url" binding:"required"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

// CompletedSession is the part of a completed checkout session the
// reconciliation needs.
type CompletedSession struct {
	ID                string
	ClientReferenceID string
	PaymentIntentID   string
	AmountTotal       int64
}

type SupportWithUsers struct {
	billing.Support
	SupporterUsername  string `json:"supporter_username"`
	CreatorUsername    string `json:"creator_username"`
	CreatorDisplayName string `json:"creator_display_name"`
}

type SupportStats struct {
	TotalSupporters int64              `json:"total_supporters"`
	TotalAmount     int64              `json:"total_amount"`
	RecentSupports  []SupportWithUsers `json:"recent_supports"`
}

type CreatorSupportSummary struct {
	TotalReceived  int64              `json:"total_received"`
	SupporterCount int64              `json:"supporter_count"`
	RecentSupports []SupportWithUsers `json:"recent_supports"`
}

type SupporterSummary struct {
	TotalGiven     int64              `json:"total_given"`
	CreatorCount   int64              `json:"creator_count"`
	RecentSupports []SupportWithUsers `json:"recent_supports"`
}
