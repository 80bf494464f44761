package payment

import (
	"time"

	"artison-api/internal/domain/billing"
)

type ConnectLinkRequest struct {
	ReturnURL  string `json:"return_url" binding:"required"`
	RefreshURL string `json:"refresh_url" binding:"required"`
}

type ConnectLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PayoutSettingsRequest struct {
	ScheduleInterval  string `json:"schedule_interval" binding:"omitempty,oneof=manual daily weekly monthly"`
	ScheduleDelayDays *int64 `json:"schedule_delay_days" binding:"omitempty,min=0,max=365"`
}

// AccountStatus is the local copy of a connected account plus its folded state.
type AccountStatus struct {
	billing.PaymentAccount
	State string `json:"state"`
}
