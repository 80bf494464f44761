package payment

import (
	"net/http"

	"artison-api/internal/api/apierr"
	"artison-api/internal/api/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateOnboardingLink also serves the refresh route: a new link is
// created either way.
func (h *Handler) CreateOnboardingLink(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	var input ConnectLinkRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.svc.CreateOnboardingLink(c.Request.Context(), user, input.ReturnURL, input.RefreshURL)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *Handler) GetStatus(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	status, err := h.svc.AccountStatus(c.Request.Context(), user.ID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) UpdatePayoutSettings(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	var input PayoutSettingsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	delay := int64(defaultPayoutDelayDays)
	if input.ScheduleDelayDays != nil {
		delay = *input.ScheduleDelayDays
	}

	if err := h.svc.UpdatePayoutSettings(c.Request.Context(), user.ID, input.ScheduleInterval, delay); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payout settings updated successfully"})
}
