package support

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

// CreateCheckout expects the creator's username in the creator_username query parameter.
func (h *Handler) CreateCheckout(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	creatorUsername := c.Query("creator_username")
	if creatorUsername == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "creator_username is required"})
		return
	}

	var input CheckoutRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.svc.CreateCheckout(c.Request.Context(), user, creatorUsername, input)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Received(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	summary, err := h.svc.ReceivedSummary(c.Request.Context(), user)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) Given(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	summary, err := h.svc.GivenSummary(c.Request.Context(), user)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) CreatorStats(c *gin.Context) {
	stats, err := h.svc.PublicStats(c.Request.Context(), c.Param("username"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) StripeConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publishable_key": h.svc.PublishableKey()})
}

func (h *Handler) GetSupport(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	support, err := h.svc.GetSupport(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, support)
}
