package stripewebhooks

import (
	"github.com/gin-gonic/gin"
	stripego "github.com/stripe/stripe-go/v75"
)

// The event payload is not trusted for the flags: the account is re-fetched.
func (h *Handler) handleAccountUpdated(c *gin.Context, account *stripego.Account) error {
	return h.payment.HandleAccountUpdated(c.Request.Context(), account.ID)
}
