package stripewebhooks

import (
	"artison-api/internal/api/support"

	"github.com/gin-gonic/gin"
	stripego "github.com/stripe/stripe-go/v75"
)

func completedSession(session *stripego.CheckoutSession) support.CompletedSession {
	completed := support.CompletedSession{
		ID:                session.ID,
		ClientReferenceID: session.ClientReferenceID,
		AmountTotal:       session.AmountTotal,
	}
	if session.PaymentIntent != nil {
		completed.PaymentIntentID = session.PaymentIntent.ID
	}
	return completed
}

func (h *Handler) handleCheckoutSessionCompleted(c *gin.Context, session *stripego.CheckoutSession) error {
	_, err := h.support.HandleCheckoutCompleted(c.Request.Context(), completedSession(session))
	return err
}
