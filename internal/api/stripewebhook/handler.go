package stripewebhooks

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"artison-api/internal/api/payment"
	"artison-api/internal/api/support"
	"artison-api/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	stripego "github.com/stripe/stripe-go/v75"
)

const maxBodyBytes = 65536

// Handler receives the two signed Stripe endpoints: support payments and
// connected account updates. Each has its own signing secret.
type Handler struct {
	support       *support.Service
	payment       *payment.Service
	supportSecret string
	connectSecret string
	logger        *slog.Logger
}

func NewHandler(supportSvc *support.Service, paymentSvc *payment.Service, supportSecret, connectSecret string, logger *slog.Logger) *Handler {
	return &Handler{
		support:       supportSvc,
		payment:       paymentSvc,
		supportSecret: supportSecret,
		connectSecret: connectSecret,
		logger:        logger,
	}
}

// SupportWebhook handles checkout.session.completed.
func (h *Handler) SupportWebhook(c *gin.Context) {
	event, ok := h.verify(c, h.supportSecret)
	if !ok {
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripego.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
			return
		}
		if err := h.handleCheckoutSessionCompleted(c, &session); err != nil {
			h.logger.Error("checkout completion failed", "event_id", event.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	default:
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

// ConnectWebhook handles account.updated for connected accounts.
func (h *Handler) ConnectWebhook(c *gin.Context) {
	event, ok := h.verify(c, h.connectSecret)
	if !ok {
		return
	}

	switch event.Type {
	case "account.updated":
		var account stripego.Account
		if err := json.Unmarshal(event.Data.Raw, &account); err != nil || account.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse account"})
			return
		}
		if err := h.handleAccountUpdated(c, &account); err != nil {
			h.logger.Error("account update failed", "event_id", event.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	default:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

func (h *Handler) verify(c *gin.Context, secret string) (stripego.Event, bool) {
	if secret == "" {
		h.logger.Error("webhook secret not configured", "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
		return stripego.Event{}, false
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return stripego.Event{}, false
	}

	event, err := stripe.VerifyEvent(payload, c.GetHeader("Stripe-Signature"), secret)
	if err != nil {
		h.logger.Warn("webhook rejected", "path", c.FullPath(), "error", err)
		msg := "Invalid payload"
		switch {
		case errors.Is(err, stripe.ErrMissingSignature):
			msg = "No signature header"
		case errors.Is(err, stripe.ErrInvalidSignature):
			msg = "Invalid signature"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return stripego.Event{}, false
	}
	return event, true
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
