package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"artison-api/database"
	authapi "artison-api/internal/api/auth"
	creatorsapi "artison-api/internal/api/creators"
	"artison-api/internal/api/payment"
	stripewebhooks "artison-api/internal/api/stripewebhook"
	"artison-api/internal/api/support"
	"artison-api/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps holds everything the router needs.
type Deps struct {
	AuthSvc  *authapi.Service
	Auth     *authapi.Handler
	Creators *creatorsapi.Handler
	Payment  *payment.Handler
	Support  *support.Handler
	Webhooks *stripewebhooks.Handler
	DB       *gorm.DB
	Logger   *slog.Logger
}

// Free-text fields rewritten by the sanitizer.
var sanitizedFields = []string{"display_name", "bio", "platform_name", "message"}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Artison API"})
	})
	r.GET("/health", health(d.DB, d.Logger))

	// Webhooks read the raw body, so they stay outside the sanitizer.
	r.POST("/support/webhook", d.Webhooks.SupportWebhook)
	r.POST("/payment/webhooks/stripe", d.Webhooks.ConnectWebhook)

	requireAuth := middleware.AuthMiddleware(d.AuthSvc)
	sanitize := middleware.SanitizeJSONFields(sanitizedFields...)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)
	authGroup.GET("/me", requireAuth, d.Auth.Me)
	authGroup.POST("/me/creator", requireAuth, d.Auth.BecomeCreator)

	profile := r.Group("/creators/profile")
	profile.GET("/:username", d.Creators.GetPublicProfile)

	mine := profile.Group("")
	mine.Use(requireAuth, sanitize)
	mine.POST("", d.Creators.CreateProfile)
	mine.GET("", d.Creators.GetMyProfile)
	mine.PUT("", d.Creators.UpdateProfile)
	mine.POST("/links", d.Creators.AddLink)
	mine.PUT("/links/reorder", d.Creators.ReorderLinks)
	mine.PUT("/links/:link_id", d.Creators.UpdateLink)
	mine.DELETE("/links/:link_id", d.Creators.DeleteLink)

	connect := r.Group("/payment/connect")
	connect.Use(requireAuth, middleware.RequireCreator())
	connect.POST("/onboarding", d.Payment.CreateOnboardingLink)
	connect.POST("/refresh", d.Payment.CreateOnboardingLink)
	connect.GET("/status", d.Payment.GetStatus)
	connect.PUT("/payout-settings", d.Payment.UpdatePayoutSettings)

	supportGroup := r.Group("/support")
	supportGroup.GET("/creator/:username/stats", d.Support.CreatorStats)
	supportGroup.GET("/stripe/config", d.Support.StripeConfig)

	supportAuth := supportGroup.Group("")
	supportAuth.Use(requireAuth)
	supportAuth.POST("/checkout", sanitize, d.Support.CreateCheckout)
	supportAuth.GET("/received", d.Support.Received)
	supportAuth.GET("/given", d.Support.Given)
	supportAuth.GET("/:id", d.Support.GetSupport)
}

func health(db *gorm.DB, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			logger.Error("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
