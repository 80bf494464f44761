package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"artison-api/config"
	"artison-api/database"
	authapi "artison-api/internal/api/auth"
	creatorsapi "artison-api/internal/api/creators"
	"artison-api/internal/api/payment"
	stripewebhooks "artison-api/internal/api/stripewebhook"
	"artison-api/internal/api/support"
	routes "artison-api/internal/app/http"
	"artison-api/internal/infra/cache"
	"artison-api/internal/infra/stripe"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadEnv()
	logger := newLogger(cfg.Server.GinMode)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.Server.GinMode)

	db, err := database.Open(cfg.DB)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	redisClient, err := database.ConnectRedis(context.Background(), cfg.Redis)
	if err != nil {
		// stats are served uncached
		logger.Warn("redis unavailable", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	statsCache := cache.NewStatsCache(redisClient, cfg.Redis.StatsTTL, logger)

	if cfg.Stripe.SecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY not set, payment calls will fail")
	}
	provider := stripe.NewClient(cfg.Stripe.SecretKey)

	tokens, err := authapi.NewTokenService(cfg.JWT)
	if err != nil {
		logger.Error("invalid token settings", "error", err)
		os.Exit(1)
	}

	authSvc := authapi.NewService(db, tokens, logger)
	creatorSvc := creatorsapi.NewService(db, logger)
	paymentSvc := payment.NewService(db, provider, cfg, logger)
	supportSvc := support.NewService(db, provider, statsCache, cfg, logger)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		AuthSvc:  authSvc,
		Auth:     authapi.NewHandler(authSvc),
		Creators: creatorsapi.NewHandler(creatorSvc),
		Payment:  payment.NewHandler(paymentSvc),
		Support:  support.NewHandler(supportSvc),
		Webhooks: stripewebhooks.NewHandler(supportSvc, paymentSvc,
			cfg.Stripe.WebhookSecret, cfg.Stripe.ConnectWebhookSecret, logger),
		DB:     db,
		Logger: logger,
	})

	logger.Info("starting server", "port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(mode string) *slog.Logger {
	if mode == gin.ReleaseMode {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
