package routes

import (
	"github.com/gin-gonic/gin"

	"lastbite/internal/infrastructure/ratelimit"
	"lastbite/internal/interfaces/http/handlers"
	"lastbite/internal/interfaces/http/middleware"
	"lastbite/internal/shared/logger"
)

type Config struct {
	PaymentHandler    *handlers.PaymentHandler
	SettlementHandler *handlers.SettlementHandler
	WebhookHandler    *handlers.WebhookHandler
	RateLimiter       ratelimit.RateLimiter
	WebhookSecret     string
	Logger            logger.Interface
}

func Register(engine *gin.Engine, cfg Config) {
	api := engine.Group("/api/v1")

	payments := api.Group("/payments")
	{
		initiateLimit := ratelimit.Config{RequestsPerMinute: 10, RequestsPerHour: 60}
		payments.POST("",
			middleware.PaymentRateLimit(cfg.RateLimiter, initiateLimit, cfg.Logger),
			cfg.PaymentHandler.InitiatePayment)
		payments.GET("/callback", cfg.PaymentHandler.GatewayCallback)
		payments.POST("/:id/verify", cfg.PaymentHandler.VerifyTetherPayment)
	}

	settlements := api.Group("/settlements")
	{
		settlements.GET("/:id", cfg.SettlementHandler.GetSettlement)
		settlements.POST("/:id/process", cfg.SettlementHandler.ProcessSettlement)
		settlements.GET("/:id/payments", cfg.SettlementHandler.ListSettlementPayments)
		settlements.POST("/payouts", cfg.SettlementHandler.RunMonthlyPayouts)
	}

	webhooks := api.Group("/webhooks")
	webhooks.Use(middleware.WebhookSignature(cfg.WebhookSecret, cfg.Logger))
	{
		webhooks.POST("/tether", cfg.WebhookHandler.TetherTransfer)
	}
}
