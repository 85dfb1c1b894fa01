package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lastbite/internal/infrastructure/ratelimit"
	"lastbite/internal/shared/logger"
	"lastbite/internal/shared/utils"
)

// PaymentRateLimit throttles payment initiation per client IP. Limiter
// errors fail open: a Redis outage must not take payments down with it.
func PaymentRateLimit(limiter ratelimit.RateLimiter, config ratelimit.Config, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "payment-initiate:" + c.ClientIP()

		allowed, err := limiter.Allow(key, config)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}
		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many payment attempts, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
