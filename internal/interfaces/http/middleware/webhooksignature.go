package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lastbite/internal/shared/logger"
	"lastbite/internal/shared/utils"
)

const signatureHeader = "X-Webhook-Signature"

// maxWebhookBody bounds signed payload size (256KB).
const maxWebhookBody = 256 << 10

// WebhookSignature verifies an HMAC-SHA256 hex signature over the raw body.
// The body is restored for downstream binding.
func WebhookSignature(secret string, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			log.Errorw("webhook secret not configured, rejecting delivery")
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "webhook verification unavailable")
			c.Abort()
			return
		}

		provided := c.GetHeader(signatureHeader)
		if provided == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing webhook signature")
			c.Abort()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		expected := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(expected), []byte(provided)) {
			log.Warnw("webhook signature mismatch", "remote_addr", c.ClientIP())
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid webhook signature")
			c.Abort()
			return
		}

		c.Next()
	}
}
