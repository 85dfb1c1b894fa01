package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"lastbite/internal/shared/logger"
)

func signedRequest(t *testing.T, secret, body, header string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/hook", WebhookSignature(secret, logger.NewLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader(body))
	if header != "" {
		req.Header.Set(signatureHeader, header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookSignatureAccepted(t *testing.T) {
	body := `{"payment_id":1,"tx_hash":"0xabc"}`
	w := signedRequest(t, "topsecret", body, sign("topsecret", body))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookSignatureRejected(t *testing.T) {
	body := `{"payment_id":1}`

	w := signedRequest(t, "topsecret", body, sign("wrongsecret", body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = signedRequest(t, "topsecret", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A tampered body no longer matches the signature.
	w = signedRequest(t, "topsecret", body+"x", sign("topsecret", body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookSignatureUnconfiguredSecret(t *testing.T) {
	body := `{}`
	w := signedRequest(t, "", body, sign("anything", body))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
