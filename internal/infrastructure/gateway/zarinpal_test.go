package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastbite/internal/application/payment/gatewayrail"
	sharedConfig "lastbite/internal/shared/config"
	"lastbite/internal/shared/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *ZarinpalClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewZarinpalClient(&sharedConfig.ZarinpalConfig{
		MerchantID: "merchant-1",
		BaseURL:    server.URL,
		PayBaseURL: server.URL + "/StartPay",
	}, logger.NewLogger())
}

func TestRequestPayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/request.json", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "merchant-1", body["merchant_id"])
		assert.Equal(t, float64(10_000), body["amount"])

		w.Write([]byte(`{"data":{"code":100,"message":"Success","authority":"A0000012345"}}`))
	})

	result, err := client.RequestPayment(context.Background(), gatewayrail.PaymentRequest{
		OrderNo: "pay_x", Amount: 10_000, Currency: "EUR", CallbackURL: "http://cb",
	})
	require.NoError(t, err)
	assert.Equal(t, "A0000012345", result.Authority)
	assert.Contains(t, result.PaymentURL, "/StartPay/A0000012345")
}

func TestRequestPaymentRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"code":-9,"message":"Validation error"}}`))
	})

	_, err := client.RequestPayment(context.Background(), gatewayrail.PaymentRequest{Amount: 1})
	require.Error(t, err)

	var railErr *gatewayrail.RailError
	require.ErrorAs(t, err, &railErr)
	assert.Equal(t, -9, railErr.Code)
	assert.Contains(t, railErr.Message, "Validation error")
}

func TestVerifyPayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify.json", r.URL.Path)
		w.Write([]byte(`{"data":{"code":100,"message":"Verified","ref_id":201}}`))
	})

	result, err := client.VerifyPayment(context.Background(), "A0000012345", 10_000)
	require.NoError(t, err)
	assert.Equal(t, "201", result.RefID)
	assert.False(t, result.AlreadyVerified)
}

func TestVerifyPaymentAlreadyVerified(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"code":101,"message":"Already verified","ref_id":201}}`))
	})

	result, err := client.VerifyPayment(context.Background(), "A0000012345", 10_000)
	require.NoError(t, err)
	assert.True(t, result.AlreadyVerified)
}

func TestVerifyPaymentRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"code":-50,"message":"Amount mismatch"}}`))
	})

	_, err := client.VerifyPayment(context.Background(), "A0000012345", 10_000)
	var railErr *gatewayrail.RailError
	require.ErrorAs(t, err, &railErr)
	assert.Equal(t, -50, railErr.Code)
}

func TestGatewayUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.VerifyPayment(context.Background(), "A0000012345", 10_000)
	assert.ErrorIs(t, err, gatewayrail.ErrUnavailable)
}
