package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	paymentUsecases "lastbite/internal/application/payment/usecases"
	"lastbite/internal/shared/logger"
	"lastbite/internal/shared/utils"
)

type PaymentHandler struct {
	initiateUC *paymentUsecases.InitiatePaymentUseCase
	completeUC *paymentUsecases.CompleteZarinpalPaymentUseCase
	verifyUC   *paymentUsecases.VerifyTetherPaymentUseCase
	logger     logger.Interface
}

func NewPaymentHandler(
	initiateUC *paymentUsecases.InitiatePaymentUseCase,
	completeUC *paymentUsecases.CompleteZarinpalPaymentUseCase,
	verifyUC *paymentUsecases.VerifyTetherPaymentUseCase,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		initiateUC: initiateUC,
		completeUC: completeUC,
		verifyUC:   verifyUC,
		logger:     logger,
	}
}

type InitiatePaymentRequest struct {
	OfferID     uint      `json:"offer_id" binding:"required"`
	BuyerID     uint      `json:"buyer_id" binding:"required"`
	BusinessID  uint      `json:"business_id" binding:"required"`
	AmountMinor int64     `json:"amount_minor" binding:"required,gt=0"`
	Currency    string    `json:"currency" binding:"required,oneof=EUR USD GBP USDT"`
	Method      string    `json:"method" binding:"required,oneof=zarinpal tether"`
	PickupAt    time.Time `json:"pickup_at" binding:"required,future"`
	BuyerEmail  string    `json:"buyer_email" binding:"omitempty,email"`
	Description string    `json:"description"`
}

type InitiatePaymentResponse struct {
	PaymentID        uint   `json:"payment_id"`
	OrderNo          string `json:"order_no"`
	Method           string `json:"method"`
	Status           string `json:"status"`
	FeeAmount        int64  `json:"fee_amount"`
	BusinessAmount   int64  `json:"business_amount"`
	PaymentURL       string `json:"payment_url,omitempty"`
	ReceivingAddress string `json:"receiving_address,omitempty"`
	AmountStableRaw  uint64 `json:"amount_stable_raw,omitempty"`
	ExpiresAt        string `json:"expires_at"`
}

func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.initiateUC.Execute(c.Request.Context(), paymentUsecases.InitiatePaymentCommand{
		OfferID:     req.OfferID,
		BuyerID:     req.BuyerID,
		BusinessID:  req.BusinessID,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Method:      req.Method,
		PickupAt:    req.PickupAt,
		BuyerEmail:  req.BuyerEmail,
		Description: req.Description,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	p := result.Payment
	utils.SuccessResponse(c, http.StatusCreated, "payment initiated", InitiatePaymentResponse{
		PaymentID:        p.ID(),
		OrderNo:          p.OrderNo(),
		Method:           p.Method().String(),
		Status:           p.Status().String(),
		FeeAmount:        p.FeeAmount(),
		BusinessAmount:   p.BusinessAmount(),
		PaymentURL:       result.PaymentURL,
		ReceivingAddress: result.ReceivingAddress,
		AmountStableRaw:  result.AmountStableRaw,
		ExpiresAt:        p.ExpiresAt().Format(time.RFC3339),
	})
}

type CompletePaymentResponse struct {
	PaymentID     uint   `json:"payment_id"`
	OrderNo       string `json:"order_no"`
	Status        string `json:"status"`
	RefID         string `json:"ref_id,omitempty"`
	ReservationID *uint  `json:"reservation_id,omitempty"`
}

// GatewayCallback handles the buyer's return from the hosted payment page.
// Zarinpal appends Authority and Status as query parameters.
func (h *PaymentHandler) GatewayCallback(c *gin.Context) {
	authority := c.Query("Authority")
	if authority == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "missing authority")
		return
	}
	if status := c.Query("Status"); status != "" && status != "OK" {
		utils.ErrorResponse(c, http.StatusBadRequest, "payment was cancelled at the gateway")
		return
	}

	result, err := h.completeUC.Execute(c.Request.Context(), paymentUsecases.CompleteZarinpalPaymentCommand{
		Authority: authority,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "payment completed", CompletePaymentResponse{
		PaymentID:     result.Payment.ID(),
		OrderNo:       result.Payment.OrderNo(),
		Status:        result.Payment.Status().String(),
		RefID:         result.RefID,
		ReservationID: result.ReservationID,
	})
}

type VerifyTetherRequest struct {
	TxHash string `json:"tx_hash" binding:"required"`
}

// VerifyTetherPayment is the buyer-facing verification of an on-chain
// transfer. A transfer that has not matured yet returns 202 so the client
// polls again.
func (h *PaymentHandler) VerifyTetherPayment(c *gin.Context) {
	paymentID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req VerifyTetherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.verifyUC.Execute(c.Request.Context(), paymentUsecases.VerifyTetherPaymentCommand{
		PaymentID: paymentID,
		TxHash:    req.TxHash,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Retry {
		utils.SuccessResponse(c, http.StatusAccepted, "verification pending: "+result.RetryReason, nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "payment completed", CompletePaymentResponse{
		PaymentID:     result.Payment.ID(),
		OrderNo:       result.Payment.OrderNo(),
		Status:        result.Payment.Status().String(),
		ReservationID: result.ReservationID,
	})
}
