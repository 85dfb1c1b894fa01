package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentUsecases "lastbite/internal/application/payment/usecases"
	"lastbite/internal/shared/logger"
	"lastbite/internal/shared/utils"
)

// WebhookHandler receives chain-monitor notifications about inbound USDT
// transfers. Routes mounting it sit behind the HMAC signature middleware.
type WebhookHandler struct {
	verifyUC *paymentUsecases.VerifyTetherPaymentUseCase
	logger   logger.Interface
}

func NewWebhookHandler(verifyUC *paymentUsecases.VerifyTetherPaymentUseCase, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{verifyUC: verifyUC, logger: logger}
}

type TransferWebhookRequest struct {
	PaymentID uint   `json:"payment_id" binding:"required"`
	TxHash    string `json:"tx_hash" binding:"required"`
}

func (h *WebhookHandler) TetherTransfer(c *gin.Context) {
	var req TransferWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.verifyUC.Execute(c.Request.Context(), paymentUsecases.VerifyTetherPaymentCommand{
		PaymentID:   req.PaymentID,
		TxHash:      req.TxHash,
		FromWebhook: true,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Retry {
		// 202 tells the monitor to redeliver once more blocks land.
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
