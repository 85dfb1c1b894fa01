package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	settlementUsecases "lastbite/internal/application/settlement/usecases"
	"lastbite/internal/domain/settlement"
	"lastbite/internal/shared/biztime"
	"lastbite/internal/shared/logger"
	"lastbite/internal/shared/query"
	"lastbite/internal/shared/utils"
)

type SettlementHandler struct {
	settlementRepo settlement.Repository
	payoutsUC      *settlementUsecases.ProcessMonthlyPayoutsUseCase
	processUC      *settlementUsecases.ProcessSettlementUseCase
	logger         logger.Interface
}

func NewSettlementHandler(
	settlementRepo settlement.Repository,
	payoutsUC *settlementUsecases.ProcessMonthlyPayoutsUseCase,
	processUC *settlementUsecases.ProcessSettlementUseCase,
	logger logger.Interface,
) *SettlementHandler {
	return &SettlementHandler{
		settlementRepo: settlementRepo,
		payoutsUC:      payoutsUC,
		processUC:      processUC,
		logger:         logger,
	}
}

type SettlementResponse struct {
	SettlementID     uint    `json:"settlement_id"`
	SettlementNo     string  `json:"settlement_no"`
	BusinessID       uint    `json:"business_id"`
	Period           string  `json:"period"`
	Status           string  `json:"status"`
	ZarinpalTotal    int64   `json:"zarinpal_total"`
	ZarinpalCurrency string  `json:"zarinpal_currency,omitempty"`
	ZarinpalCount    int     `json:"zarinpal_count"`
	ZarinpalError    *string `json:"zarinpal_error,omitempty"`
	TetherTotalRaw   uint64  `json:"tether_total_raw"`
	TetherCount      int     `json:"tether_count"`
	TetherTxHash     *string `json:"tether_tx_hash,omitempty"`
	TetherError      *string `json:"tether_error,omitempty"`
}

func toSettlementResponse(s *settlement.MonthlySettlement) SettlementResponse {
	return SettlementResponse{
		SettlementID:     s.ID(),
		SettlementNo:     s.SettlementNo(),
		BusinessID:       s.BusinessID(),
		Period:           s.Period(),
		Status:           s.Status().String(),
		ZarinpalTotal:    s.ZarinpalTotal(),
		ZarinpalCurrency: s.ZarinpalCurrency(),
		ZarinpalCount:    s.ZarinpalCount(),
		ZarinpalError:    s.ZarinpalError(),
		TetherTotalRaw:   s.TetherTotalRaw(),
		TetherCount:      s.TetherCount(),
		TetherTxHash:     s.TetherTxHash(),
		TetherError:      s.TetherError(),
	}
}

func (h *SettlementHandler) GetSettlement(c *gin.Context) {
	settlementID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	s, err := h.settlementRepo.GetByID(c.Request.Context(), settlementID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "ok", toSettlementResponse(s))
}

type RunPayoutsRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=2000"`
}

type PayoutErrorResponse struct {
	SettlementID uint   `json:"settlement_id"`
	Reason       string `json:"reason"`
}

type PayoutBatchResponse struct {
	Period    string                `json:"period"`
	Processed int                   `json:"processed"`
	Paid      int                   `json:"paid"`
	Partial   int                   `json:"partial"`
	Failed    int                   `json:"failed"`
	Errors    []PayoutErrorResponse `json:"errors,omitempty"`
}

func toPayoutBatchResponse(r *settlementUsecases.PayoutBatchResult) PayoutBatchResponse {
	resp := PayoutBatchResponse{
		Period:    r.Period,
		Processed: r.Processed,
		Paid:      r.Paid,
		Partial:   r.Partial,
		Failed:    r.Failed,
	}
	for _, e := range r.Errors {
		resp.Errors = append(resp.Errors, PayoutErrorResponse{
			SettlementID: e.SettlementID,
			Reason:       e.Reason,
		})
	}
	return resp
}

// RunMonthlyPayouts triggers a payout batch for one period. Operational
// endpoint; the settlement scheduler runs the same batch automatically.
func (h *SettlementHandler) RunMonthlyPayouts(c *gin.Context) {
	var req RunPayoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	// Guard against paying out the still-open month.
	if biztime.EndOfMonthUTC(req.Year, time.Month(req.Month)).After(biztime.NowUTC()) {
		utils.ErrorResponse(c, http.StatusBadRequest, "period is not closed yet")
		return
	}

	result, err := h.payoutsUC.Execute(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "payout batch finished", toPayoutBatchResponse(result))
}

func (h *SettlementHandler) ProcessSettlement(c *gin.Context) {
	settlementID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	s, err := h.processUC.Execute(c.Request.Context(), settlementID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "settlement processed", toSettlementResponse(s))
}

type SettlementPaymentResponse struct {
	PaymentID      uint   `json:"payment_id"`
	Method         string `json:"method"`
	BusinessAmount int64  `json:"business_amount"`
	Currency       string `json:"currency"`
}

func (h *SettlementHandler) ListSettlementPayments(c *gin.Context) {
	settlementID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	page := query.PageFilter{}
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page.Page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil {
		page.PageSize = v
	}

	items, err := h.settlementRepo.ListSettlementPayments(c.Request.Context(), settlementID, page)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	out := make([]SettlementPaymentResponse, 0, len(items))
	for _, item := range items {
		out = append(out, SettlementPaymentResponse{
			PaymentID:      item.PaymentID(),
			Method:         item.Method().String(),
			BusinessAmount: item.BusinessAmount(),
			Currency:       item.Currency(),
		})
	}
	utils.SuccessResponse(c, http.StatusOK, "ok", out)
}
