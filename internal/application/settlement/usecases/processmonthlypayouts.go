package usecases

import (
	"context"

	"lastbite/internal/domain/settlement"
	"lastbite/internal/shared/logger"
)

// SettlementError records why one settlement of the batch did not pay out in
// full.
type SettlementError struct {
	SettlementID uint
	Reason       string
}

type PayoutBatchResult struct {
	Period    string
	Processed int
	Paid      int
	Partial   int
	Failed    int
	Errors    []SettlementError
}

// ProcessMonthlyPayoutsUseCase runs payouts for every pending settlement of
// one calendar month. One settlement failing never aborts the batch.
type ProcessMonthlyPayoutsUseCase struct {
	settlementRepo settlement.Repository
	processUC      *ProcessSettlementUseCase
	logger         logger.Interface
}

func NewProcessMonthlyPayoutsUseCase(
	settlementRepo settlement.Repository,
	processUC *ProcessSettlementUseCase,
	logger logger.Interface,
) *ProcessMonthlyPayoutsUseCase {
	return &ProcessMonthlyPayoutsUseCase{
		settlementRepo: settlementRepo,
		processUC:      processUC,
		logger:         logger,
	}
}

func (uc *ProcessMonthlyPayoutsUseCase) Execute(ctx context.Context, month, year int) (*PayoutBatchResult, error) {
	pending, err := uc.settlementRepo.ListPendingByPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}

	result := &PayoutBatchResult{}
	for _, s := range pending {
		result.Period = s.Period()
		processed, err := uc.processUC.Execute(ctx, s.ID())
		if err != nil {
			uc.logger.Errorw("settlement payout run failed",
				"error", err, "settlement_id", s.ID())
			result.Failed++
			result.Processed++
			result.Errors = append(result.Errors, SettlementError{
				SettlementID: s.ID(), Reason: err.Error(),
			})
			continue
		}
		result.Processed++
		switch processed.Status() {
		case settlement.StatusPaid:
			result.Paid++
		case settlement.StatusPartiallyPaid:
			result.Partial++
			result.Errors = append(result.Errors, SettlementError{
				SettlementID: s.ID(), Reason: railFailureReason(processed),
			})
		default:
			result.Failed++
			result.Errors = append(result.Errors, SettlementError{
				SettlementID: s.ID(), Reason: railFailureReason(processed),
			})
		}
	}

	if result.Processed > 0 {
		uc.logger.Infow("monthly payout batch finished",
			"month", month, "year", year,
			"processed", result.Processed, "paid", result.Paid,
			"partial", result.Partial, "failed", result.Failed)
	}
	return result, nil
}

// railFailureReason picks the recorded rail error of a settlement that did
// not finish paid.
func railFailureReason(s *settlement.MonthlySettlement) string {
	if s.ZarinpalError() != nil {
		return *s.ZarinpalError()
	}
	if s.TetherError() != nil {
		return *s.TetherError()
	}
	return "payout failed"
}
