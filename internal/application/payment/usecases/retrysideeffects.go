package usecases

import (
	"context"

	"lastbite/internal/domain/payment"
	"lastbite/internal/domain/reservation"
	"lastbite/internal/shared/logger"
)

const retryBatchSize = 50

// RetryCompletionSideEffectsUseCase re-runs phase two for completed payments
// whose reservation or settlement fold failed at completion time.
type RetryCompletionSideEffectsUseCase struct {
	paymentRepo payment.Repository
	sideEffects *completionSideEffects
	logger      logger.Interface
}

func NewRetryCompletionSideEffectsUseCase(
	paymentRepo payment.Repository,
	reservationRepo reservation.Repository,
	folder SettlementFolder,
	logger logger.Interface,
) *RetryCompletionSideEffectsUseCase {
	return &RetryCompletionSideEffectsUseCase{
		paymentRepo: paymentRepo,
		sideEffects: newCompletionSideEffects(paymentRepo, reservationRepo, folder, logger),
		logger:      logger,
	}
}

func (uc *RetryCompletionSideEffectsUseCase) Execute(ctx context.Context) (int, error) {
	pending, err := uc.paymentRepo.GetCompletedWithPendingSideEffects(ctx, retryBatchSize)
	if err != nil {
		return 0, err
	}

	for _, p := range pending {
		uc.sideEffects.Run(ctx, p)
	}

	if len(pending) > 0 {
		uc.logger.Infow("retried completion side effects", "count", len(pending))
	}
	return len(pending), nil
}
