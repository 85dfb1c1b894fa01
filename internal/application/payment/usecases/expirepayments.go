package usecases

import (
	"context"

	"lastbite/internal/domain/payment"
	"lastbite/internal/shared/logger"
)

const expireBatchSize = 100

// ExpirePaymentsUseCase fails payments that sat in pending or processing
// past their deadline. Invoked by the payment scheduler.
type ExpirePaymentsUseCase struct {
	paymentRepo payment.Repository
	logger      logger.Interface
}

func NewExpirePaymentsUseCase(paymentRepo payment.Repository, logger logger.Interface) *ExpirePaymentsUseCase {
	return &ExpirePaymentsUseCase{paymentRepo: paymentRepo, logger: logger}
}

func (uc *ExpirePaymentsUseCase) Execute(ctx context.Context) (int, error) {
	expired, err := uc.paymentRepo.GetExpired(ctx, expireBatchSize)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, p := range expired {
		if err := p.MarkFailed("payment expired"); err != nil {
			continue
		}
		if err := uc.paymentRepo.Update(ctx, p); err != nil {
			uc.logger.Errorw("failed to expire payment", "error", err, "payment_id", p.ID())
			continue
		}
		count++
	}

	if count > 0 {
		uc.logger.Infow("expired stale payments", "count", count)
	}
	return count, nil
}
