package scheduler

import (
	"context"
	"time"

	paymentUC "lastbite/internal/application/payment/usecases"
	"lastbite/internal/shared/goroutine"
	"lastbite/internal/shared/logger"
)

const paymentSweepInterval = 5 * time.Minute

// PaymentScheduler periodically expires stale payments and retries the
// completion side effects that failed in phase two.
type PaymentScheduler struct {
	expireUC *paymentUC.ExpirePaymentsUseCase
	retryUC  *paymentUC.RetryCompletionSideEffectsUseCase
	logger   logger.Interface
	stop     chan struct{}
	done     chan struct{}
}

func NewPaymentScheduler(
	expireUC *paymentUC.ExpirePaymentsUseCase,
	retryUC *paymentUC.RetryCompletionSideEffectsUseCase,
	logger logger.Interface,
) *PaymentScheduler {
	return &PaymentScheduler{
		expireUC: expireUC,
		retryUC:  retryUC,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *PaymentScheduler) Start() {
	goroutine.SafeGo(s.logger, "payment-scheduler", func() {
		defer close(s.done)
		ticker := time.NewTicker(paymentSweepInterval)
		defer ticker.Stop()

		s.runOnce()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.runOnce()
			}
		}
	})
}

func (s *PaymentScheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *PaymentScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.expireUC.Execute(ctx); err != nil {
		s.logger.Errorw("payment expiry sweep failed", "error", err)
	}
	if _, err := s.retryUC.Execute(ctx); err != nil {
		s.logger.Errorw("side effect retry sweep failed", "error", err)
	}
}
