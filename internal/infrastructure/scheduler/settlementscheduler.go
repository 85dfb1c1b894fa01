package scheduler

import (
	"context"
	"time"

	settlementUC "lastbite/internal/application/settlement/usecases"
	"lastbite/internal/shared/biztime"
	"lastbite/internal/shared/goroutine"
	"lastbite/internal/shared/logger"
)

// SettlementScheduler periodically runs payouts for the previous calendar
// month. The run is idempotent: only pending settlements are selected, so a
// tick after a finished batch is a no-op.
type SettlementScheduler struct {
	payoutsUC *settlementUC.ProcessMonthlyPayoutsUseCase
	interval  time.Duration
	logger    logger.Interface
	stop      chan struct{}
	done      chan struct{}
}

func NewSettlementScheduler(
	payoutsUC *settlementUC.ProcessMonthlyPayoutsUseCase,
	interval time.Duration,
	logger logger.Interface,
) *SettlementScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SettlementScheduler{
		payoutsUC: payoutsUC,
		interval:  interval,
		logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (s *SettlementScheduler) Start() {
	goroutine.SafeGo(s.logger, "settlement-scheduler", func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

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

func (s *SettlementScheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *SettlementScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	prevMonth, year := biztime.PreviousMonth(biztime.NowUTC())
	month := int(prevMonth)
	if _, err := s.payoutsUC.Execute(ctx, month, year); err != nil {
		s.logger.Errorw("monthly payout run failed", "error", err, "month", month, "year", year)
	}
}
