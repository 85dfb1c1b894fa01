package usecases

import (
	"context"
	"errors"

	"lastbite/internal/application/payment/gatewayrail"
	"lastbite/internal/domain/payment"
	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/domain/reservation"
	"lastbite/internal/shared/db"
	apperrors "lastbite/internal/shared/errors"
	"lastbite/internal/shared/logger"
)

type CompleteZarinpalPaymentCommand struct {
	Authority string
}

type CompleteZarinpalPaymentResult struct {
	Payment       *payment.Payment
	RefID         string
	ReservationID *uint
}

// CompleteZarinpalPaymentUseCase verifies a gateway callback and finalizes
// the payment. Phase one (verify + complete + queue for payout) runs under a
// row lock in one transaction; phase two (reservation, settlement fold) runs
// after commit, best effort.
type CompleteZarinpalPaymentUseCase struct {
	paymentRepo payment.Repository
	gateway     gatewayrail.Rail
	txManager   *db.TransactionManager
	sideEffects *completionSideEffects
	logger      logger.Interface
}

func NewCompleteZarinpalPaymentUseCase(
	paymentRepo payment.Repository,
	reservationRepo reservation.Repository,
	folder SettlementFolder,
	gateway gatewayrail.Rail,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *CompleteZarinpalPaymentUseCase {
	return &CompleteZarinpalPaymentUseCase{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		txManager:   txManager,
		sideEffects: newCompletionSideEffects(paymentRepo, reservationRepo, folder, logger),
		logger:      logger,
	}
}

func (uc *CompleteZarinpalPaymentUseCase) Execute(ctx context.Context, cmd CompleteZarinpalPaymentCommand) (*CompleteZarinpalPaymentResult, error) {
	if cmd.Authority == "" {
		return nil, apperrors.NewValidationError("authority is required")
	}

	var completed *payment.Payment
	var rejection error
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		p, err := uc.paymentRepo.GetByAuthorityForUpdate(txCtx, cmd.Authority)
		if err != nil {
			return err
		}

		if p.Status() != vo.PaymentStatusProcessing {
			return apperrors.NewConflictError("payment is not awaiting completion",
				"status: "+p.Status().String())
		}

		verify, err := uc.gateway.VerifyPayment(txCtx, cmd.Authority, p.Amount().AmountMinor())
		if err != nil {
			// The failure mark must commit, so the rejection surfaces after
			// the transaction instead of rolling it back.
			rejection, err = uc.handleVerifyError(txCtx, p, err)
			return err
		}

		if err := p.CompleteGateway(verify.RefID); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := uc.paymentRepo.Update(txCtx, p); err != nil {
			return err
		}
		completed = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejection != nil {
		return nil, rejection
	}

	reservationID := uc.sideEffects.Run(ctx, completed)

	uc.logger.Infow("gateway payment completed",
		"payment_id", completed.ID(), "order_no", completed.OrderNo())

	return &CompleteZarinpalPaymentResult{
		Payment:       completed,
		RefID:         derefString(completed.GatewayRefID()),
		ReservationID: reservationID,
	}, nil
}

// handleVerifyError distinguishes a gateway rejection (the payment failed)
// from gateway unavailability (the payment stays processing, caller retries).
// A rejection is returned as the first value so the enclosing transaction can
// still commit the failed status; the second value aborts the transaction.
func (uc *CompleteZarinpalPaymentUseCase) handleVerifyError(ctx context.Context, p *payment.Payment, err error) (error, error) {
	if errors.Is(err, gatewayrail.ErrUnavailable) {
		uc.logger.Warnw("gateway unavailable during verification",
			"error", err, "payment_id", p.ID())
		return nil, apperrors.NewInternalError("payment gateway unavailable, retry later", err.Error())
	}

	uc.logger.Warnw("gateway verification rejected", "error", err, "payment_id", p.ID())
	if markErr := p.MarkFailed(err.Error()); markErr != nil {
		return nil, markErr
	}
	if updErr := uc.paymentRepo.Update(ctx, p); updErr != nil {
		return nil, updErr
	}
	return apperrors.NewValidationError("payment verification failed", err.Error()), nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
