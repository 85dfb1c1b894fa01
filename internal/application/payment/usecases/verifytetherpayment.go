package usecases

import (
	"context"

	"lastbite/internal/application/payment/chainrail"
	"lastbite/internal/domain/payment"
	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/domain/reservation"
	"lastbite/internal/shared/db"
	apperrors "lastbite/internal/shared/errors"
	"lastbite/internal/shared/logger"
)

type VerifyTetherPaymentCommand struct {
	PaymentID uint
	TxHash    string

	// FromWebhook raises the confirmation threshold: webhook deliveries are
	// unattended and must not complete against a shallow chain.
	FromWebhook bool
}

type VerifyTetherPaymentResult struct {
	Payment       *payment.Payment
	ReservationID *uint

	// Retry is set instead of an error when the transfer exists but has not
	// matured; the payment stays in processing.
	Retry       bool
	RetryReason string
}

type VerifyTetherPaymentConfig struct {
	ConfirmationsUser    uint64
	ConfirmationsWebhook uint64
}

type VerifyTetherPaymentUseCase struct {
	paymentRepo payment.Repository
	chain       chainrail.Rail
	txManager   *db.TransactionManager
	sideEffects *completionSideEffects
	config      VerifyTetherPaymentConfig
	logger      logger.Interface
}

func NewVerifyTetherPaymentUseCase(
	paymentRepo payment.Repository,
	reservationRepo reservation.Repository,
	folder SettlementFolder,
	chain chainrail.Rail,
	txManager *db.TransactionManager,
	config VerifyTetherPaymentConfig,
	logger logger.Interface,
) *VerifyTetherPaymentUseCase {
	return &VerifyTetherPaymentUseCase{
		paymentRepo: paymentRepo,
		chain:       chain,
		txManager:   txManager,
		sideEffects: newCompletionSideEffects(paymentRepo, reservationRepo, folder, logger),
		config:      config,
		logger:      logger,
	}
}

func (uc *VerifyTetherPaymentUseCase) Execute(ctx context.Context, cmd VerifyTetherPaymentCommand) (*VerifyTetherPaymentResult, error) {
	if cmd.TxHash == "" {
		return nil, apperrors.NewValidationError("transaction hash is required")
	}

	// A transaction hash finalizes at most one payment. A replay of an
	// already-consumed hash gets the original outcome back, not an error.
	if existing, err := uc.paymentRepo.GetCompletedByTxHash(ctx, cmd.TxHash); err == nil && existing != nil {
		uc.logger.Infow("transaction hash already consumed, returning existing completion",
			"tx_hash", cmd.TxHash, "payment_id", existing.ID())
		return &VerifyTetherPaymentResult{
			Payment:       existing,
			ReservationID: existing.ReservationID(),
		}, nil
	}

	minConfirmations := uc.config.ConfirmationsUser
	if cmd.FromWebhook {
		minConfirmations = uc.config.ConfirmationsWebhook
	}

	var completed *payment.Payment
	var retryReason string
	var rejection error
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		p, err := uc.paymentRepo.GetByIDForUpdate(txCtx, cmd.PaymentID)
		if err != nil {
			return err
		}

		if p.Status() == vo.PaymentStatusCompleted {
			// Only the hash that completed the payment gets the idempotent
			// replay; any other hash is a conflicting re-entry.
			if derefString(p.TxHash()) != cmd.TxHash {
				return apperrors.NewConflictError("payment is already completed",
					"transaction hash does not match the completing transfer")
			}
			completed = p
			return nil
		}
		if p.Status() != vo.PaymentStatusProcessing {
			return apperrors.NewConflictError("payment is not awaiting verification",
				"status: "+p.Status().String())
		}
		if !p.Method().IsTether() {
			return apperrors.NewValidationError("payment is not on the stablecoin rail")
		}

		result, err := uc.chain.VerifyPayment(txCtx, chainrail.VerifyParams{
			TxHash:           cmd.TxHash,
			RecipientAddress: derefString(p.ReceivingAddress()),
			ExpectedRaw:      p.AmountStableRaw(),
			MinConfirmations: minConfirmations,
		})
		if err != nil {
			if chainrail.IsRetryable(err) {
				retryReason = err.Error()
				return nil
			}
			uc.logger.Warnw("on-chain verification rejected",
				"error", err, "payment_id", p.ID(), "tx_hash", cmd.TxHash)
			if markErr := p.MarkFailed(err.Error()); markErr != nil {
				return markErr
			}
			if updErr := uc.paymentRepo.Update(txCtx, p); updErr != nil {
				return updErr
			}
			// Committing the failure mark; the rejection surfaces after the
			// transaction.
			rejection = apperrors.NewValidationError("payment verification failed", err.Error())
			return nil
		}

		if err := p.CompleteChain(result.TxHash, result.SenderAddress); err != nil {
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

	if retryReason != "" {
		return &VerifyTetherPaymentResult{Retry: true, RetryReason: retryReason}, nil
	}

	reservationID := uc.sideEffects.Run(ctx, completed)

	uc.logger.Infow("stablecoin payment completed",
		"payment_id", completed.ID(), "order_no", completed.OrderNo(), "tx_hash", cmd.TxHash)

	return &VerifyTetherPaymentResult{
		Payment:       completed,
		ReservationID: reservationID,
	}, nil
}
