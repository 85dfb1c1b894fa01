package usecases

import (
	"context"

	"lastbite/internal/domain/payment"
	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/domain/settlement"
	"lastbite/internal/shared/biztime"
	"lastbite/internal/shared/db"
	apperrors "lastbite/internal/shared/errors"
	"lastbite/internal/shared/logger"
)

// AddPaymentToSettlementUseCase folds one completed payment into its
// business's settlement bucket for the completion month. Idempotent: a
// payment already linked to a settlement is left alone. The whole fold runs
// in one transaction with the payment and the bucket row-locked.
type AddPaymentToSettlementUseCase struct {
	paymentRepo    payment.Repository
	settlementRepo settlement.Repository
	txManager      *db.TransactionManager
	logger         logger.Interface
}

func NewAddPaymentToSettlementUseCase(
	paymentRepo payment.Repository,
	settlementRepo settlement.Repository,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *AddPaymentToSettlementUseCase {
	return &AddPaymentToSettlementUseCase{
		paymentRepo:    paymentRepo,
		settlementRepo: settlementRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

func (uc *AddPaymentToSettlementUseCase) Execute(ctx context.Context, paymentID uint) error {
	return uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		p, err := uc.paymentRepo.GetByIDForUpdate(txCtx, paymentID)
		if err != nil {
			return err
		}

		if p.SettlementID() != nil {
			return nil
		}
		if p.Status() != vo.PaymentStatusCompleted {
			return apperrors.NewConflictError("only completed payments settle",
				"status: "+p.Status().String())
		}

		// The bucket month is the completion month in business time, not
		// the initiation month.
		completedMonth, year := biztime.MonthOf(*p.CompletedAt())
		month := int(completedMonth)

		bucket, err := uc.settlementRepo.GetByBusinessAndPeriodForUpdate(txCtx, p.BusinessID(), month, year)
		if err != nil {
			if !apperrors.IsNotFoundError(err) {
				return err
			}
			bucket, err = settlement.NewMonthlySettlement(p.BusinessID(), month, year)
			if err != nil {
				return err
			}
			if err := uc.settlementRepo.Create(txCtx, bucket); err != nil {
				return err
			}
		}

		amount, currency, err := uc.addToBucket(bucket, p)
		if err != nil {
			return err
		}
		if err := uc.settlementRepo.Update(txCtx, bucket); err != nil {
			return err
		}

		item, err := settlement.NewSettlementPayment(bucket.ID(), p.ID(), p.Method(), amount, currency)
		if err != nil {
			return err
		}
		if err := uc.settlementRepo.CreateSettlementPayment(txCtx, item); err != nil {
			return err
		}

		if err := p.AttachSettlement(bucket.ID()); err != nil {
			return err
		}
		if err := uc.paymentRepo.Update(txCtx, p); err != nil {
			return err
		}

		uc.logger.Infow("payment folded into settlement",
			"payment_id", p.ID(), "settlement_id", bucket.ID(), "period", bucket.Period())
		return nil
	})
}

// addToBucket adds the rail-native business share and returns the snapshot
// amount and currency for the line item.
func (uc *AddPaymentToSettlementUseCase) addToBucket(bucket *settlement.MonthlySettlement, p *payment.Payment) (int64, string, error) {
	if p.Method().IsTether() {
		businessRaw := p.Metadata().StableBusinessRaw
		if err := bucket.AddTetherPayment(businessRaw); err != nil {
			return 0, "", err
		}
		return int64(businessRaw), "USDT", nil
	}

	if err := bucket.AddZarinpalPayment(p.BusinessAmount(), p.Amount().Currency()); err != nil {
		return 0, "", err
	}
	return p.BusinessAmount(), p.Amount().Currency(), nil
}
