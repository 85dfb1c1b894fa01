package usecases

import (
	"context"
	"fmt"

	"lastbite/internal/application/payment/chainrail"
	"lastbite/internal/application/payment/gatewayrail"
	"lastbite/internal/domain/payment"
	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/domain/settlement"
	"lastbite/internal/domain/wallet"
	"lastbite/internal/shared/biztime"
	"lastbite/internal/shared/db"
	apperrors "lastbite/internal/shared/errors"
	"lastbite/internal/shared/logger"
)

// ProcessSettlementUseCase pays out one settlement. The claim (pending ->
// processing) happens under a row lock in its own transaction; the rail
// transfers run outside any transaction; a second transaction records the
// outcome and propagates payout state to the member payments. The two rails
// are independent: one failing does not stop the other.
type ProcessSettlementUseCase struct {
	settlementRepo settlement.Repository
	paymentRepo    payment.Repository
	walletRepo     wallet.Repository
	gateway        gatewayrail.Rail
	chain          chainrail.Rail
	txManager      *db.TransactionManager
	logger         logger.Interface
}

func NewProcessSettlementUseCase(
	settlementRepo settlement.Repository,
	paymentRepo payment.Repository,
	walletRepo wallet.Repository,
	gateway gatewayrail.Rail,
	chain chainrail.Rail,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *ProcessSettlementUseCase {
	return &ProcessSettlementUseCase{
		settlementRepo: settlementRepo,
		paymentRepo:    paymentRepo,
		walletRepo:     walletRepo,
		gateway:        gateway,
		chain:          chain,
		txManager:      txManager,
		logger:         logger,
	}
}

func (uc *ProcessSettlementUseCase) Execute(ctx context.Context, settlementID uint) (*settlement.MonthlySettlement, error) {
	var stl *settlement.MonthlySettlement
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		s, err := uc.settlementRepo.GetByIDForUpdate(txCtx, settlementID)
		if err != nil {
			return err
		}
		if err := s.MarkProcessing(); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := uc.settlementRepo.Update(txCtx, s); err != nil {
			return err
		}
		stl = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.runPayouts(ctx, stl)

	if err := stl.Finalize(); err != nil {
		return nil, err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.settlementRepo.Update(txCtx, stl); err != nil {
			return err
		}
		return uc.propagatePayoutStatus(txCtx, stl)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("settlement processed",
		"settlement_id", stl.ID(), "period", stl.Period(), "status", stl.Status().String())
	return stl, nil
}

func (uc *ProcessSettlementUseCase) runPayouts(ctx context.Context, stl *settlement.MonthlySettlement) {
	w, err := uc.walletRepo.GetByBusinessID(ctx, stl.BusinessID())
	if err != nil {
		reason := fmt.Sprintf("business wallet unavailable: %v", err)
		if stl.ZarinpalTotal() > 0 {
			_ = stl.RecordZarinpalFailure(reason)
		}
		if stl.TetherTotalRaw() > 0 {
			_ = stl.RecordTetherFailure(reason)
		}
		return
	}

	if stl.ZarinpalTotal() > 0 {
		uc.payoutZarinpal(ctx, stl, w)
	}
	if stl.TetherTotalRaw() > 0 {
		uc.payoutTether(ctx, stl, w)
	}
}

func (uc *ProcessSettlementUseCase) payoutZarinpal(ctx context.Context, stl *settlement.MonthlySettlement, w *wallet.BusinessWallet) {
	if !w.CanReceiveBank() {
		_ = stl.RecordZarinpalFailure("bank transfer not configured")
		return
	}

	res, err := uc.gateway.TransferToBusiness(ctx, gatewayrail.TransferRequest{
		Amount:         stl.ZarinpalTotal(),
		Currency:       stl.ZarinpalCurrency(),
		BankIdentifier: *w.BankIdentifier(),
		Description:    fmt.Sprintf("settlement %s for %s", stl.SettlementNo(), stl.Period()),
	})
	if err != nil {
		uc.logger.Errorw("gateway payout failed",
			"error", err, "settlement_id", stl.ID())
		_ = stl.RecordZarinpalFailure(err.Error())
		return
	}
	_ = stl.RecordZarinpalPayout(res.Reference, biztime.NowUTC())
}

func (uc *ProcessSettlementUseCase) payoutTether(ctx context.Context, stl *settlement.MonthlySettlement, w *wallet.BusinessWallet) {
	if !w.CanReceiveUSDT() {
		_ = stl.RecordTetherFailure("USDT address not configured")
		return
	}

	txHash, err := uc.chain.TransferFromPlatform(ctx, *w.USDTAddress(), stl.TetherTotalRaw())
	if err != nil {
		uc.logger.Errorw("stablecoin payout failed",
			"error", err, "settlement_id", stl.ID())
		_ = stl.RecordTetherFailure(err.Error())
		return
	}
	_ = stl.RecordTetherPayout(txHash, biztime.NowUTC())
}

// propagatePayoutStatus mirrors the settlement outcome onto the member
// payments: paid rails mark their payments paid_out, a fully failed
// settlement marks every payment payout_failed, and payments on a failed
// rail of a partial settlement stay queued for the next attempt.
func (uc *ProcessSettlementUseCase) propagatePayoutStatus(ctx context.Context, stl *settlement.MonthlySettlement) error {
	if stl.Status() == settlement.StatusFailed {
		return uc.paymentRepo.UpdatePayoutStatusForSettlement(ctx, stl.ID(), nil, vo.PayoutStatusFailed)
	}

	if stl.ZarinpalSucceeded() {
		method := vo.PaymentMethodZarinpal
		if err := uc.paymentRepo.UpdatePayoutStatusForSettlement(ctx, stl.ID(), &method, vo.PayoutStatusPaidOut); err != nil {
			return err
		}
	}
	if stl.TetherSucceeded() {
		method := vo.PaymentMethodTether
		if err := uc.paymentRepo.UpdatePayoutStatusForSettlement(ctx, stl.ID(), &method, vo.PayoutStatusPaidOut); err != nil {
			return err
		}
	}
	return nil
}
