package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lastbite/internal/application/payment/chainrail"
	"lastbite/internal/application/payment/exchangerate"
	"lastbite/internal/application/payment/gatewayrail"
	"lastbite/internal/domain/payment"
	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/domain/wallet"
	apperrors "lastbite/internal/shared/errors"
	"lastbite/internal/shared/logger"
)

type InitiatePaymentCommand struct {
	OfferID     uint
	BuyerID     uint
	BusinessID  uint
	AmountMinor int64
	Currency    string
	Method      string
	PickupAt    time.Time
	BuyerEmail  string
	Description string
}

type InitiatePaymentResult struct {
	Payment *payment.Payment

	// Gateway rail.
	PaymentURL string

	// Stablecoin rail.
	ReceivingAddress string
	AmountStableRaw  uint64
}

type InitiatePaymentConfig struct {
	CallbackURL string
	ExpiresIn   time.Duration
}

type InitiatePaymentUseCase struct {
	paymentRepo payment.Repository
	walletRepo  wallet.Repository
	gateway     gatewayrail.Rail
	chain       chainrail.Rail
	rates       exchangerate.Service
	fees        payment.FeeSchedule
	logger      logger.Interface
	config      InitiatePaymentConfig
}

func NewInitiatePaymentUseCase(
	paymentRepo payment.Repository,
	walletRepo wallet.Repository,
	gateway gatewayrail.Rail,
	chain chainrail.Rail,
	rates exchangerate.Service,
	fees payment.FeeSchedule,
	logger logger.Interface,
	config InitiatePaymentConfig,
) *InitiatePaymentUseCase {
	return &InitiatePaymentUseCase{
		paymentRepo: paymentRepo,
		walletRepo:  walletRepo,
		gateway:     gateway,
		chain:       chain,
		rates:       rates,
		fees:        fees,
		logger:      logger,
		config:      config,
	}
}

func (uc *InitiatePaymentUseCase) Execute(ctx context.Context, cmd InitiatePaymentCommand) (*InitiatePaymentResult, error) {
	method, err := vo.NewPaymentMethod(cmd.Method)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if cmd.AmountMinor <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive")
	}

	// The effective rail is resolved before anything is persisted, so a
	// stablecoin request falling back to the gateway still produces exactly
	// one payment row.
	method, err = uc.resolveMethod(ctx, cmd.BusinessID, method)
	if err != nil {
		return nil, err
	}

	amount := vo.NewMoney(cmd.AmountMinor, cmd.Currency)
	basisPoints := uc.fees.BasisPointsFor(method)
	fee := payment.CalculateFee(amount.AmountMinor(), basisPoints, payment.FeeStepFiat)
	business := payment.CalculateBusinessAmount(amount.AmountMinor(), fee, payment.FeeStepFiat)

	p, err := payment.NewPayment(payment.NewPaymentParams{
		OfferID:    cmd.OfferID,
		BuyerID:    cmd.BuyerID,
		BusinessID: cmd.BusinessID,
		Amount:     amount,
		Method:     method,
		Fee:        fee,
		Business:   business,
		ExpiresIn:  uc.config.ExpiresIn,
		Metadata:   payment.Metadata{PickupAt: cmd.PickupAt},
	})
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if method.IsTether() {
		if err := uc.freezeConversion(ctx, p, amount); err != nil {
			return nil, err
		}
	}

	if err := uc.paymentRepo.Create(ctx, p); err != nil {
		uc.logger.Errorw("failed to persist payment", "error", err, "offer_id", cmd.OfferID)
		return nil, apperrors.NewInternalError("failed to create payment", err.Error())
	}

	if method.IsTether() {
		return uc.startChainPayment(ctx, p)
	}
	return uc.startGatewayPayment(ctx, p, cmd)
}

// resolveMethod applies the transparent fallback: a stablecoin request for a
// business without a usable USDT address becomes a gateway payment, provided
// the bank rail is configured.
func (uc *InitiatePaymentUseCase) resolveMethod(ctx context.Context, businessID uint, requested vo.PaymentMethod) (vo.PaymentMethod, error) {
	w, err := uc.walletRepo.GetByBusinessID(ctx, businessID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return "", apperrors.NewValidationError("business has no payout wallet configured")
		}
		uc.logger.Errorw("failed to load business wallet", "error", err, "business_id", businessID)
		return "", apperrors.NewInternalError("failed to load business wallet", err.Error())
	}

	if requested.IsTether() {
		if w.CanReceiveUSDT() {
			return requested, nil
		}
		if w.CanReceiveBank() {
			uc.logger.Infow("falling back to gateway rail, business cannot receive USDT",
				"business_id", businessID)
			return vo.PaymentMethodZarinpal, nil
		}
		return "", apperrors.NewValidationError("business cannot receive payouts on any rail")
	}

	if !w.CanReceiveBank() {
		return "", apperrors.NewValidationError("business cannot receive bank payouts")
	}
	return requested, nil
}

func (uc *InitiatePaymentUseCase) freezeConversion(ctx context.Context, p *payment.Payment, amount vo.Money) error {
	totalRaw, rate, err := uc.rates.ConvertToUSDTRaw(ctx, amount.AmountMinor(), amount.Currency())
	if err != nil {
		if errors.Is(err, exchangerate.ErrUnsupportedCurrency) {
			return apperrors.NewValidationError(fmt.Sprintf("currency %s is not supported for stablecoin payments", amount.Currency()))
		}
		uc.logger.Errorw("currency conversion failed", "error", err, "currency", amount.Currency())
		return apperrors.NewInternalError("currency conversion failed", err.Error())
	}

	feeRaw := payment.CalculateFee(int64(totalRaw), uc.fees.TetherBasisPoints, payment.FeeStepStable)
	businessRaw := payment.CalculateBusinessAmount(int64(totalRaw), feeRaw, payment.FeeStepStable)
	if err := p.FreezeStableAmounts(totalRaw, uint64(feeRaw), uint64(businessRaw), rate); err != nil {
		return apperrors.NewInternalError("failed to freeze conversion", err.Error())
	}
	return nil
}

func (uc *InitiatePaymentUseCase) startGatewayPayment(ctx context.Context, p *payment.Payment, cmd InitiatePaymentCommand) (*InitiatePaymentResult, error) {
	res, err := uc.gateway.RequestPayment(ctx, gatewayrail.PaymentRequest{
		OrderNo:     p.OrderNo(),
		Amount:      p.Amount().AmountMinor(),
		Currency:    p.Amount().Currency(),
		Description: cmd.Description,
		Email:       cmd.BuyerEmail,
		CallbackURL: uc.config.CallbackURL,
	})
	if err != nil {
		uc.logger.Errorw("gateway payment request failed", "error", err, "order_no", p.OrderNo())
		if markErr := p.MarkFailed(err.Error()); markErr == nil {
			if updErr := uc.paymentRepo.Update(ctx, p); updErr != nil {
				uc.logger.Errorw("failed to record payment failure", "error", updErr, "order_no", p.OrderNo())
			}
		}
		return nil, apperrors.NewInternalError("payment gateway rejected the request", err.Error())
	}

	if err := p.MarkProcessingGateway(res.Authority); err != nil {
		return nil, apperrors.NewInternalError("failed to advance payment", err.Error())
	}
	if err := uc.paymentRepo.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to persist processing payment", "error", err, "order_no", p.OrderNo())
		return nil, apperrors.NewInternalError("failed to update payment", err.Error())
	}

	return &InitiatePaymentResult{Payment: p, PaymentURL: res.PaymentURL}, nil
}

func (uc *InitiatePaymentUseCase) startChainPayment(ctx context.Context, p *payment.Payment) (*InitiatePaymentResult, error) {
	info, err := uc.chain.GeneratePaymentRequest(ctx, p.AmountStableRaw())
	if err != nil {
		uc.logger.Errorw("chain payment request failed", "error", err, "order_no", p.OrderNo())
		if markErr := p.MarkFailed(err.Error()); markErr == nil {
			if updErr := uc.paymentRepo.Update(ctx, p); updErr != nil {
				uc.logger.Errorw("failed to record payment failure", "error", updErr, "order_no", p.OrderNo())
			}
		}
		return nil, apperrors.NewInternalError("failed to prepare stablecoin payment", err.Error())
	}

	if err := p.MarkProcessingChain(info.ReceivingAddress); err != nil {
		return nil, apperrors.NewInternalError("failed to advance payment", err.Error())
	}
	if err := uc.paymentRepo.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to persist processing payment", "error", err, "order_no", p.OrderNo())
		return nil, apperrors.NewInternalError("failed to update payment", err.Error())
	}

	return &InitiatePaymentResult{
		Payment:          p,
		ReceivingAddress: info.ReceivingAddress,
		AmountStableRaw:  info.AmountRaw,
	}, nil
}
