package payment

import (
	"context"

	vo "lastbite/internal/domain/payment/valueobjects"
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id uint) (*Payment, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*Payment, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*Payment, error)
	GetByAuthorityForUpdate(ctx context.Context, authority string) (*Payment, error)

	// GetCompletedByTxHash supports stablecoin verification idempotency:
	// a transaction hash finalizes at most one payment.
	GetCompletedByTxHash(ctx context.Context, txHash string) (*Payment, error)

	GetExpired(ctx context.Context, limit int) ([]*Payment, error)

	// GetCompletedWithPendingSideEffects lists completed payments whose
	// reservation or settlement fold still needs a retry.
	GetCompletedWithPendingSideEffects(ctx context.Context, limit int) ([]*Payment, error)

	// UpdatePayoutStatusForSettlement bulk-updates the payout sub-state of a
	// settlement's payments, optionally restricted to one rail.
	UpdatePayoutStatusForSettlement(ctx context.Context, settlementID uint, method *vo.PaymentMethod, status vo.PayoutStatus) error
}
