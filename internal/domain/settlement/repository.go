package settlement

import (
	"context"

	"lastbite/internal/shared/query"
)

type Repository interface {
	Create(ctx context.Context, settlement *MonthlySettlement) error
	Update(ctx context.Context, settlement *MonthlySettlement) error
	GetByID(ctx context.Context, id uint) (*MonthlySettlement, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*MonthlySettlement, error)

	// GetByBusinessAndPeriodForUpdate locks the open settlement bucket for
	// one business and calendar month.
	GetByBusinessAndPeriodForUpdate(ctx context.Context, businessID uint, month, year int) (*MonthlySettlement, error)

	ListPendingByPeriod(ctx context.Context, month, year int) ([]*MonthlySettlement, error)

	CreateSettlementPayment(ctx context.Context, item *SettlementPayment) error
	ListSettlementPayments(ctx context.Context, settlementID uint, page query.PageFilter) ([]*SettlementPayment, error)
}
