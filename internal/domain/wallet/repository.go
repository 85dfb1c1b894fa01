package wallet

import "context"

// Repository is read-only from the payment subsystem's point of view.
type Repository interface {
	GetByBusinessID(ctx context.Context, businessID uint) (*BusinessWallet, error)
}
