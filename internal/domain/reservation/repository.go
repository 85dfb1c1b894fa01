package reservation

import "context"

type Repository interface {
	Create(ctx context.Context, reservation *Reservation) error
	Update(ctx context.Context, reservation *Reservation) error
	GetByID(ctx context.Context, id uint) (*Reservation, error)
	GetByPaymentID(ctx context.Context, paymentID uint) (*Reservation, error)
	GetByClaimToken(ctx context.Context, token string) (*Reservation, error)
}
