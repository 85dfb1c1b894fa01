package settlement

import (
	"fmt"
	"time"

	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/shared/biztime"
)

// SettlementPayment is the immutable line item snapshotting one payment's
// contribution to a settlement: rail-native business amount at fold time.
type SettlementPayment struct {
	id           uint
	settlementID uint
	paymentID    uint
	method       vo.PaymentMethod

	// Fiat minor units for the gateway rail, raw 10^-6 units for the
	// stablecoin rail.
	businessAmount int64
	currency       string

	createdAt time.Time
}

func NewSettlementPayment(settlementID, paymentID uint, method vo.PaymentMethod, businessAmount int64, currency string) (*SettlementPayment, error) {
	if settlementID == 0 || paymentID == 0 {
		return nil, fmt.Errorf("settlement ID and payment ID are required")
	}
	if businessAmount <= 0 {
		return nil, fmt.Errorf("business amount must be positive")
	}
	return &SettlementPayment{
		settlementID:   settlementID,
		paymentID:      paymentID,
		method:         method,
		businessAmount: businessAmount,
		currency:       currency,
		createdAt:      biztime.NowUTC(),
	}, nil
}

func (sp *SettlementPayment) ID() uint                 { return sp.id }
func (sp *SettlementPayment) SettlementID() uint       { return sp.settlementID }
func (sp *SettlementPayment) PaymentID() uint          { return sp.paymentID }
func (sp *SettlementPayment) Method() vo.PaymentMethod { return sp.method }
func (sp *SettlementPayment) BusinessAmount() int64    { return sp.businessAmount }
func (sp *SettlementPayment) Currency() string         { return sp.currency }
func (sp *SettlementPayment) CreatedAt() time.Time     { return sp.createdAt }

func (sp *SettlementPayment) SetID(id uint) {
	sp.id = id
}

func ReconstructSettlementPayment(id, settlementID, paymentID uint, method vo.PaymentMethod, businessAmount int64, currency string, createdAt time.Time) *SettlementPayment {
	return &SettlementPayment{
		id:             id,
		settlementID:   settlementID,
		paymentID:      paymentID,
		method:         method,
		businessAmount: businessAmount,
		currency:       currency,
		createdAt:      createdAt,
	}
}
