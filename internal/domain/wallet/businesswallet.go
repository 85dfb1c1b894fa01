package wallet

import (
	"time"

	vo "lastbite/internal/domain/payment/valueobjects"
)

// BusinessWallet holds a business's payout destinations. The payment
// subsystem only reads it; onboarding owns the writes.
type BusinessWallet struct {
	id         uint
	businessID uint

	bankIdentifier *string
	bankEnabled    bool

	usdtAddress *string
	usdtEnabled bool

	preferredMethod vo.PaymentMethod

	createdAt time.Time
	updatedAt time.Time
}

// CanReceiveBank reports whether the fiat rail can pay this business.
func (w *BusinessWallet) CanReceiveBank() bool {
	return w.bankEnabled && w.bankIdentifier != nil && *w.bankIdentifier != ""
}

// CanReceiveUSDT reports whether the stablecoin rail can pay this business.
func (w *BusinessWallet) CanReceiveUSDT() bool {
	return w.usdtEnabled && w.usdtAddress != nil && *w.usdtAddress != ""
}

func (w *BusinessWallet) ID() uint                           { return w.id }
func (w *BusinessWallet) BusinessID() uint                   { return w.businessID }
func (w *BusinessWallet) BankIdentifier() *string            { return w.bankIdentifier }
func (w *BusinessWallet) USDTAddress() *string               { return w.usdtAddress }
func (w *BusinessWallet) PreferredMethod() vo.PaymentMethod  { return w.preferredMethod }
func (w *BusinessWallet) CreatedAt() time.Time               { return w.createdAt }
func (w *BusinessWallet) UpdatedAt() time.Time               { return w.updatedAt }

type ReconstructParams struct {
	ID              uint
	BusinessID      uint
	BankIdentifier  *string
	BankEnabled     bool
	USDTAddress     *string
	USDTEnabled     bool
	PreferredMethod vo.PaymentMethod
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func Reconstruct(params ReconstructParams) *BusinessWallet {
	return &BusinessWallet{
		id:              params.ID,
		businessID:      params.BusinessID,
		bankIdentifier:  params.BankIdentifier,
		bankEnabled:     params.BankEnabled,
		usdtAddress:     params.USDTAddress,
		usdtEnabled:     params.USDTEnabled,
		preferredMethod: params.PreferredMethod,
		createdAt:       params.CreatedAt,
		updatedAt:       params.UpdatedAt,
	}
}
