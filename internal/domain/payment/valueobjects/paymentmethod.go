package valueobjects

import "fmt"

// PaymentMethod identifies the settlement rail a payment moves on.
type PaymentMethod string

const (
	// PaymentMethodZarinpal is the hosted fiat gateway rail.
	PaymentMethodZarinpal PaymentMethod = "zarinpal"
	// PaymentMethodTether is the on-chain USDT rail.
	PaymentMethodTether PaymentMethod = "tether"
)

func NewPaymentMethod(method string) (PaymentMethod, error) {
	pm := PaymentMethod(method)
	if !pm.IsValid() {
		return "", fmt.Errorf("invalid payment method: %s", method)
	}
	return pm, nil
}

func (pm PaymentMethod) IsValid() bool {
	switch pm {
	case PaymentMethodZarinpal, PaymentMethodTether:
		return true
	default:
		return false
	}
}

// IsTether returns true if this payment moves on the stablecoin rail.
func (pm PaymentMethod) IsTether() bool {
	return pm == PaymentMethodTether
}

func (pm PaymentMethod) String() string {
	return string(pm)
}
