package exchangerate

import (
	"context"
	"errors"
)

// ErrUnsupportedCurrency rejects conversion from a currency without a
// configured rate.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Service converts fiat amounts to USDT raw units at a cached market rate.
type Service interface {
	// GetRates returns stablecoin-per-source-unit rates keyed by currency
	// code.
	GetRates(ctx context.Context) (map[string]float64, error)

	// ConvertToUSDTRaw converts amountMinor of currency to raw 10^-6 USDT
	// units, rounded up to 2 decimals, and returns the rate used.
	ConvertToUSDTRaw(ctx context.Context, amountMinor int64, currency string) (uint64, float64, error)
}
