package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vo "lastbite/internal/domain/payment/valueobjects"
)

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		basisPoints int64
		step        int64
		want        int64
	}{
		{"exact split 100.00 EUR at 5%", 10_000, 500, FeeStepFiat, 500},
		{"rounds up on fractional cent", 10_001, 500, FeeStepFiat, 501},
		{"small amount still pays a cent", 1, 500, FeeStepFiat, 1},
		{"zero amount", 0, 500, FeeStepFiat, 0},
		{"zero basis points", 10_000, 0, FeeStepFiat, 0},
		{"stablecoin 108.70 USDT at 3%", 108_700_000, 300, FeeStepStable, 3_270_000},
		{"stablecoin rounds up to 0.01", 99_990_000, 300, FeeStepStable, 3_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateFee(tt.amount, tt.basisPoints, tt.step))
		})
	}
}

func TestCalculateBusinessAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		fee    int64
		step   int64
		want   int64
	}{
		{"exact split 100.00 EUR", 10_000, 500, FeeStepFiat, 9_500},
		{"stablecoin 108.70 USDT", 108_700_000, 3_270_000, FeeStepStable, 105_430_000},
		{"floors to step", 108_700_001, 3_270_000, FeeStepStable, 105_430_000},
		{"fee exceeds amount", 100, 200, FeeStepFiat, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateBusinessAmount(tt.amount, tt.fee, tt.step))
		})
	}
}

// Fee plus business share must never exceed the charged amount, for any
// combination of rounding directions.
func TestFeeSplitNeverExceedsAmount(t *testing.T) {
	for _, amount := range []int64{1, 99, 100, 101, 9_999, 10_000, 10_001, 123_457} {
		for _, bp := range []int64{1, 300, 500, 999, 2_500} {
			fee := CalculateFee(amount, bp, FeeStepFiat)
			business := CalculateBusinessAmount(amount, fee, FeeStepFiat)
			assert.LessOrEqual(t, fee+business, amount,
				"amount=%d bp=%d", amount, bp)
		}
	}
}

func TestFeeScheduleBasisPointsFor(t *testing.T) {
	schedule := DefaultFeeSchedule()
	assert.Equal(t, int64(500), schedule.BasisPointsFor(vo.PaymentMethodZarinpal))
	assert.Equal(t, int64(300), schedule.BasisPointsFor(vo.PaymentMethodTether))
}
