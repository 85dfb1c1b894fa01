package payment

import vo "lastbite/internal/domain/payment/valueobjects"

// Rounding steps for two-decimal amounts: 1 cent for fiat minor units,
// 10^4 raw units (0.01 USDT) for the stablecoin rail.
const (
	FeeStepFiat   int64 = 1
	FeeStepStable int64 = 10_000
)

const (
	DefaultZarinpalFeeBasisPoints int64 = 500
	DefaultTetherFeeBasisPoints   int64 = 300
)

// FeeSchedule holds the per-rail platform fee in basis points.
type FeeSchedule struct {
	ZarinpalBasisPoints int64
	TetherBasisPoints   int64
}

func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		ZarinpalBasisPoints: DefaultZarinpalFeeBasisPoints,
		TetherBasisPoints:   DefaultTetherFeeBasisPoints,
	}
}

func (f FeeSchedule) BasisPointsFor(method vo.PaymentMethod) int64 {
	if method.IsTether() {
		return f.TetherBasisPoints
	}
	return f.ZarinpalBasisPoints
}

// CalculateFee computes the platform fee on amount, rounded UP to step.
// The fee never rounds in the platform's disfavor.
func CalculateFee(amount, basisPoints, step int64) int64 {
	if amount <= 0 || basisPoints <= 0 {
		return 0
	}
	if step <= 0 {
		step = 1
	}
	numerator := amount * basisPoints
	denominator := 10_000 * step
	steps := numerator / denominator
	if numerator%denominator != 0 {
		steps++
	}
	return steps * step
}

// CalculateBusinessAmount computes what the business receives: amount minus
// fee, rounded DOWN to step. fee + business never exceeds amount.
func CalculateBusinessAmount(amount, fee, step int64) int64 {
	if step <= 0 {
		step = 1
	}
	remainder := amount - fee
	if remainder <= 0 {
		return 0
	}
	return (remainder / step) * step
}
