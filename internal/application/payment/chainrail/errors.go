package chainrail

import "fmt"

// ErrAmountMismatch builds the non-retryable error for a transfer whose
// amount falls outside tolerance.
func ErrAmountMismatch(expected, actual uint64) error {
	return fmt.Errorf("transferred amount %d does not match expected %d (tolerance %d raw units)",
		actual, expected, AmountToleranceRaw)
}
