package valueobjects

// PayoutStatus is the payout sub-state of a completed payment, independent of
// the completion state machine. The settlement service is its only writer.
type PayoutStatus string

const (
	PayoutStatusNone            PayoutStatus = ""
	PayoutStatusQueuedForPayout PayoutStatus = "queued_for_payout"
	PayoutStatusPaidOut         PayoutStatus = "paid_out"
	PayoutStatusFailed          PayoutStatus = "payout_failed"
)

func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusNone, PayoutStatusQueuedForPayout, PayoutStatusPaidOut, PayoutStatusFailed:
		return true
	default:
		return false
	}
}

func (s PayoutStatus) String() string {
	return string(s)
}
