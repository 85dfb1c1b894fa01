package settlement

// Status is the settlement lifecycle: pending while the month accumulates,
// processing while payouts run, then paid / partially_paid / failed.
type Status string

const (
	StatusPending       Status = "pending"
	StatusProcessing    Status = "processing"
	StatusPaid          Status = "paid"
	StatusPartiallyPaid Status = "partially_paid"
	StatusFailed        Status = "failed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusPaid, StatusPartiallyPaid, StatusFailed:
		return true
	default:
		return false
	}
}

func (s Status) IsFinal() bool {
	return s == StatusPaid || s == StatusPartiallyPaid || s == StatusFailed
}

func (s Status) String() string {
	return string(s)
}
