package settlement

import (
	"fmt"
	"time"

	"lastbite/internal/shared/biztime"
	"lastbite/internal/shared/id"
)

// MonthlySettlement accumulates one business's completed payments for one
// calendar month, per rail, and records the outcome of each rail's payout.
// The two rails succeed or fail independently.
type MonthlySettlement struct {
	id           uint
	settlementNo string
	businessID   uint
	month        int
	year         int
	status       Status

	// Zarinpal rail totals, in fiat minor units.
	zarinpalTotal    int64
	zarinpalCurrency string
	zarinpalCount    int

	// Tether rail totals, in raw 10^-6 units.
	tetherTotalRaw uint64
	tetherCount    int

	zarinpalPaidAt    *time.Time
	zarinpalPayoutRef *string
	zarinpalError     *string

	tetherPaidAt *time.Time
	tetherTxHash *string
	tetherError  *string

	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewMonthlySettlement(businessID uint, month, year int) (*MonthlySettlement, error) {
	if businessID == 0 {
		return nil, fmt.Errorf("business ID is required")
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}
	if year < 2000 {
		return nil, fmt.Errorf("invalid year: %d", year)
	}

	now := biztime.NowUTC()
	return &MonthlySettlement{
		settlementNo: id.MustGenerateWithPrefix(id.PrefixSettlement, id.DefaultLength),
		businessID:   businessID,
		month:        month,
		year:         year,
		status:       StatusPending,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// AddZarinpalPayment folds a completed gateway payment's business share into
// the fiat rail total. Rejected once payouts have started.
func (s *MonthlySettlement) AddZarinpalPayment(businessAmount int64, currency string) error {
	if err := s.ensureAccumulating(); err != nil {
		return err
	}
	if businessAmount <= 0 {
		return fmt.Errorf("business amount must be positive")
	}
	if s.zarinpalCount > 0 && s.zarinpalCurrency != currency {
		return fmt.Errorf("currency mismatch: settlement holds %s, payment is %s", s.zarinpalCurrency, currency)
	}
	s.zarinpalTotal += businessAmount
	s.zarinpalCurrency = currency
	s.zarinpalCount++
	s.touch()
	return nil
}

// AddTetherPayment folds a completed stablecoin payment's business share into
// the USDT rail total.
func (s *MonthlySettlement) AddTetherPayment(businessRaw uint64) error {
	if err := s.ensureAccumulating(); err != nil {
		return err
	}
	if businessRaw == 0 {
		return fmt.Errorf("business amount must be positive")
	}
	s.tetherTotalRaw += businessRaw
	s.tetherCount++
	s.touch()
	return nil
}

func (s *MonthlySettlement) ensureAccumulating() error {
	if s.status != StatusPending {
		return fmt.Errorf("cannot add payment to settlement with status %s", s.status)
	}
	return nil
}

// MarkProcessing claims the settlement for a payout run. Only one run ever
// claims it; callers hold a row lock while calling this.
func (s *MonthlySettlement) MarkProcessing() error {
	if s.status != StatusPending {
		return fmt.Errorf("settlement is not pending: %s", s.status)
	}
	s.status = StatusProcessing
	s.touch()
	return nil
}

func (s *MonthlySettlement) RecordZarinpalPayout(reference string, at time.Time) error {
	if s.status != StatusProcessing {
		return fmt.Errorf("settlement is not processing: %s", s.status)
	}
	s.zarinpalPayoutRef = &reference
	s.zarinpalPaidAt = &at
	s.zarinpalError = nil
	s.touch()
	return nil
}

func (s *MonthlySettlement) RecordZarinpalFailure(reason string) error {
	if s.status != StatusProcessing {
		return fmt.Errorf("settlement is not processing: %s", s.status)
	}
	s.zarinpalError = &reason
	s.touch()
	return nil
}

func (s *MonthlySettlement) RecordTetherPayout(txHash string, at time.Time) error {
	if s.status != StatusProcessing {
		return fmt.Errorf("settlement is not processing: %s", s.status)
	}
	s.tetherTxHash = &txHash
	s.tetherPaidAt = &at
	s.tetherError = nil
	s.touch()
	return nil
}

func (s *MonthlySettlement) RecordTetherFailure(reason string) error {
	if s.status != StatusProcessing {
		return fmt.Errorf("settlement is not processing: %s", s.status)
	}
	s.tetherError = &reason
	s.touch()
	return nil
}

// Finalize derives the terminal status from per-rail outcomes. Rails with a
// zero total are not attempted and do not count against the settlement.
func (s *MonthlySettlement) Finalize() error {
	if s.status != StatusProcessing {
		return fmt.Errorf("settlement is not processing: %s", s.status)
	}

	attempted := 0
	succeeded := 0
	if s.zarinpalTotal > 0 {
		attempted++
		if s.zarinpalPaidAt != nil {
			succeeded++
		}
	}
	if s.tetherTotalRaw > 0 {
		attempted++
		if s.tetherPaidAt != nil {
			succeeded++
		}
	}

	switch {
	case attempted == 0 || succeeded == attempted:
		s.status = StatusPaid
	case succeeded == 0:
		s.status = StatusFailed
	default:
		s.status = StatusPartiallyPaid
	}
	s.touch()
	return nil
}

// ZarinpalSucceeded reports whether the fiat rail was attempted and paid.
func (s *MonthlySettlement) ZarinpalSucceeded() bool {
	return s.zarinpalTotal > 0 && s.zarinpalPaidAt != nil
}

// TetherSucceeded reports whether the USDT rail was attempted and paid.
func (s *MonthlySettlement) TetherSucceeded() bool {
	return s.tetherTotalRaw > 0 && s.tetherPaidAt != nil
}

func (s *MonthlySettlement) touch() {
	s.updatedAt = biztime.NowUTC()
	s.version++
}

func (s *MonthlySettlement) ID() uint                      { return s.id }
func (s *MonthlySettlement) SettlementNo() string          { return s.settlementNo }
func (s *MonthlySettlement) BusinessID() uint              { return s.businessID }
func (s *MonthlySettlement) Month() int                    { return s.month }
func (s *MonthlySettlement) Year() int                     { return s.year }
func (s *MonthlySettlement) Status() Status                { return s.status }
func (s *MonthlySettlement) ZarinpalTotal() int64          { return s.zarinpalTotal }
func (s *MonthlySettlement) ZarinpalCurrency() string      { return s.zarinpalCurrency }
func (s *MonthlySettlement) ZarinpalCount() int            { return s.zarinpalCount }
func (s *MonthlySettlement) TetherTotalRaw() uint64        { return s.tetherTotalRaw }
func (s *MonthlySettlement) TetherCount() int              { return s.tetherCount }
func (s *MonthlySettlement) ZarinpalPaidAt() *time.Time    { return s.zarinpalPaidAt }
func (s *MonthlySettlement) ZarinpalPayoutRef() *string    { return s.zarinpalPayoutRef }
func (s *MonthlySettlement) ZarinpalError() *string        { return s.zarinpalError }
func (s *MonthlySettlement) TetherPaidAt() *time.Time      { return s.tetherPaidAt }
func (s *MonthlySettlement) TetherTxHash() *string         { return s.tetherTxHash }
func (s *MonthlySettlement) TetherError() *string          { return s.tetherError }
func (s *MonthlySettlement) Version() int                  { return s.version }
func (s *MonthlySettlement) CreatedAt() time.Time          { return s.createdAt }
func (s *MonthlySettlement) UpdatedAt() time.Time          { return s.updatedAt }

func (s *MonthlySettlement) SetID(settlementID uint) {
	s.id = settlementID
}

// Period renders the settlement month as "YYYY-MM".
func (s *MonthlySettlement) Period() string {
	return biztime.FormatMonth(s.year, time.Month(s.month))
}

type ReconstructParams struct {
	ID                uint
	SettlementNo      string
	BusinessID        uint
	Month             int
	Year              int
	Status            Status
	ZarinpalTotal     int64
	ZarinpalCurrency  string
	ZarinpalCount     int
	TetherTotalRaw    uint64
	TetherCount       int
	ZarinpalPaidAt    *time.Time
	ZarinpalPayoutRef *string
	ZarinpalError     *string
	TetherPaidAt      *time.Time
	TetherTxHash      *string
	TetherError       *string
	Version           int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func Reconstruct(params ReconstructParams) *MonthlySettlement {
	return &MonthlySettlement{
		id:                params.ID,
		settlementNo:      params.SettlementNo,
		businessID:        params.BusinessID,
		month:             params.Month,
		year:              params.Year,
		status:            params.Status,
		zarinpalTotal:     params.ZarinpalTotal,
		zarinpalCurrency:  params.ZarinpalCurrency,
		zarinpalCount:     params.ZarinpalCount,
		tetherTotalRaw:    params.TetherTotalRaw,
		tetherCount:       params.TetherCount,
		zarinpalPaidAt:    params.ZarinpalPaidAt,
		zarinpalPayoutRef: params.ZarinpalPayoutRef,
		zarinpalError:     params.ZarinpalError,
		tetherPaidAt:      params.TetherPaidAt,
		tetherTxHash:      params.TetherTxHash,
		tetherError:       params.TetherError,
		version:           params.Version,
		createdAt:         params.CreatedAt,
		updatedAt:         params.UpdatedAt,
	}
}
