package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettlement(t *testing.T) *MonthlySettlement {
	t.Helper()
	s, err := NewMonthlySettlement(42, 7, 2026)
	require.NoError(t, err)
	return s
}

func TestNewMonthlySettlement(t *testing.T) {
	s := newTestSettlement(t)
	assert.Equal(t, StatusPending, s.Status())
	assert.Equal(t, "2026-07", s.Period())
	assert.Contains(t, s.SettlementNo(), "stl_")

	_, err := NewMonthlySettlement(0, 7, 2026)
	assert.Error(t, err)
	_, err = NewMonthlySettlement(42, 13, 2026)
	assert.Error(t, err)
}

func TestAccumulation(t *testing.T) {
	s := newTestSettlement(t)

	require.NoError(t, s.AddZarinpalPayment(9_500, "EUR"))
	require.NoError(t, s.AddZarinpalPayment(4_750, "EUR"))
	require.NoError(t, s.AddTetherPayment(105_430_000))

	assert.Equal(t, int64(14_250), s.ZarinpalTotal())
	assert.Equal(t, 2, s.ZarinpalCount())
	assert.Equal(t, uint64(105_430_000), s.TetherTotalRaw())
	assert.Equal(t, 1, s.TetherCount())
}

func TestAccumulationRejectsCurrencyMix(t *testing.T) {
	s := newTestSettlement(t)
	require.NoError(t, s.AddZarinpalPayment(100, "EUR"))
	assert.Error(t, s.AddZarinpalPayment(100, "USD"))
}

func TestAccumulationClosedAfterClaim(t *testing.T) {
	s := newTestSettlement(t)
	require.NoError(t, s.AddZarinpalPayment(100, "EUR"))
	require.NoError(t, s.MarkProcessing())

	assert.Error(t, s.AddZarinpalPayment(100, "EUR"))
	assert.Error(t, s.AddTetherPayment(1_000_000))
	assert.Error(t, s.MarkProcessing(), "claim is single-shot")
}

func TestFinalizeBothRailsPaid(t *testing.T) {
	s := newTestSettlement(t)
	require.NoError(t, s.AddZarinpalPayment(9_500, "EUR"))
	require.NoError(t, s.AddTetherPayment(105_430_000))
	require.NoError(t, s.MarkProcessing())

	now := time.Now().UTC()
	require.NoError(t, s.RecordZarinpalPayout("po_1", now))
	require.NoError(t, s.RecordTetherPayout("0xhash", now))
	require.NoError(t, s.Finalize())

	assert.Equal(t, StatusPaid, s.Status())
	assert.True(t, s.ZarinpalSucceeded())
	assert.True(t, s.TetherSucceeded())
}

func TestFinalizePartial(t *testing.T) {
	s := newTestSettlement(t)
	require.NoError(t, s.AddZarinpalPayment(9_500, "EUR"))
	require.NoError(t, s.AddTetherPayment(105_430_000))
	require.NoError(t, s.MarkProcessing())

	require.NoError(t, s.RecordZarinpalPayout("po_1", time.Now().UTC()))
	require.NoError(t, s.RecordTetherFailure("insufficient platform balance"))
	require.NoError(t, s.Finalize())

	assert.Equal(t, StatusPartiallyPaid, s.Status())
	assert.False(t, s.TetherSucceeded())
	require.NotNil(t, s.TetherError())
	assert.Contains(t, *s.TetherError(), "balance")
}

func TestFinalizeAllFailed(t *testing.T) {
	s := newTestSettlement(t)
	require.NoError(t, s.AddZarinpalPayment(9_500, "EUR"))
	require.NoError(t, s.MarkProcessing())
	require.NoError(t, s.RecordZarinpalFailure("bank transfer not configured"))
	require.NoError(t, s.Finalize())

	assert.Equal(t, StatusFailed, s.Status())
}

// A rail with a zero total is not attempted and cannot drag the settlement
// down.
func TestFinalizeSingleRail(t *testing.T) {
	s := newTestSettlement(t)
	require.NoError(t, s.AddTetherPayment(1_000_000))
	require.NoError(t, s.MarkProcessing())
	require.NoError(t, s.RecordTetherPayout("0xhash", time.Now().UTC()))
	require.NoError(t, s.Finalize())

	assert.Equal(t, StatusPaid, s.Status())
	assert.False(t, s.ZarinpalSucceeded())
}

func TestSettlementPaymentSnapshot(t *testing.T) {
	item, err := NewSettlementPayment(1, 2, "zarinpal", 9_500, "EUR")
	require.NoError(t, err)
	assert.Equal(t, uint(1), item.SettlementID())
	assert.Equal(t, int64(9_500), item.BusinessAmount())

	_, err = NewSettlementPayment(1, 2, "zarinpal", 0, "EUR")
	assert.Error(t, err)
}
