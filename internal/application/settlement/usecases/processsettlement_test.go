package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/domain/settlement"
	apperrors "lastbite/internal/shared/errors"
)

// foldedSettlement seeds one payment per rail for businessID and folds both
// into the month's bucket.
func foldedSettlement(t *testing.T, f *fixture, businessID uint) (uint, uint, uint) {
	t.Helper()
	pz := f.seedCompletedZarinpal(t, businessID)
	pt := f.seedCompletedTether(t, businessID)
	require.NoError(t, f.addUC().Execute(context.Background(), pz.ID()))
	require.NoError(t, f.addUC().Execute(context.Background(), pt.ID()))
	settlementID := *f.reloadPayment(t, pz.ID()).SettlementID()
	return settlementID, pz.ID(), pt.ID()
}

func TestProcessSettlementPaysBothRails(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, true)
	settlementID, zID, tID := foldedSettlement(t, f, 3)

	stl, err := f.processUC().Execute(context.Background(), settlementID)
	require.NoError(t, err)
	assert.Equal(t, settlement.StatusPaid, stl.Status())
	assert.NotNil(t, stl.ZarinpalPayoutRef())
	assert.NotNil(t, stl.ZarinpalPaidAt())
	assert.NotNil(t, stl.TetherTxHash())
	assert.NotNil(t, stl.TetherPaidAt())

	transfers := f.chain.Transfers()
	require.Len(t, transfers, 1)
	assert.Equal(t, testUSDTAddress, transfers[0].ToAddress)
	assert.Equal(t, uint64(105_430_000), transfers[0].AmountRaw)

	pz := f.reloadPayment(t, zID)
	pt := f.reloadPayment(t, tID)
	assert.Equal(t, vo.PayoutStatusPaidOut, pz.PayoutStatus())
	assert.Equal(t, vo.PayoutStatusPaidOut, pt.PayoutStatus())
	assert.NotNil(t, pz.PaidOutAt())
	assert.NotNil(t, pt.PaidOutAt())
}

func TestProcessSettlementPartialFailure(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, true)
	settlementID, zID, tID := foldedSettlement(t, f, 3)

	f.chain.TransferErr = errors.New("node unreachable")

	stl, err := f.processUC().Execute(context.Background(), settlementID)
	require.NoError(t, err)
	assert.Equal(t, settlement.StatusPartiallyPaid, stl.Status())
	require.NotNil(t, stl.TetherError())
	assert.Nil(t, stl.TetherPaidAt())

	// The paid rail propagates; the failed rail's payments stay queued for
	// the next attempt.
	assert.Equal(t, vo.PayoutStatusPaidOut, f.reloadPayment(t, zID).PayoutStatus())
	assert.Equal(t, vo.PayoutStatusQueuedForPayout, f.reloadPayment(t, tID).PayoutStatus())
}

func TestProcessSettlementAllRailsFail(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, true)
	settlementID, zID, tID := foldedSettlement(t, f, 3)

	f.gateway.TransferErr = errors.New("gateway down")
	f.chain.TransferErr = errors.New("node unreachable")

	stl, err := f.processUC().Execute(context.Background(), settlementID)
	require.NoError(t, err)
	assert.Equal(t, settlement.StatusFailed, stl.Status())

	assert.Equal(t, vo.PayoutStatusFailed, f.reloadPayment(t, zID).PayoutStatus())
	assert.Equal(t, vo.PayoutStatusFailed, f.reloadPayment(t, tID).PayoutStatus())
}

func TestProcessSettlementMissingWallet(t *testing.T) {
	f := newFixture(t)
	settlementID, zID, _ := foldedSettlement(t, f, 3)

	stl, err := f.processUC().Execute(context.Background(), settlementID)
	require.NoError(t, err)
	assert.Equal(t, settlement.StatusFailed, stl.Status())
	assert.Equal(t, vo.PayoutStatusFailed, f.reloadPayment(t, zID).PayoutStatus())
}

func TestProcessSettlementSingleRail(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, false)
	p := f.seedCompletedZarinpal(t, 3)
	require.NoError(t, f.addUC().Execute(context.Background(), p.ID()))
	settlementID := *f.reloadPayment(t, p.ID()).SettlementID()

	stl, err := f.processUC().Execute(context.Background(), settlementID)
	require.NoError(t, err)
	assert.Equal(t, settlement.StatusPaid, stl.Status(), "a rail with nothing to pay is not attempted")
	assert.Empty(t, f.chain.Transfers())
}

func TestProcessSettlementTwice(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, true)
	settlementID, _, _ := foldedSettlement(t, f, 3)

	_, err := f.processUC().Execute(context.Background(), settlementID)
	require.NoError(t, err)

	_, err = f.processUC().Execute(context.Background(), settlementID)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err), "a settled month must not pay out twice")
}
