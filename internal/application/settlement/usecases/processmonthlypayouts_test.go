package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastbite/internal/shared/biztime"
)

func TestProcessMonthlyPayouts(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, true)
	// Business 4 has no wallet; its settlement fails without aborting the batch.
	foldedSettlement(t, f, 3)
	failedID, _, _ := foldedSettlement(t, f, 4)

	month, year := biztime.MonthOf(biztime.NowUTC())

	result, err := f.batchUC().Execute(context.Background(), int(month), year)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Paid)
	assert.Equal(t, 0, result.Partial)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, biztime.FormatMonth(year, month), result.Period)

	// The failed settlement is reported with its reason.
	require.Len(t, result.Errors, 1)
	assert.Equal(t, failedID, result.Errors[0].SettlementID)
	assert.Contains(t, result.Errors[0].Reason, "wallet")
}

func TestProcessMonthlyPayoutsReportsPartialFailures(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, true)
	settlementID, _, _ := foldedSettlement(t, f, 3)

	f.chain.TransferErr = errors.New("node unreachable")

	month, year := biztime.MonthOf(biztime.NowUTC())

	result, err := f.batchUC().Execute(context.Background(), int(month), year)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Partial)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, settlementID, result.Errors[0].SettlementID)
	assert.Equal(t, "node unreachable", result.Errors[0].Reason)
}

func TestProcessMonthlyPayoutsEmptyPeriod(t *testing.T) {
	f := newFixture(t)

	result, err := f.batchUC().Execute(context.Background(), 1, 2020)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
}
