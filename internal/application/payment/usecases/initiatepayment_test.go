package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/infrastructure/persistence/models"
	apperrors "lastbite/internal/shared/errors"
)

func TestInitiateGatewayPayment(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, false)

	result, err := f.initiateUC().Execute(context.Background(), defaultCommand("zarinpal"))
	require.NoError(t, err)
	require.NotEmpty(t, result.PaymentURL)

	p := f.reload(t, result.Payment.ID())
	assert.Equal(t, vo.PaymentStatusProcessing, p.Status())
	assert.Equal(t, vo.PaymentMethodZarinpal, p.Method())
	assert.NotNil(t, p.GatewayAuthority())
	assert.Equal(t, int64(500), p.FeeAmount())
	assert.Equal(t, int64(9_500), p.BusinessAmount())
	assert.False(t, p.IsExpired())
}

func TestInitiateTetherPayment(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, false, true)

	result, err := f.initiateUC().Execute(context.Background(), defaultCommand("tether"))
	require.NoError(t, err)
	require.NotEmpty(t, result.ReceivingAddress)

	// 100.00 EUR at 1.087 freezes as 108.70 USDT; the 3% fee rounds up to
	// the next 0.01 USDT.
	assert.Equal(t, uint64(108_700_000), result.AmountStableRaw)

	p := f.reload(t, result.Payment.ID())
	assert.Equal(t, vo.PaymentStatusProcessing, p.Status())
	assert.Equal(t, vo.PaymentMethodTether, p.Method())
	assert.Equal(t, uint64(108_700_000), p.AmountStableRaw())
	assert.Equal(t, uint64(3_270_000), p.Metadata().StableFeeRaw)
	assert.Equal(t, uint64(105_430_000), p.Metadata().StableBusinessRaw)
	assert.InDelta(t, 1.087, p.Metadata().ConversionRate, 1e-9)
	require.NotNil(t, p.ReceivingAddress())
	assert.Equal(t, result.ReceivingAddress, *p.ReceivingAddress())
}

func TestInitiateTetherFallsBackToGateway(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, false)

	result, err := f.initiateUC().Execute(context.Background(), defaultCommand("tether"))
	require.NoError(t, err)

	assert.Equal(t, vo.PaymentMethodZarinpal, result.Payment.Method())
	assert.NotEmpty(t, result.PaymentURL)
	assert.Empty(t, result.ReceivingAddress)
	assert.Equal(t, int64(1), f.paymentCount(t), "fallback must not leave a second payment row")
}

func TestInitiateFailsWithoutWallet(t *testing.T) {
	f := newFixture(t)

	_, err := f.initiateUC().Execute(context.Background(), defaultCommand("zarinpal"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, int64(0), f.paymentCount(t))
}

func TestInitiateTetherFailsWithoutAnyRail(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, false, false)

	_, err := f.initiateUC().Execute(context.Background(), defaultCommand("tether"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestInitiateTetherUnsupportedCurrency(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, false, true)

	cmd := defaultCommand("tether")
	cmd.Currency = "JPY"
	_, err := f.initiateUC().Execute(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, int64(0), f.paymentCount(t), "conversion failure must not persist a payment")
}

func TestInitiateRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, true)

	cmd := defaultCommand("paypal")
	_, err := f.initiateUC().Execute(context.Background(), cmd)
	assert.True(t, apperrors.IsValidationError(err))

	cmd = defaultCommand("zarinpal")
	cmd.AmountMinor = 0
	_, err = f.initiateUC().Execute(context.Background(), cmd)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestInitiateGatewayRequestFailureMarksPaymentFailed(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, false)
	f.gateway.RequestErr = errors.New("gateway down")

	_, err := f.initiateUC().Execute(context.Background(), defaultCommand("zarinpal"))
	require.Error(t, err)

	var model models.PaymentModel
	require.NoError(t, f.db.First(&model).Error)
	assert.Equal(t, vo.PaymentStatusFailed.String(), model.Status)
}
