package usecases

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastbite/internal/application/payment/gatewayrail"
	vo "lastbite/internal/domain/payment/valueobjects"
	apperrors "lastbite/internal/shared/errors"
)

// startGateway initiates a gateway payment and returns its authority.
func startGateway(t *testing.T, f *fixture) (uint, string) {
	t.Helper()
	result, err := f.initiateUC().Execute(context.Background(), defaultCommand("zarinpal"))
	require.NoError(t, err)
	require.NotNil(t, result.Payment.GatewayAuthority())
	return result.Payment.ID(), *result.Payment.GatewayAuthority()
}

func TestCompleteGatewayPayment(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, false)
	paymentID, authority := startGateway(t, f)

	result, err := f.completeUC().Execute(context.Background(), CompleteZarinpalPaymentCommand{Authority: authority})
	require.NoError(t, err)
	assert.NotEmpty(t, result.RefID)
	require.NotNil(t, result.ReservationID)

	p := f.reload(t, paymentID)
	assert.Equal(t, vo.PaymentStatusCompleted, p.Status())
	assert.Equal(t, vo.PayoutStatusQueuedForPayout, p.PayoutStatus())
	require.NotNil(t, p.CompletedAt())

	// Side effects ran after commit: reservation attached, payment folded
	// into the month's settlement, no retry markers left behind.
	require.NotNil(t, p.ReservationID())
	require.NotNil(t, p.SettlementID())
	assert.False(t, p.Metadata().ReservationPending)
	assert.False(t, p.Metadata().SettlementPending)

	rsv, err := f.reservations.GetByID(context.Background(), *p.ReservationID())
	require.NoError(t, err)
	assert.Equal(t, paymentID, rsv.PaymentID())

	stl, err := f.settlements.GetByID(context.Background(), *p.SettlementID())
	require.NoError(t, err)
	assert.Equal(t, int64(9_500), stl.ZarinpalTotal())
	assert.Equal(t, "EUR", stl.ZarinpalCurrency())
	assert.Equal(t, 1, stl.ZarinpalCount())
}

func TestCompleteGatewayPaymentTwice(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, false)
	_, authority := startGateway(t, f)

	_, err := f.completeUC().Execute(context.Background(), CompleteZarinpalPaymentCommand{Authority: authority})
	require.NoError(t, err)

	_, err = f.completeUC().Execute(context.Background(), CompleteZarinpalPaymentCommand{Authority: authority})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err), "replayed callback must not double-complete")
}

func TestCompleteGatewayConcurrentCallbacks(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, false)
	paymentID, authority := startGateway(t, f)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.completeUC().Execute(context.Background(), CompleteZarinpalPaymentCommand{Authority: authority})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.IsConflictError(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one callback completes the payment")
	assert.Equal(t, 1, conflicts)

	assert.Equal(t, vo.PaymentStatusCompleted, f.reload(t, paymentID).Status())
	assert.Equal(t, int64(1), f.reservationCount(t))
}

func TestCompleteGatewayRejectionFailsPayment(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, false)
	paymentID, authority := startGateway(t, f)

	f.gateway.VerifyErr = &gatewayrail.RailError{Code: -50, Message: "amount mismatch"}

	_, err := f.completeUC().Execute(context.Background(), CompleteZarinpalPaymentCommand{Authority: authority})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))

	p := f.reload(t, paymentID)
	assert.Equal(t, vo.PaymentStatusFailed, p.Status())
	assert.NotEmpty(t, p.Metadata().FailureReason)
}

func TestCompleteGatewayUnavailableKeepsProcessing(t *testing.T) {
	f := newFixture(t)
	f.seedWallet(t, 3, true, false)
	paymentID, authority := startGateway(t, f)

	f.gateway.VerifyErr = gatewayrail.ErrUnavailable

	_, err := f.completeUC().Execute(context.Background(), CompleteZarinpalPaymentCommand{Authority: authority})
	require.Error(t, err)

	p := f.reload(t, paymentID)
	assert.Equal(t, vo.PaymentStatusProcessing, p.Status(), "an outage must not fail the payment")

	// Once the gateway recovers the same callback completes normally.
	f.gateway.VerifyErr = nil
	_, err = f.completeUC().Execute(context.Background(), CompleteZarinpalPaymentCommand{Authority: authority})
	require.NoError(t, err)
	assert.Equal(t, vo.PaymentStatusCompleted, f.reload(t, paymentID).Status())
}

func TestCompleteGatewayUnknownAuthority(t *testing.T) {
	f := newFixture(t)

	_, err := f.completeUC().Execute(context.Background(), CompleteZarinpalPaymentCommand{Authority: "A-unknown"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestCompleteGatewayMissingAuthority(t *testing.T) {
	f := newFixture(t)

	_, err := f.completeUC().Execute(context.Background(), CompleteZarinpalPaymentCommand{})
	assert.True(t, apperrors.IsValidationError(err))
}
