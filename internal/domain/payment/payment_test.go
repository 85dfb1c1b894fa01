package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "lastbite/internal/domain/payment/valueobjects"
)

func newTestPayment(t *testing.T, method vo.PaymentMethod) *Payment {
	t.Helper()
	p, err := NewPayment(NewPaymentParams{
		OfferID:    1,
		BuyerID:    2,
		BusinessID: 3,
		Amount:     vo.NewMoney(10_000, "EUR"),
		Method:     method,
		Fee:        500,
		Business:   9_500,
		Metadata:   Metadata{PickupAt: time.Now().Add(2 * time.Hour)},
	})
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	p := newTestPayment(t, vo.PaymentMethodZarinpal)

	assert.Equal(t, vo.PaymentStatusPending, p.Status())
	assert.Equal(t, vo.PayoutStatusNone, p.PayoutStatus())
	assert.True(t, len(p.OrderNo()) > 4)
	assert.Contains(t, p.OrderNo(), "pay_")
	assert.False(t, p.ExpiresAt().IsZero())
}

func TestNewPaymentValidation(t *testing.T) {
	_, err := NewPayment(NewPaymentParams{
		BuyerID: 2, BusinessID: 3,
		Amount: vo.NewMoney(100, "EUR"), Method: vo.PaymentMethodZarinpal,
	})
	assert.Error(t, err)

	_, err = NewPayment(NewPaymentParams{
		OfferID: 1, BuyerID: 2, BusinessID: 3,
		Amount: vo.NewMoney(100, "EUR"), Method: vo.PaymentMethodZarinpal,
		Fee: 90, Business: 20,
	})
	assert.Error(t, err, "fee split exceeding amount must be rejected")
}

func TestGatewayLifecycle(t *testing.T) {
	p := newTestPayment(t, vo.PaymentMethodZarinpal)

	require.NoError(t, p.MarkProcessingGateway("A0000123"))
	assert.Equal(t, vo.PaymentStatusProcessing, p.Status())

	require.NoError(t, p.CompleteGateway("ref-42"))
	assert.Equal(t, vo.PaymentStatusCompleted, p.Status())
	assert.Equal(t, vo.PayoutStatusQueuedForPayout, p.PayoutStatus())
	assert.NotNil(t, p.CompletedAt())
}

func TestChainLifecycle(t *testing.T) {
	p := newTestPayment(t, vo.PaymentMethodTether)
	require.NoError(t, p.FreezeStableAmounts(108_700_000, 3_270_000, 105_430_000, 1.087))

	require.NoError(t, p.MarkProcessingChain("0xplatform"))
	require.NoError(t, p.CompleteChain("0xhash", "0xsender"))

	assert.Equal(t, vo.PaymentStatusCompleted, p.Status())
	assert.Equal(t, uint64(108_700_000), p.AmountStableRaw())
	assert.Equal(t, uint64(105_430_000), p.Metadata().StableBusinessRaw)
}

func TestCompletionRequiresProcessing(t *testing.T) {
	p := newTestPayment(t, vo.PaymentMethodZarinpal)
	assert.Error(t, p.CompleteGateway("ref"), "pending payment must not complete directly")
}

func TestCompletedPaymentIsImmutable(t *testing.T) {
	p := newTestPayment(t, vo.PaymentMethodZarinpal)
	require.NoError(t, p.MarkProcessingGateway("A1"))
	require.NoError(t, p.CompleteGateway("ref"))

	assert.Error(t, p.MarkFailed("too late"))
	assert.Error(t, p.CompleteGateway("ref-again"))
	assert.Error(t, p.MarkProcessingGateway("A2"))
}

func TestFailedPaymentStaysFailed(t *testing.T) {
	p := newTestPayment(t, vo.PaymentMethodZarinpal)
	require.NoError(t, p.MarkFailed("gateway rejected"))

	assert.Equal(t, vo.PaymentStatusFailed, p.Status())
	assert.Equal(t, "gateway rejected", p.Metadata().FailureReason)
	assert.Error(t, p.MarkProcessingGateway("A1"))
	assert.Error(t, p.MarkFailed("again"))
}

func TestAttachReservationOnce(t *testing.T) {
	p := newTestPayment(t, vo.PaymentMethodZarinpal)
	require.NoError(t, p.MarkProcessingGateway("A1"))
	require.NoError(t, p.CompleteGateway("ref"))

	require.NoError(t, p.AttachReservation(7))
	assert.Error(t, p.AttachReservation(8))
	assert.Equal(t, uint(7), *p.ReservationID())
}

func TestAttachSettlementOnce(t *testing.T) {
	p := newTestPayment(t, vo.PaymentMethodZarinpal)
	require.NoError(t, p.MarkProcessingGateway("A1"))
	require.NoError(t, p.CompleteGateway("ref"))

	require.NoError(t, p.AttachSettlement(11))
	assert.Error(t, p.AttachSettlement(12))
}

func TestPayoutSubState(t *testing.T) {
	p := newTestPayment(t, vo.PaymentMethodZarinpal)
	require.NoError(t, p.MarkProcessingGateway("A1"))
	require.NoError(t, p.CompleteGateway("ref"))

	require.NoError(t, p.MarkPaidOut(time.Now().UTC()))
	assert.Equal(t, vo.PayoutStatusPaidOut, p.PayoutStatus())
	assert.Error(t, p.MarkPayoutFailed(), "paid out is terminal")

	// Completion state is untouched by payout transitions.
	assert.Equal(t, vo.PaymentStatusCompleted, p.Status())
}

func TestIsExpired(t *testing.T) {
	p := newTestPayment(t, vo.PaymentMethodZarinpal)
	assert.False(t, p.IsExpired())

	expired, err := NewPayment(NewPaymentParams{
		OfferID: 1, BuyerID: 2, BusinessID: 3,
		Amount: vo.NewMoney(100, "EUR"), Method: vo.PaymentMethodZarinpal,
		ExpiresIn: time.Nanosecond,
	})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	assert.True(t, expired.IsExpired())
}
