package chainrail

import (
	"context"
	"errors"
)

const (
	// TokenDecimals is USDT's on-chain precision; 1 USDT = 10^6 raw units.
	TokenDecimals = 6
	TokenUnit     = 1_000_000

	// AmountToleranceRaw absorbs sub-cent dust between the requested and the
	// transferred amount: 0.01 USDT.
	AmountToleranceRaw uint64 = 10_000
)

var (
	// ErrInsufficientConfirmations is retryable: the transfer exists but has
	// not matured yet. The payment stays in processing.
	ErrInsufficientConfirmations = errors.New("insufficient confirmations")

	// ErrTransactionNotFound is retryable: the transaction is unknown to the
	// node or still pending inclusion.
	ErrTransactionNotFound = errors.New("transaction not found or pending")
)

// IsRetryable reports whether a verification error means "ask again later"
// rather than "the payment failed".
func IsRetryable(err error) bool {
	return errors.Is(err, ErrInsufficientConfirmations) || errors.Is(err, ErrTransactionNotFound)
}

type PaymentRequestInfo struct {
	ReceivingAddress string
	AmountRaw        uint64
}

type VerifyParams struct {
	TxHash           string
	RecipientAddress string
	ExpectedRaw      uint64
	MinConfirmations uint64
}

type VerifyResult struct {
	TxHash        string
	SenderAddress string
	AmountRaw     uint64
	BlockNumber   uint64
	Confirmations uint64
}

// Rail is the stablecoin (ERC-20 USDT) port.
type Rail interface {
	// GeneratePaymentRequest returns the platform address the buyer should
	// transfer amountRaw to.
	GeneratePaymentRequest(ctx context.Context, amountRaw uint64) (*PaymentRequestInfo, error)

	// VerifyPayment checks an inbound transfer: receipt success, token
	// contract match, recipient match, amount within tolerance, enough
	// confirmations.
	VerifyPayment(ctx context.Context, params VerifyParams) (*VerifyResult, error)

	// TransferFromPlatform sends amountRaw from the platform wallet and
	// returns the transaction hash once it confirmed.
	TransferFromPlatform(ctx context.Context, toAddress string, amountRaw uint64) (string, error)

	// WaitForConfirmations blocks until txHash has at least n confirmations
	// or ctx is done.
	WaitForConfirmations(ctx context.Context, txHash string, n uint64) error
}

// AmountWithinTolerance compares a transferred amount against the expected
// one, allowing AmountToleranceRaw of slack in either direction.
func AmountWithinTolerance(expected, actual uint64) bool {
	var diff uint64
	if actual > expected {
		diff = actual - expected
	} else {
		diff = expected - actual
	}
	return diff <= AmountToleranceRaw
}
