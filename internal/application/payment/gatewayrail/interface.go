package gatewayrail

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable wraps transport-level gateway failures. Callers keep the
// payment in processing and let the buyer retry.
var ErrUnavailable = errors.New("payment gateway unavailable")

// RailError is a business rejection from the gateway, carrying its code and
// message verbatim.
type RailError struct {
	Code    int
	Message string
}

func (e *RailError) Error() string {
	return fmt.Sprintf("gateway rejected request (code %d): %s", e.Code, e.Message)
}

type PaymentRequest struct {
	OrderNo     string
	Amount      int64 // minor units
	Currency    string
	Description string
	Email       string
	CallbackURL string
}

type PaymentRequestResult struct {
	Authority  string
	PaymentURL string
}

type VerifyResult struct {
	RefID           string
	AlreadyVerified bool
}

type TransferRequest struct {
	Amount         int64 // minor units
	Currency       string
	BankIdentifier string
	Description    string
}

// TransferResult acknowledges a payout accepted by the gateway for
// asynchronous processing.
type TransferResult struct {
	Reference string
}

// Rail is the hosted fiat gateway port.
type Rail interface {
	RequestPayment(ctx context.Context, req PaymentRequest) (*PaymentRequestResult, error)
	VerifyPayment(ctx context.Context, authority string, amount int64) (*VerifyResult, error)
	TransferToBusiness(ctx context.Context, req TransferRequest) (*TransferResult, error)
}
