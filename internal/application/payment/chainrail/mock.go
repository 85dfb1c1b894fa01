package chainrail

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

const mockPlatformAddress = "0x1000000000000000000000000000000000000001"

// MockRail is the in-process stand-in for the ERC-20 rail. Every inbound
// verification succeeds against the expected amount unless a hook overrides
// it; outbound transfers return a deterministic hash.
type MockRail struct {
	mu        sync.Mutex
	transfers []MockTransfer

	// Test hooks.
	VerifyErr       error
	VerifyAmountRaw uint64 // overrides the transferred amount when nonzero
	Confirmations   uint64 // 0 means "always enough"
	TransferErr     error
}

type MockTransfer struct {
	ToAddress string
	AmountRaw uint64
	TxHash    string
}

func NewMockRail() *MockRail {
	return &MockRail{}
}

func (m *MockRail) GeneratePaymentRequest(_ context.Context, amountRaw uint64) (*PaymentRequestInfo, error) {
	return &PaymentRequestInfo{
		ReceivingAddress: mockPlatformAddress,
		AmountRaw:        amountRaw,
	}, nil
}

func (m *MockRail) VerifyPayment(_ context.Context, params VerifyParams) (*VerifyResult, error) {
	if m.VerifyErr != nil {
		return nil, m.VerifyErr
	}
	if m.Confirmations != 0 && m.Confirmations < params.MinConfirmations {
		return nil, ErrInsufficientConfirmations
	}
	amount := params.ExpectedRaw
	if m.VerifyAmountRaw != 0 {
		amount = m.VerifyAmountRaw
	}
	if !AmountWithinTolerance(params.ExpectedRaw, amount) {
		return nil, ErrAmountMismatch(params.ExpectedRaw, amount)
	}
	confirmations := m.Confirmations
	if confirmations == 0 {
		confirmations = params.MinConfirmations
	}
	return &VerifyResult{
		TxHash:        params.TxHash,
		SenderAddress: "0x2000000000000000000000000000000000000002",
		AmountRaw:     amount,
		BlockNumber:   1,
		Confirmations: confirmations,
	}, nil
}

func (m *MockRail) TransferFromPlatform(_ context.Context, toAddress string, amountRaw uint64) (string, error) {
	if m.TransferErr != nil {
		return "", m.TransferErr
	}
	sum := sha256.Sum256([]byte(toAddress))
	txHash := "0x" + hex.EncodeToString(sum[:])
	m.mu.Lock()
	m.transfers = append(m.transfers, MockTransfer{ToAddress: toAddress, AmountRaw: amountRaw, TxHash: txHash})
	m.mu.Unlock()
	return txHash, nil
}

func (m *MockRail) WaitForConfirmations(_ context.Context, _ string, _ uint64) error {
	return nil
}

// Transfers returns the outbound transfers recorded so far.
func (m *MockRail) Transfers() []MockTransfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockTransfer, len(m.transfers))
	copy(out, m.transfers)
	return out
}
