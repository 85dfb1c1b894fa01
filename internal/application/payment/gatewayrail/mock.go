package gatewayrail

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// MockRail is a deterministic in-process gateway used in development and
// tests. It implements the same port as the real client; selection happens
// at wiring time, never per call.
type MockRail struct {
	mu         sync.Mutex
	authorized map[string]int64 // authority -> requested amount
	verified   map[string]string

	// Test hooks. Zero values mean every call succeeds.
	RequestErr  error
	VerifyErr   error
	TransferErr error
}

func NewMockRail() *MockRail {
	return &MockRail{
		authorized: make(map[string]int64),
		verified:   make(map[string]string),
	}
}

func (m *MockRail) RequestPayment(_ context.Context, req PaymentRequest) (*PaymentRequestResult, error) {
	if m.RequestErr != nil {
		return nil, m.RequestErr
	}
	authority := mockAuthority(req.OrderNo)
	m.mu.Lock()
	m.authorized[authority] = req.Amount
	m.mu.Unlock()
	return &PaymentRequestResult{
		Authority:  authority,
		PaymentURL: "https://pay.mock.local/start/" + authority,
	}, nil
}

func (m *MockRail) VerifyPayment(_ context.Context, authority string, amount int64) (*VerifyResult, error) {
	if m.VerifyErr != nil {
		return nil, m.VerifyErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	requested, ok := m.authorized[authority]
	if !ok {
		return nil, &RailError{Code: -51, Message: "session not found"}
	}
	if requested != amount {
		return nil, &RailError{Code: -50, Message: "amount mismatch"}
	}
	if ref, done := m.verified[authority]; done {
		return &VerifyResult{RefID: ref, AlreadyVerified: true}, nil
	}
	ref := fmt.Sprintf("mockref-%s", authority[:12])
	m.verified[authority] = ref
	return &VerifyResult{RefID: ref}, nil
}

func (m *MockRail) TransferToBusiness(_ context.Context, req TransferRequest) (*TransferResult, error) {
	if m.TransferErr != nil {
		return nil, m.TransferErr
	}
	return &TransferResult{Reference: "mockpo-" + mockAuthority(req.BankIdentifier)[:16]}, nil
}

func mockAuthority(seed string) string {
	sum := sha256.Sum256([]byte("lastbite-mock:" + seed))
	return "A" + hex.EncodeToString(sum[:])[:35]
}
