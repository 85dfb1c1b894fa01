package payment

import (
	"fmt"
	"time"

	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/shared/biztime"
	"lastbite/internal/shared/id"
)

// Payment is the aggregate root of the settlement subsystem. Its completion
// state machine is pending -> processing -> completed | failed; once final it
// never changes again. Payout state is a separate sub-state written only by
// the settlement flow.
type Payment struct {
	id         uint
	orderNo    string
	offerID    uint
	buyerID    uint
	businessID uint

	amount vo.Money
	method vo.PaymentMethod
	status vo.PaymentStatus

	// Source-currency fee split, in minor units.
	feeAmount      int64
	businessAmount int64

	// Stablecoin amount frozen at initiation, raw 10^-6 units. Zero on the
	// gateway rail.
	amountStableRaw uint64

	// Gateway rail.
	gatewayAuthority *string
	gatewayRefID     *string

	// Stablecoin rail.
	receivingAddress *string
	txHash           *string
	senderAddress    *string

	payoutStatus  vo.PayoutStatus
	reservationID *uint
	settlementID  *uint

	metadata Metadata

	expiresAt   time.Time
	completedAt *time.Time
	paidOutAt   *time.Time

	version   int
	createdAt time.Time
	updatedAt time.Time
}

type NewPaymentParams struct {
	OfferID    uint
	BuyerID    uint
	BusinessID uint
	Amount     vo.Money
	Method     vo.PaymentMethod
	Fee        int64
	Business   int64
	ExpiresIn  time.Duration
	Metadata   Metadata
}

func NewPayment(params NewPaymentParams) (*Payment, error) {
	if params.OfferID == 0 {
		return nil, fmt.Errorf("offer ID is required")
	}
	if params.BuyerID == 0 {
		return nil, fmt.Errorf("buyer ID is required")
	}
	if params.BusinessID == 0 {
		return nil, fmt.Errorf("business ID is required")
	}
	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if !params.Method.IsValid() {
		return nil, fmt.Errorf("invalid payment method: %s", params.Method)
	}
	if params.Fee < 0 || params.Business < 0 {
		return nil, fmt.Errorf("fee split must not be negative")
	}
	if params.Fee+params.Business > params.Amount.AmountMinor() {
		return nil, fmt.Errorf("fee split exceeds payment amount")
	}
	if params.ExpiresIn <= 0 {
		params.ExpiresIn = 30 * time.Minute
	}

	now := biztime.NowUTC()
	return &Payment{
		orderNo:        id.MustGenerateWithPrefix(id.PrefixPayment, id.DefaultLength),
		offerID:        params.OfferID,
		buyerID:        params.BuyerID,
		businessID:     params.BusinessID,
		amount:         params.Amount,
		method:         params.Method,
		status:         vo.PaymentStatusPending,
		feeAmount:      params.Fee,
		businessAmount: params.Business,
		payoutStatus:   vo.PayoutStatusNone,
		metadata:       params.Metadata,
		expiresAt:      now.Add(params.ExpiresIn),
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// FreezeStableAmounts records the conversion snapshot taken at initiation.
// Only meaningful before the payment leaves pending.
func (p *Payment) FreezeStableAmounts(totalRaw, feeRaw, businessRaw uint64, rate float64) error {
	if p.status != vo.PaymentStatusPending {
		return fmt.Errorf("cannot freeze conversion with status %s", p.status)
	}
	if totalRaw == 0 {
		return fmt.Errorf("stablecoin amount must be positive")
	}
	p.amountStableRaw = totalRaw
	p.metadata.StableFeeRaw = feeRaw
	p.metadata.StableBusinessRaw = businessRaw
	p.metadata.ConversionRate = rate
	p.metadata.ConvertedAt = biztime.NowUTC()
	p.touch()
	return nil
}

// MarkProcessingGateway transitions pending -> processing after the hosted
// gateway accepted the payment request.
func (p *Payment) MarkProcessingGateway(authority string) error {
	if p.status != vo.PaymentStatusPending {
		return fmt.Errorf("cannot start processing with status %s", p.status)
	}
	if authority == "" {
		return fmt.Errorf("gateway authority is required")
	}
	p.status = vo.PaymentStatusProcessing
	p.gatewayAuthority = &authority
	p.touch()
	return nil
}

// MarkProcessingChain transitions pending -> processing once the buyer has
// been handed the platform receiving address.
func (p *Payment) MarkProcessingChain(receivingAddress string) error {
	if p.status != vo.PaymentStatusPending {
		return fmt.Errorf("cannot start processing with status %s", p.status)
	}
	if receivingAddress == "" {
		return fmt.Errorf("receiving address is required")
	}
	p.status = vo.PaymentStatusProcessing
	p.receivingAddress = &receivingAddress
	p.touch()
	return nil
}

// CompleteGateway finalizes a gateway payment after successful verification.
// Completed payments immediately queue for payout.
func (p *Payment) CompleteGateway(refID string) error {
	if p.status != vo.PaymentStatusProcessing {
		return fmt.Errorf("cannot complete payment with status %s", p.status)
	}
	if refID == "" {
		return fmt.Errorf("gateway reference ID is required")
	}
	p.gatewayRefID = &refID
	p.complete()
	return nil
}

// CompleteChain finalizes a stablecoin payment after on-chain verification.
func (p *Payment) CompleteChain(txHash, senderAddress string) error {
	if p.status != vo.PaymentStatusProcessing {
		return fmt.Errorf("cannot complete payment with status %s", p.status)
	}
	if txHash == "" {
		return fmt.Errorf("transaction hash is required")
	}
	p.txHash = &txHash
	if senderAddress != "" {
		p.senderAddress = &senderAddress
	}
	p.complete()
	return nil
}

func (p *Payment) complete() {
	now := biztime.NowUTC()
	p.status = vo.PaymentStatusCompleted
	p.payoutStatus = vo.PayoutStatusQueuedForPayout
	p.completedAt = &now
	p.updatedAt = now
	p.version++
}

// MarkFailed moves a non-final payment to failed. Completed payments can
// never fail.
func (p *Payment) MarkFailed(reason string) error {
	if p.status.IsFinal() {
		return fmt.Errorf("cannot fail payment with final status %s", p.status)
	}
	p.status = vo.PaymentStatusFailed
	p.metadata.FailureReason = reason
	p.touch()
	return nil
}

func (p *Payment) IsExpired() bool {
	return !p.status.IsFinal() && biztime.NowUTC().After(p.expiresAt)
}

// AttachReservation links the reservation created for this completed payment.
// At most one reservation ever exists per payment.
func (p *Payment) AttachReservation(reservationID uint) error {
	if p.status != vo.PaymentStatusCompleted {
		return fmt.Errorf("cannot attach reservation with status %s", p.status)
	}
	if p.reservationID != nil {
		return fmt.Errorf("payment already has a reservation")
	}
	p.reservationID = &reservationID
	p.metadata.ReservationPending = false
	p.touch()
	return nil
}

// AttachSettlement links the monthly settlement this payment was folded into.
func (p *Payment) AttachSettlement(settlementID uint) error {
	if p.status != vo.PaymentStatusCompleted {
		return fmt.Errorf("cannot attach settlement with status %s", p.status)
	}
	if p.settlementID != nil {
		return fmt.Errorf("payment already belongs to a settlement")
	}
	p.settlementID = &settlementID
	p.metadata.SettlementPending = false
	p.touch()
	return nil
}

func (p *Payment) MarkReservationPending() {
	p.metadata.ReservationPending = true
	p.touch()
}

func (p *Payment) MarkSettlementPending() {
	p.metadata.SettlementPending = true
	p.touch()
}

// MarkPaidOut records a successful payout for this payment's rail.
func (p *Payment) MarkPaidOut(at time.Time) error {
	if p.payoutStatus != vo.PayoutStatusQueuedForPayout {
		return fmt.Errorf("cannot mark paid out with payout status %s", p.payoutStatus)
	}
	p.payoutStatus = vo.PayoutStatusPaidOut
	p.paidOutAt = &at
	p.touch()
	return nil
}

func (p *Payment) MarkPayoutFailed() error {
	if p.payoutStatus == vo.PayoutStatusPaidOut {
		return fmt.Errorf("cannot fail payout after it was paid out")
	}
	p.payoutStatus = vo.PayoutStatusFailed
	p.touch()
	return nil
}

func (p *Payment) touch() {
	p.updatedAt = biztime.NowUTC()
	p.version++
}

func (p *Payment) ID() uint                    { return p.id }
func (p *Payment) OrderNo() string             { return p.orderNo }
func (p *Payment) OfferID() uint               { return p.offerID }
func (p *Payment) BuyerID() uint               { return p.buyerID }
func (p *Payment) BusinessID() uint            { return p.businessID }
func (p *Payment) Amount() vo.Money            { return p.amount }
func (p *Payment) Method() vo.PaymentMethod    { return p.method }
func (p *Payment) Status() vo.PaymentStatus    { return p.status }
func (p *Payment) FeeAmount() int64            { return p.feeAmount }
func (p *Payment) BusinessAmount() int64       { return p.businessAmount }
func (p *Payment) AmountStableRaw() uint64     { return p.amountStableRaw }
func (p *Payment) GatewayAuthority() *string   { return p.gatewayAuthority }
func (p *Payment) GatewayRefID() *string       { return p.gatewayRefID }
func (p *Payment) ReceivingAddress() *string   { return p.receivingAddress }
func (p *Payment) TxHash() *string             { return p.txHash }
func (p *Payment) SenderAddress() *string      { return p.senderAddress }
func (p *Payment) PayoutStatus() vo.PayoutStatus { return p.payoutStatus }
func (p *Payment) ReservationID() *uint        { return p.reservationID }
func (p *Payment) SettlementID() *uint         { return p.settlementID }
func (p *Payment) Metadata() Metadata          { return p.metadata }
func (p *Payment) ExpiresAt() time.Time        { return p.expiresAt }
func (p *Payment) CompletedAt() *time.Time     { return p.completedAt }
func (p *Payment) PaidOutAt() *time.Time       { return p.paidOutAt }
func (p *Payment) Version() int                { return p.version }
func (p *Payment) CreatedAt() time.Time        { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time        { return p.updatedAt }

// SetID is used by the persistence layer after insert.
func (p *Payment) SetID(paymentID uint) {
	p.id = paymentID
}

type ReconstructPaymentParams struct {
	ID               uint
	OrderNo          string
	OfferID          uint
	BuyerID          uint
	BusinessID       uint
	Amount           vo.Money
	Method           vo.PaymentMethod
	Status           vo.PaymentStatus
	FeeAmount        int64
	BusinessAmount   int64
	AmountStableRaw  uint64
	GatewayAuthority *string
	GatewayRefID     *string
	ReceivingAddress *string
	TxHash           *string
	SenderAddress    *string
	PayoutStatus     vo.PayoutStatus
	ReservationID    *uint
	SettlementID     *uint
	Metadata         Metadata
	ExpiresAt        time.Time
	CompletedAt      *time.Time
	PaidOutAt        *time.Time
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReconstructPayment rebuilds the aggregate from persistence without
// validation.
func ReconstructPayment(params ReconstructPaymentParams) *Payment {
	return &Payment{
		id:               params.ID,
		orderNo:          params.OrderNo,
		offerID:          params.OfferID,
		buyerID:          params.BuyerID,
		businessID:       params.BusinessID,
		amount:           params.Amount,
		method:           params.Method,
		status:           params.Status,
		feeAmount:        params.FeeAmount,
		businessAmount:   params.BusinessAmount,
		amountStableRaw:  params.AmountStableRaw,
		gatewayAuthority: params.GatewayAuthority,
		gatewayRefID:     params.GatewayRefID,
		receivingAddress: params.ReceivingAddress,
		txHash:           params.TxHash,
		senderAddress:    params.SenderAddress,
		payoutStatus:     params.PayoutStatus,
		reservationID:    params.ReservationID,
		settlementID:     params.SettlementID,
		metadata:         params.Metadata,
		expiresAt:        params.ExpiresAt,
		completedAt:      params.CompletedAt,
		paidOutAt:        params.PaidOutAt,
		version:          params.Version,
		createdAt:        params.CreatedAt,
		updatedAt:        params.UpdatedAt,
	}
}
