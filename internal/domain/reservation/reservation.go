package reservation

import (
	"fmt"
	"time"

	"lastbite/internal/shared/biztime"
	"lastbite/internal/shared/id"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusPickedUp Status = "picked_up"
)

// Reservation is the pickup claim created when a payment completes. The
// claim token is what the buyer presents at the counter.
type Reservation struct {
	id            uint
	reservationNo string
	paymentID     uint
	offerID       uint
	buyerID       uint
	claimToken    string
	status        Status
	pickupFrom    time.Time
	pickupUntil   time.Time
	pickedUpAt    *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func NewReservation(paymentID, offerID, buyerID uint, pickupAt time.Time) (*Reservation, error) {
	if paymentID == 0 {
		return nil, fmt.Errorf("payment ID is required")
	}
	if offerID == 0 {
		return nil, fmt.Errorf("offer ID is required")
	}
	if buyerID == 0 {
		return nil, fmt.Errorf("buyer ID is required")
	}
	if pickupAt.IsZero() {
		return nil, fmt.Errorf("pickup time is required")
	}

	now := biztime.NowUTC()
	return &Reservation{
		reservationNo: id.MustGenerateWithPrefix(id.PrefixReservation, id.DefaultLength),
		paymentID:     paymentID,
		offerID:       offerID,
		buyerID:       buyerID,
		claimToken:    id.MustGenerateWithPrefix(id.PrefixClaimToken, id.ClaimTokenLength),
		status:        StatusActive,
		pickupFrom:    pickupAt,
		pickupUntil:   pickupAt.Add(time.Hour),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func (r *Reservation) MarkPickedUp() error {
	if r.status == StatusPickedUp {
		return nil
	}
	now := biztime.NowUTC()
	r.status = StatusPickedUp
	r.pickedUpAt = &now
	r.updatedAt = now
	return nil
}

func (r *Reservation) ID() uint               { return r.id }
func (r *Reservation) ReservationNo() string  { return r.reservationNo }
func (r *Reservation) PaymentID() uint        { return r.paymentID }
func (r *Reservation) OfferID() uint          { return r.offerID }
func (r *Reservation) BuyerID() uint          { return r.buyerID }
func (r *Reservation) ClaimToken() string     { return r.claimToken }
func (r *Reservation) Status() Status         { return r.status }
func (r *Reservation) PickupFrom() time.Time  { return r.pickupFrom }
func (r *Reservation) PickupUntil() time.Time { return r.pickupUntil }
func (r *Reservation) PickedUpAt() *time.Time { return r.pickedUpAt }
func (r *Reservation) CreatedAt() time.Time   { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time   { return r.updatedAt }

func (r *Reservation) SetID(reservationID uint) {
	r.id = reservationID
}

type ReconstructParams struct {
	ID            uint
	ReservationNo string
	PaymentID     uint
	OfferID       uint
	BuyerID       uint
	ClaimToken    string
	Status        Status
	PickupFrom    time.Time
	PickupUntil   time.Time
	PickedUpAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func Reconstruct(params ReconstructParams) *Reservation {
	return &Reservation{
		id:            params.ID,
		reservationNo: params.ReservationNo,
		paymentID:     params.PaymentID,
		offerID:       params.OfferID,
		buyerID:       params.BuyerID,
		claimToken:    params.ClaimToken,
		status:        params.Status,
		pickupFrom:    params.PickupFrom,
		pickupUntil:   params.PickupUntil,
		pickedUpAt:    params.PickedUpAt,
		createdAt:     params.CreatedAt,
		updatedAt:     params.UpdatedAt,
	}
}
