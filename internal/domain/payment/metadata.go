package payment

import "time"

// Metadata carries the non-relational context of a payment: the pickup window
// of the reserved offer, the conversion snapshot frozen at initiation, and
// retry markers for completion side effects that did not land in phase one.
type Metadata struct {
	PickupAt time.Time `json:"pickup_at"`

	// Conversion snapshot, frozen at initiation. Rate is stablecoin per
	// source unit; amounts are raw 10^-6 units.
	ConversionRate    float64   `json:"conversion_rate,omitempty"`
	ConvertedAt       time.Time `json:"converted_at,omitempty"`
	StableFeeRaw      uint64    `json:"stable_fee_raw,omitempty"`
	StableBusinessRaw uint64    `json:"stable_business_raw,omitempty"`

	// Set when completion succeeded but a side effect did not; the payment
	// scheduler retries these.
	ReservationPending bool `json:"reservation_pending,omitempty"`
	SettlementPending  bool `json:"settlement_pending,omitempty"`

	FailureReason string `json:"failure_reason,omitempty"`
}
