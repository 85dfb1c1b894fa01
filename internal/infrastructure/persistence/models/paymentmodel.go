package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type PaymentModel struct {
	ID         uint   `gorm:"primaryKey"`
	OrderNo    string `gorm:"uniqueIndex;size:64;not null"`
	OfferID    uint   `gorm:"index;not null"`
	BuyerID    uint   `gorm:"index;not null"`
	BusinessID uint   `gorm:"index;not null"`

	Amount   int64  `gorm:"not null"`
	Currency string `gorm:"size:10;not null;default:'EUR'"`
	Method   string `gorm:"size:20;not null"`
	Status   string `gorm:"size:20;not null;index"`

	FeeAmount      int64 `gorm:"not null"`
	BusinessAmount int64 `gorm:"not null"`

	AmountStableRaw uint64 `gorm:"not null;default:0"`

	GatewayAuthority *string `gorm:"size:64;uniqueIndex"`
	GatewayRefID     *string `gorm:"size:128"`

	ReceivingAddress *string `gorm:"size:64"`
	TxHash           *string `gorm:"size:80;index"`
	SenderAddress    *string `gorm:"size:64"`

	PayoutStatus  string `gorm:"size:20;not null;default:'';index"`
	ReservationID *uint  `gorm:"index"`
	SettlementID  *uint  `gorm:"index"`

	// Retry markers are real columns so the reconciliation query stays
	// portable across MySQL and the sqlite test driver.
	ReservationPending bool `gorm:"not null;default:false;index"`
	SettlementPending  bool `gorm:"not null;default:false;index"`

	Metadata PaymentMetadataJSON `gorm:"type:json"`

	ExpiresAt   time.Time `gorm:"not null;index"`
	CompletedAt *time.Time
	PaidOutAt   *time.Time

	Version   int `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}

// PaymentMetadataJSON serializes the typed payment metadata into a single
// JSON column.
type PaymentMetadataJSON struct {
	PickupAt          time.Time `json:"pickup_at"`
	ConversionRate    float64   `json:"conversion_rate,omitempty"`
	ConvertedAt       time.Time `json:"converted_at,omitempty"`
	StableFeeRaw      uint64    `json:"stable_fee_raw,omitempty"`
	StableBusinessRaw uint64    `json:"stable_business_raw,omitempty"`
	FailureReason     string    `json:"failure_reason,omitempty"`
}

func (m PaymentMetadataJSON) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *PaymentMetadataJSON) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMetadataJSON{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
}
