package models

import "time"

type ReservationModel struct {
	ID            uint   `gorm:"primaryKey"`
	ReservationNo string `gorm:"uniqueIndex;size:64;not null"`
	PaymentID     uint   `gorm:"uniqueIndex;not null"`
	OfferID       uint   `gorm:"index;not null"`
	BuyerID       uint   `gorm:"index;not null"`
	ClaimToken    string `gorm:"uniqueIndex;size:64;not null"`
	Status        string `gorm:"size:20;not null;index"`
	PickupFrom    time.Time
	PickupUntil   time.Time
	PickedUpAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ReservationModel) TableName() string {
	return "reservations"
}
