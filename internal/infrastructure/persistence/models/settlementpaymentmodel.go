package models

import "time"

type SettlementPaymentModel struct {
	ID             uint   `gorm:"primaryKey"`
	SettlementID   uint   `gorm:"not null;uniqueIndex:idx_settlement_payment"`
	PaymentID      uint   `gorm:"not null;uniqueIndex:idx_settlement_payment"`
	Method         string `gorm:"size:20;not null"`
	BusinessAmount int64  `gorm:"not null"`
	Currency       string `gorm:"size:10;not null"`
	CreatedAt      time.Time
}

func (SettlementPaymentModel) TableName() string {
	return "settlement_payments"
}
