package models

import "time"

type SettlementModel struct {
	ID           uint   `gorm:"primaryKey"`
	SettlementNo string `gorm:"uniqueIndex;size:64;not null"`
	BusinessID   uint   `gorm:"not null;uniqueIndex:idx_business_period"`
	Month        int    `gorm:"not null;uniqueIndex:idx_business_period"`
	Year         int    `gorm:"not null;uniqueIndex:idx_business_period"`
	Status       string `gorm:"size:20;not null;index"`

	ZarinpalTotal    int64  `gorm:"not null;default:0"`
	ZarinpalCurrency string `gorm:"size:10;not null;default:''"`
	ZarinpalCount    int    `gorm:"not null;default:0"`

	TetherTotalRaw uint64 `gorm:"not null;default:0"`
	TetherCount    int    `gorm:"not null;default:0"`

	ZarinpalPaidAt    *time.Time
	ZarinpalPayoutRef *string `gorm:"size:64"`
	ZarinpalError     *string `gorm:"type:text"`

	TetherPaidAt *time.Time
	TetherTxHash *string `gorm:"size:80"`
	TetherError  *string `gorm:"type:text"`

	Version   int `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SettlementModel) TableName() string {
	return "monthly_settlements"
}
