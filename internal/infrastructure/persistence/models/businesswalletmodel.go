package models

import "time"

type BusinessWalletModel struct {
	ID         uint `gorm:"primaryKey"`
	BusinessID uint `gorm:"uniqueIndex;not null"`

	BankIdentifier *string `gorm:"size:64"`
	BankEnabled    bool    `gorm:"not null;default:false"`

	USDTAddress *string `gorm:"size:64"`
	USDTEnabled bool    `gorm:"not null;default:false"`

	PreferredMethod string `gorm:"size:20;not null;default:'zarinpal'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BusinessWalletModel) TableName() string {
	return "business_wallets"
}
