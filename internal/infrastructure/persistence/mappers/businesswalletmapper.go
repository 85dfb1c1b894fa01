package mappers

import (
	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/domain/wallet"
	"lastbite/internal/infrastructure/persistence/models"
)

type BusinessWalletMapper struct{}

func NewBusinessWalletMapper() *BusinessWalletMapper {
	return &BusinessWalletMapper{}
}

func (m *BusinessWalletMapper) ToDomain(model *models.BusinessWalletModel) *wallet.BusinessWallet {
	return wallet.Reconstruct(wallet.ReconstructParams{
		ID:              model.ID,
		BusinessID:      model.BusinessID,
		BankIdentifier:  model.BankIdentifier,
		BankEnabled:     model.BankEnabled,
		USDTAddress:     model.USDTAddress,
		USDTEnabled:     model.USDTEnabled,
		PreferredMethod: vo.PaymentMethod(model.PreferredMethod),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	})
}
