package mappers

import (
	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/domain/settlement"
	"lastbite/internal/infrastructure/persistence/models"
)

type SettlementMapper struct{}

func NewSettlementMapper() *SettlementMapper {
	return &SettlementMapper{}
}

func (m *SettlementMapper) ToModel(s *settlement.MonthlySettlement) *models.SettlementModel {
	return &models.SettlementModel{
		ID:                s.ID(),
		SettlementNo:      s.SettlementNo(),
		BusinessID:        s.BusinessID(),
		Month:             s.Month(),
		Year:              s.Year(),
		Status:            s.Status().String(),
		ZarinpalTotal:     s.ZarinpalTotal(),
		ZarinpalCurrency:  s.ZarinpalCurrency(),
		ZarinpalCount:     s.ZarinpalCount(),
		TetherTotalRaw:    s.TetherTotalRaw(),
		TetherCount:       s.TetherCount(),
		ZarinpalPaidAt:    s.ZarinpalPaidAt(),
		ZarinpalPayoutRef: s.ZarinpalPayoutRef(),
		ZarinpalError:     s.ZarinpalError(),
		TetherPaidAt:      s.TetherPaidAt(),
		TetherTxHash:      s.TetherTxHash(),
		TetherError:       s.TetherError(),
		Version:           s.Version(),
		CreatedAt:         s.CreatedAt(),
		UpdatedAt:         s.UpdatedAt(),
	}
}

func (m *SettlementMapper) ToDomain(model *models.SettlementModel) *settlement.MonthlySettlement {
	return settlement.Reconstruct(settlement.ReconstructParams{
		ID:                model.ID,
		SettlementNo:      model.SettlementNo,
		BusinessID:        model.BusinessID,
		Month:             model.Month,
		Year:              model.Year,
		Status:            settlement.Status(model.Status),
		ZarinpalTotal:     model.ZarinpalTotal,
		ZarinpalCurrency:  model.ZarinpalCurrency,
		ZarinpalCount:     model.ZarinpalCount,
		TetherTotalRaw:    model.TetherTotalRaw,
		TetherCount:       model.TetherCount,
		ZarinpalPaidAt:    model.ZarinpalPaidAt,
		ZarinpalPayoutRef: model.ZarinpalPayoutRef,
		ZarinpalError:     model.ZarinpalError,
		TetherPaidAt:      model.TetherPaidAt,
		TetherTxHash:      model.TetherTxHash,
		TetherError:       model.TetherError,
		Version:           model.Version,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	})
}

func (m *SettlementMapper) ItemToModel(item *settlement.SettlementPayment) *models.SettlementPaymentModel {
	return &models.SettlementPaymentModel{
		ID:             item.ID(),
		SettlementID:   item.SettlementID(),
		PaymentID:      item.PaymentID(),
		Method:         item.Method().String(),
		BusinessAmount: item.BusinessAmount(),
		Currency:       item.Currency(),
		CreatedAt:      item.CreatedAt(),
	}
}

func (m *SettlementMapper) ItemToDomain(model *models.SettlementPaymentModel) *settlement.SettlementPayment {
	return settlement.ReconstructSettlementPayment(
		model.ID,
		model.SettlementID,
		model.PaymentID,
		vo.PaymentMethod(model.Method),
		model.BusinessAmount,
		model.Currency,
		model.CreatedAt,
	)
}
