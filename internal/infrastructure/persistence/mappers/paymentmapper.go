package mappers

import (
	"lastbite/internal/domain/payment"
	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/infrastructure/persistence/models"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToModel(p *payment.Payment) *models.PaymentModel {
	meta := p.Metadata()
	return &models.PaymentModel{
		ID:               p.ID(),
		OrderNo:          p.OrderNo(),
		OfferID:          p.OfferID(),
		BuyerID:          p.BuyerID(),
		BusinessID:       p.BusinessID(),
		Amount:           p.Amount().AmountMinor(),
		Currency:         p.Amount().Currency(),
		Method:           p.Method().String(),
		Status:           p.Status().String(),
		FeeAmount:        p.FeeAmount(),
		BusinessAmount:   p.BusinessAmount(),
		AmountStableRaw:  p.AmountStableRaw(),
		GatewayAuthority: p.GatewayAuthority(),
		GatewayRefID:     p.GatewayRefID(),
		ReceivingAddress: p.ReceivingAddress(),
		TxHash:           p.TxHash(),
		SenderAddress:    p.SenderAddress(),
		PayoutStatus:     p.PayoutStatus().String(),
		ReservationID:    p.ReservationID(),
		SettlementID:     p.SettlementID(),
		ReservationPending: meta.ReservationPending,
		SettlementPending:  meta.SettlementPending,
		Metadata: models.PaymentMetadataJSON{
			PickupAt:          meta.PickupAt,
			ConversionRate:    meta.ConversionRate,
			ConvertedAt:       meta.ConvertedAt,
			StableFeeRaw:      meta.StableFeeRaw,
			StableBusinessRaw: meta.StableBusinessRaw,
			FailureReason:     meta.FailureReason,
		},
		ExpiresAt:   p.ExpiresAt(),
		CompletedAt: p.CompletedAt(),
		PaidOutAt:   p.PaidOutAt(),
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func (m *PaymentMapper) ToDomain(model *models.PaymentModel) *payment.Payment {
	return payment.ReconstructPayment(payment.ReconstructPaymentParams{
		ID:               model.ID,
		OrderNo:          model.OrderNo,
		OfferID:          model.OfferID,
		BuyerID:          model.BuyerID,
		BusinessID:       model.BusinessID,
		Amount:           vo.NewMoney(model.Amount, model.Currency),
		Method:           vo.PaymentMethod(model.Method),
		Status:           vo.PaymentStatus(model.Status),
		FeeAmount:        model.FeeAmount,
		BusinessAmount:   model.BusinessAmount,
		AmountStableRaw:  model.AmountStableRaw,
		GatewayAuthority: model.GatewayAuthority,
		GatewayRefID:     model.GatewayRefID,
		ReceivingAddress: model.ReceivingAddress,
		TxHash:           model.TxHash,
		SenderAddress:    model.SenderAddress,
		PayoutStatus:     vo.PayoutStatus(model.PayoutStatus),
		ReservationID:    model.ReservationID,
		SettlementID:     model.SettlementID,
		Metadata: payment.Metadata{
			PickupAt:           model.Metadata.PickupAt,
			ConversionRate:     model.Metadata.ConversionRate,
			ConvertedAt:        model.Metadata.ConvertedAt,
			StableFeeRaw:       model.Metadata.StableFeeRaw,
			StableBusinessRaw:  model.Metadata.StableBusinessRaw,
			FailureReason:      model.Metadata.FailureReason,
			ReservationPending: model.ReservationPending,
			SettlementPending:  model.SettlementPending,
		},
		ExpiresAt:   model.ExpiresAt,
		CompletedAt: model.CompletedAt,
		PaidOutAt:   model.PaidOutAt,
		Version:     model.Version,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	})
}
