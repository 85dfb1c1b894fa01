package mappers

import (
	"lastbite/internal/domain/reservation"
	"lastbite/internal/infrastructure/persistence/models"
)

type ReservationMapper struct{}

func NewReservationMapper() *ReservationMapper {
	return &ReservationMapper{}
}

func (m *ReservationMapper) ToModel(r *reservation.Reservation) *models.ReservationModel {
	return &models.ReservationModel{
		ID:            r.ID(),
		ReservationNo: r.ReservationNo(),
		PaymentID:     r.PaymentID(),
		OfferID:       r.OfferID(),
		BuyerID:       r.BuyerID(),
		ClaimToken:    r.ClaimToken(),
		Status:        string(r.Status()),
		PickupFrom:    r.PickupFrom(),
		PickupUntil:   r.PickupUntil(),
		PickedUpAt:    r.PickedUpAt(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}

func (m *ReservationMapper) ToDomain(model *models.ReservationModel) *reservation.Reservation {
	return reservation.Reconstruct(reservation.ReconstructParams{
		ID:            model.ID,
		ReservationNo: model.ReservationNo,
		PaymentID:     model.PaymentID,
		OfferID:       model.OfferID,
		BuyerID:       model.BuyerID,
		ClaimToken:    model.ClaimToken,
		Status:        reservation.Status(model.Status),
		PickupFrom:    model.PickupFrom,
		PickupUntil:   model.PickupUntil,
		PickedUpAt:    model.PickedUpAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	})
}
