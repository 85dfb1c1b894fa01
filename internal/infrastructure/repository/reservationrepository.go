package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lastbite/internal/domain/reservation"
	"lastbite/internal/infrastructure/persistence/mappers"
	"lastbite/internal/infrastructure/persistence/models"
	"lastbite/internal/shared/db"
	apperrors "lastbite/internal/shared/errors"
)

type ReservationRepository struct {
	db     *gorm.DB
	mapper *mappers.ReservationMapper
}

var _ reservation.Repository = (*ReservationRepository)(nil)

func NewReservationRepository(gormDB *gorm.DB) *ReservationRepository {
	return &ReservationRepository{
		db:     gormDB,
		mapper: mappers.NewReservationMapper(),
	}
}

func (r *ReservationRepository) Create(ctx context.Context, rsv *reservation.Reservation) error {
	model := r.mapper.ToModel(rsv)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return err
	}
	rsv.SetID(model.ID)
	return nil
}

func (r *ReservationRepository) Update(ctx context.Context, rsv *reservation.Reservation) error {
	model := r.mapper.ToModel(rsv)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ReservationModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("reservation not found")
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id uint) (*reservation.Reservation, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *ReservationRepository) GetByPaymentID(ctx context.Context, paymentID uint) (*reservation.Reservation, error) {
	return r.getOne(ctx, "payment_id = ?", paymentID)
}

func (r *ReservationRepository) GetByClaimToken(ctx context.Context, token string) (*reservation.Reservation, error) {
	return r.getOne(ctx, "claim_token = ?", token)
}

func (r *ReservationRepository) getOne(ctx context.Context, query string, args ...interface{}) (*reservation.Reservation, error) {
	var model models.ReservationModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("reservation not found")
		}
		return nil, err
	}
	return r.mapper.ToDomain(&model), nil
}
