package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lastbite/internal/domain/wallet"
	"lastbite/internal/infrastructure/persistence/mappers"
	"lastbite/internal/infrastructure/persistence/models"
	"lastbite/internal/shared/db"
	apperrors "lastbite/internal/shared/errors"
)

type BusinessWalletRepository struct {
	db     *gorm.DB
	mapper *mappers.BusinessWalletMapper
}

var _ wallet.Repository = (*BusinessWalletRepository)(nil)

func NewBusinessWalletRepository(gormDB *gorm.DB) *BusinessWalletRepository {
	return &BusinessWalletRepository{
		db:     gormDB,
		mapper: mappers.NewBusinessWalletMapper(),
	}
}

func (r *BusinessWalletRepository) GetByBusinessID(ctx context.Context, businessID uint) (*wallet.BusinessWallet, error) {
	var model models.BusinessWalletModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("business_id = ?", businessID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("business wallet not found")
		}
		return nil, err
	}
	return r.mapper.ToDomain(&model), nil
}
