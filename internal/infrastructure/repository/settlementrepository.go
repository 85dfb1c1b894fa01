package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lastbite/internal/domain/settlement"
	"lastbite/internal/infrastructure/persistence/mappers"
	"lastbite/internal/infrastructure/persistence/models"
	"lastbite/internal/shared/db"
	apperrors "lastbite/internal/shared/errors"
	"lastbite/internal/shared/logger"
	"lastbite/internal/shared/query"
)

type SettlementRepository struct {
	db     *gorm.DB
	mapper *mappers.SettlementMapper
	logger logger.Interface
}

var _ settlement.Repository = (*SettlementRepository)(nil)

func NewSettlementRepository(gormDB *gorm.DB, logger logger.Interface) *SettlementRepository {
	return &SettlementRepository{
		db:     gormDB,
		mapper: mappers.NewSettlementMapper(),
		logger: logger,
	}
}

func (r *SettlementRepository) Create(ctx context.Context, s *settlement.MonthlySettlement) error {
	model := r.mapper.ToModel(s)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return err
	}
	s.SetID(model.ID)
	return nil
}

func (r *SettlementRepository) Update(ctx context.Context, s *settlement.MonthlySettlement) error {
	model := r.mapper.ToModel(s)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SettlementModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("settlement not found")
	}
	return nil
}

func (r *SettlementRepository) GetByID(ctx context.Context, id uint) (*settlement.MonthlySettlement, error) {
	return r.getOne(ctx, false, "id = ?", id)
}

func (r *SettlementRepository) GetByIDForUpdate(ctx context.Context, id uint) (*settlement.MonthlySettlement, error) {
	return r.getOne(ctx, true, "id = ?", id)
}

func (r *SettlementRepository) GetByBusinessAndPeriodForUpdate(ctx context.Context, businessID uint, month, year int) (*settlement.MonthlySettlement, error) {
	return r.getOne(ctx, true, "business_id = ? AND month = ? AND year = ?", businessID, month, year)
}

func (r *SettlementRepository) getOne(ctx context.Context, locked bool, query string, args ...interface{}) (*settlement.MonthlySettlement, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	if locked {
		tx = tx.Scopes(db.Locked())
	}

	var model models.SettlementModel
	if err := tx.Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("settlement not found")
		}
		return nil, err
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *SettlementRepository) ListPendingByPeriod(ctx context.Context, month, year int) ([]*settlement.MonthlySettlement, error) {
	var rows []models.SettlementModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("month = ? AND year = ? AND status = ?", month, year, settlement.StatusPending.String()).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	settlements := make([]*settlement.MonthlySettlement, 0, len(rows))
	for i := range rows {
		settlements = append(settlements, r.mapper.ToDomain(&rows[i]))
	}
	return settlements, nil
}

func (r *SettlementRepository) CreateSettlementPayment(ctx context.Context, item *settlement.SettlementPayment) error {
	model := r.mapper.ItemToModel(item)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return err
	}
	item.SetID(model.ID)
	return nil
}

func (r *SettlementRepository) ListSettlementPayments(ctx context.Context, settlementID uint, page query.PageFilter) ([]*settlement.SettlementPayment, error) {
	var rows []models.SettlementPaymentModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("settlement_id = ?", settlementID).
		Order("id").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]*settlement.SettlementPayment, 0, len(rows))
	for i := range rows {
		items = append(items, r.mapper.ItemToDomain(&rows[i]))
	}
	return items, nil
}
