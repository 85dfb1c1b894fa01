package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lastbite/internal/domain/payment"
	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/infrastructure/persistence/mappers"
	"lastbite/internal/infrastructure/persistence/models"
	"lastbite/internal/shared/biztime"
	"lastbite/internal/shared/db"
	apperrors "lastbite/internal/shared/errors"
	"lastbite/internal/shared/logger"
)

type PaymentRepository struct {
	db     *gorm.DB
	mapper *mappers.PaymentMapper
	logger logger.Interface
}

var _ payment.Repository = (*PaymentRepository)(nil)

func NewPaymentRepository(gormDB *gorm.DB, logger logger.Interface) *PaymentRepository {
	return &PaymentRepository{
		db:     gormDB,
		mapper: mappers.NewPaymentMapper(),
		logger: logger,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := r.mapper.ToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return err
	}
	p.SetID(model.ID)
	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	model := r.mapper.ToModel(p)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("payment not found")
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (*payment.Payment, error) {
	return r.getOne(ctx, false, "id = ?", id)
}

func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, id uint) (*payment.Payment, error) {
	return r.getOne(ctx, true, "id = ?", id)
}

func (r *PaymentRepository) GetByOrderNo(ctx context.Context, orderNo string) (*payment.Payment, error) {
	return r.getOne(ctx, false, "order_no = ?", orderNo)
}

func (r *PaymentRepository) GetByAuthorityForUpdate(ctx context.Context, authority string) (*payment.Payment, error) {
	return r.getOne(ctx, true, "gateway_authority = ?", authority)
}

func (r *PaymentRepository) GetCompletedByTxHash(ctx context.Context, txHash string) (*payment.Payment, error) {
	return r.getOne(ctx, false, "tx_hash = ? AND status = ?", txHash, vo.PaymentStatusCompleted.String())
}

func (r *PaymentRepository) getOne(ctx context.Context, locked bool, query string, args ...interface{}) (*payment.Payment, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	if locked {
		tx = tx.Scopes(db.Locked())
	}

	var model models.PaymentModel
	if err := tx.Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("payment not found")
		}
		return nil, err
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *PaymentRepository) GetExpired(ctx context.Context, limit int) ([]*payment.Payment, error) {
	var rows []models.PaymentModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("status IN ?", []string{
			vo.PaymentStatusPending.String(),
			vo.PaymentStatusProcessing.String(),
		}).
		Where("expires_at < ?", biztime.NowUTC()).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(rows), nil
}

func (r *PaymentRepository) GetCompletedWithPendingSideEffects(ctx context.Context, limit int) ([]*payment.Payment, error) {
	var rows []models.PaymentModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", vo.PaymentStatusCompleted.String()).
		Where("reservation_pending = ? OR settlement_pending = ?", true, true).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(rows), nil
}

func (r *PaymentRepository) UpdatePayoutStatusForSettlement(ctx context.Context, settlementID uint, method *vo.PaymentMethod, status vo.PayoutStatus) error {
	tx := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("settlement_id = ?", settlementID)
	if method != nil {
		tx = tx.Where("method = ?", method.String())
	}

	updates := map[string]interface{}{
		"payout_status": status.String(),
		"updated_at":    biztime.NowUTC(),
	}
	if status == vo.PayoutStatusPaidOut {
		updates["paid_out_at"] = biztime.NowUTC()
	}
	return tx.Updates(updates).Error
}

func (r *PaymentRepository) toDomainList(rows []models.PaymentModel) []*payment.Payment {
	payments := make([]*payment.Payment, 0, len(rows))
	for i := range rows {
		payments = append(payments, r.mapper.ToDomain(&rows[i]))
	}
	return payments
}
