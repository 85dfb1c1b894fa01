package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lastbite/internal/application/payment/chainrail"
	"lastbite/internal/application/payment/gatewayrail"
	"lastbite/internal/domain/payment"
	vo "lastbite/internal/domain/payment/valueobjects"
	"lastbite/internal/infrastructure/persistence/models"
	"lastbite/internal/infrastructure/repository"
	shareddb "lastbite/internal/shared/db"
	"lastbite/internal/shared/logger"
)

const testUSDTAddress = "0x3000000000000000000000000000000000000003"

type fixture struct {
	db          *gorm.DB
	payments    *repository.PaymentRepository
	wallets     *repository.BusinessWalletRepository
	settlements *repository.SettlementRepository
	txManager   *shareddb.TransactionManager
	gateway     *gatewayrail.MockRail
	chain       *chainrail.MockRail
	log         logger.Interface

	seq int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gormDB.AutoMigrate(
		&models.PaymentModel{},
		&models.SettlementModel{},
		&models.SettlementPaymentModel{},
		&models.BusinessWalletModel{},
		&models.ReservationModel{},
	))

	log := logger.NewLogger()
	return &fixture{
		db:          gormDB,
		payments:    repository.NewPaymentRepository(gormDB, log),
		wallets:     repository.NewBusinessWalletRepository(gormDB),
		settlements: repository.NewSettlementRepository(gormDB, log),
		txManager:   shareddb.NewTransactionManager(gormDB),
		gateway:     gatewayrail.NewMockRail(),
		chain:       chainrail.NewMockRail(),
		log:         log,
	}
}

func (f *fixture) addUC() *AddPaymentToSettlementUseCase {
	return NewAddPaymentToSettlementUseCase(f.payments, f.settlements, f.txManager, f.log)
}

func (f *fixture) processUC() *ProcessSettlementUseCase {
	return NewProcessSettlementUseCase(
		f.settlements, f.payments, f.wallets, f.gateway, f.chain, f.txManager, f.log)
}

func (f *fixture) batchUC() *ProcessMonthlyPayoutsUseCase {
	return NewProcessMonthlyPayoutsUseCase(f.settlements, f.processUC(), f.log)
}

func (f *fixture) seedWallet(t *testing.T, businessID uint, bank, usdt bool) {
	t.Helper()
	model := &models.BusinessWalletModel{BusinessID: businessID, PreferredMethod: "zarinpal"}
	if bank {
		iban := "DE89370400440532013000"
		model.BankIdentifier = &iban
		model.BankEnabled = true
	}
	if usdt {
		addr := testUSDTAddress
		model.USDTAddress = &addr
		model.USDTEnabled = true
	}
	require.NoError(t, f.db.Create(model).Error)
}

// seedCompletedZarinpal persists a completed gateway payment of 100.00 EUR
// with a 9.500 EUR business share.
func (f *fixture) seedCompletedZarinpal(t *testing.T, businessID uint) *payment.Payment {
	t.Helper()
	f.seq++
	p, err := payment.NewPayment(payment.NewPaymentParams{
		OfferID:    uint(f.seq),
		BuyerID:    21,
		BusinessID: businessID,
		Amount:     vo.NewMoney(10_000, "EUR"),
		Method:     vo.PaymentMethodZarinpal,
		Fee:        500,
		Business:   9_500,
		Metadata:   payment.Metadata{PickupAt: time.Now().UTC().Add(time.Hour)},
	})
	require.NoError(t, err)
	require.NoError(t, p.MarkProcessingGateway(fmt.Sprintf("A-stl-%d", f.seq)))
	require.NoError(t, p.CompleteGateway(fmt.Sprintf("ref-%d", f.seq)))
	require.NoError(t, f.payments.Create(context.Background(), p))
	return p
}

// seedCompletedTether persists a completed stablecoin payment of 108.70 USDT
// with a 105.43 USDT business share.
func (f *fixture) seedCompletedTether(t *testing.T, businessID uint) *payment.Payment {
	t.Helper()
	f.seq++
	p, err := payment.NewPayment(payment.NewPaymentParams{
		OfferID:    uint(f.seq),
		BuyerID:    21,
		BusinessID: businessID,
		Amount:     vo.NewMoney(10_000, "EUR"),
		Method:     vo.PaymentMethodTether,
		Fee:        500,
		Business:   9_500,
		Metadata:   payment.Metadata{PickupAt: time.Now().UTC().Add(time.Hour)},
	})
	require.NoError(t, err)
	require.NoError(t, p.FreezeStableAmounts(108_700_000, 3_270_000, 105_430_000, 1.087))
	require.NoError(t, p.MarkProcessingChain("0x1000000000000000000000000000000000000001"))
	require.NoError(t, p.CompleteChain(fmt.Sprintf("0xfeed%060d", f.seq), "0x2000000000000000000000000000000000000002"))
	require.NoError(t, f.payments.Create(context.Background(), p))
	return p
}

func (f *fixture) reloadPayment(t *testing.T, id uint) *payment.Payment {
	t.Helper()
	p, err := f.payments.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) lineItemCount(t *testing.T, settlementID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.SettlementPaymentModel{}).
		Where("settlement_id = ?", settlementID).Count(&count).Error)
	return count
}
