package usecases

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lastbite/internal/application/payment/chainrail"
	"lastbite/internal/application/payment/exchangerate"
	"lastbite/internal/application/payment/gatewayrail"
	settlementusecases "lastbite/internal/application/settlement/usecases"
	"lastbite/internal/domain/payment"
	"lastbite/internal/infrastructure/persistence/models"
	"lastbite/internal/infrastructure/repository"
	shareddb "lastbite/internal/shared/db"
	"lastbite/internal/shared/logger"
)

// fixture wires real repositories against an in-memory database with the
// rails mocked at the port boundary.
type fixture struct {
	db           *gorm.DB
	payments     *repository.PaymentRepository
	wallets      *repository.BusinessWalletRepository
	reservations *repository.ReservationRepository
	settlements  *repository.SettlementRepository
	txManager    *shareddb.TransactionManager
	gateway      *gatewayrail.MockRail
	chain        *chainrail.MockRail
	rates        *stubRates
	folder       SettlementFolder
	log          logger.Interface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gormDB.AutoMigrate(
		&models.PaymentModel{},
		&models.SettlementModel{},
		&models.SettlementPaymentModel{},
		&models.BusinessWalletModel{},
		&models.ReservationModel{},
	))

	log := logger.NewLogger()
	f := &fixture{
		db:           gormDB,
		payments:     repository.NewPaymentRepository(gormDB, log),
		wallets:      repository.NewBusinessWalletRepository(gormDB),
		reservations: repository.NewReservationRepository(gormDB),
		settlements:  repository.NewSettlementRepository(gormDB, log),
		txManager:    shareddb.NewTransactionManager(gormDB),
		gateway:      gatewayrail.NewMockRail(),
		chain:        chainrail.NewMockRail(),
		rates:        &stubRates{},
		log:          log,
	}
	f.folder = settlementusecases.NewAddPaymentToSettlementUseCase(
		f.payments, f.settlements, f.txManager, log)
	return f
}

func (f *fixture) initiateUC() *InitiatePaymentUseCase {
	return NewInitiatePaymentUseCase(
		f.payments, f.wallets, f.gateway, f.chain, f.rates,
		payment.DefaultFeeSchedule(), f.log,
		InitiatePaymentConfig{CallbackURL: "http://localhost/api/v1/payments/callback", ExpiresIn: 30 * time.Minute},
	)
}

func (f *fixture) completeUC() *CompleteZarinpalPaymentUseCase {
	return NewCompleteZarinpalPaymentUseCase(
		f.payments, f.reservations, f.folder, f.gateway, f.txManager, f.log)
}

func (f *fixture) verifyUC() *VerifyTetherPaymentUseCase {
	return NewVerifyTetherPaymentUseCase(
		f.payments, f.reservations, f.folder, f.chain, f.txManager,
		VerifyTetherPaymentConfig{ConfirmationsUser: 3, ConfirmationsWebhook: 12}, f.log)
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
		addr := "0x3000000000000000000000000000000000000003"
		model.USDTAddress = &addr
		model.USDTEnabled = true
	}
	require.NoError(t, f.db.Create(model).Error)
}

func (f *fixture) paymentCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.PaymentModel{}).Count(&count).Error)
	return count
}

func (f *fixture) reservationCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.ReservationModel{}).Count(&count).Error)
	return count
}

func (f *fixture) reload(t *testing.T, id uint) *payment.Payment {
	t.Helper()
	p, err := f.payments.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

// stubRates is a deterministic exchange rate service: 1 EUR = 1.087 USDT.
type stubRates struct {
	err error
}

var stubRateTable = map[string]float64{"EUR": 1.087, "USD": 1.0, "USDT": 1.0}

func (s *stubRates) GetRates(_ context.Context) (map[string]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return stubRateTable, nil
}

func (s *stubRates) ConvertToUSDTRaw(_ context.Context, amountMinor int64, currency string) (uint64, float64, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	rate, ok := stubRateTable[currency]
	if !ok {
		return 0, 0, exchangerate.ErrUnsupportedCurrency
	}
	cents := math.Ceil(float64(amountMinor) / 100 * rate * 100)
	return uint64(cents) * 10_000, rate, nil
}

func defaultCommand(method string) InitiatePaymentCommand {
	return InitiatePaymentCommand{
		OfferID:     7,
		BuyerID:     21,
		BusinessID:  3,
		AmountMinor: 10_000,
		Currency:    "EUR",
		Method:      method,
		PickupAt:    time.Now().UTC().Add(2 * time.Hour),
		BuyerEmail:  "buyer@example.com",
		Description: "surprise bag",
	}
}
