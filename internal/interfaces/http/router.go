package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"lastbite/internal/application/payment/chainrail"
	"lastbite/internal/application/payment/exchangerate"
	"lastbite/internal/application/payment/gatewayrail"
	paymentUsecases "lastbite/internal/application/payment/usecases"
	settlementUsecases "lastbite/internal/application/settlement/usecases"
	"lastbite/internal/domain/payment"
	"lastbite/internal/infrastructure/blockchain"
	"lastbite/internal/infrastructure/config"
	infraExchangerate "lastbite/internal/infrastructure/exchangerate"
	"lastbite/internal/infrastructure/gateway"
	"lastbite/internal/infrastructure/ratelimit"
	"lastbite/internal/infrastructure/repository"
	"lastbite/internal/infrastructure/scheduler"
	"lastbite/internal/interfaces/http/handlers"
	"lastbite/internal/interfaces/http/routes"
	"lastbite/internal/shared/db"
	"lastbite/internal/shared/logger"
)

// Router wires repositories, rails, use cases and handlers, and owns the
// background schedulers.
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
	logger logger.Interface

	paymentScheduler    *scheduler.PaymentScheduler
	settlementScheduler *scheduler.SettlementScheduler
}

func NewRouter(gormDB *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()
	engine.Use(gin.Recovery())
	registerValidations()

	txManager := db.NewTransactionManager(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB, log)
	settlementRepo := repository.NewSettlementRepository(gormDB, log)
	walletRepo := repository.NewBusinessWalletRepository(gormDB)
	reservationRepo := repository.NewReservationRepository(gormDB)

	gatewayRail := buildGatewayRail(cfg, log)
	chainRail, err := buildChainRail(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build stablecoin rail: %w", err)
	}

	var rates exchangerate.Service = infraExchangerate.NewCoinGeckoService(
		time.Duration(cfg.Payment.RatesCacheTTLMin)*time.Minute, log)

	fees := payment.FeeSchedule{
		ZarinpalBasisPoints: cfg.Payment.Fees.ZarinpalBasisPoints,
		TetherBasisPoints:   cfg.Payment.Fees.TetherBasisPoints,
	}

	folder := settlementUsecases.NewAddPaymentToSettlementUseCase(paymentRepo, settlementRepo, txManager, log)

	initiateUC := paymentUsecases.NewInitiatePaymentUseCase(
		paymentRepo, walletRepo, gatewayRail, chainRail, rates, fees, log,
		paymentUsecases.InitiatePaymentConfig{
			CallbackURL: cfg.Payment.Zarinpal.CallbackURL,
			ExpiresIn:   time.Duration(cfg.Payment.ExpiryMinutes) * time.Minute,
		})
	completeUC := paymentUsecases.NewCompleteZarinpalPaymentUseCase(
		paymentRepo, reservationRepo, folder, gatewayRail, txManager, log)
	verifyUC := paymentUsecases.NewVerifyTetherPaymentUseCase(
		paymentRepo, reservationRepo, folder, chainRail, txManager,
		paymentUsecases.VerifyTetherPaymentConfig{
			ConfirmationsUser:    uint64(cfg.Payment.Tether.ConfirmationsUser),
			ConfirmationsWebhook: uint64(cfg.Payment.Tether.ConfirmationsWebhook),
		}, log)
	expireUC := paymentUsecases.NewExpirePaymentsUseCase(paymentRepo, log)
	retryUC := paymentUsecases.NewRetryCompletionSideEffectsUseCase(paymentRepo, reservationRepo, folder, log)

	processUC := settlementUsecases.NewProcessSettlementUseCase(
		settlementRepo, paymentRepo, walletRepo, gatewayRail, chainRail, txManager, log)
	payoutsUC := settlementUsecases.NewProcessMonthlyPayoutsUseCase(settlementRepo, processUC, log)

	limiter := ratelimit.NewRedisRateLimiter(redisClient)

	routes.Register(engine, routes.Config{
		PaymentHandler:    handlers.NewPaymentHandler(initiateUC, completeUC, verifyUC, log),
		SettlementHandler: handlers.NewSettlementHandler(settlementRepo, payoutsUC, processUC, log),
		WebhookHandler:    handlers.NewWebhookHandler(verifyUC, log),
		RateLimiter:       limiter,
		WebhookSecret:     cfg.Webhook.Secret,
		Logger:            log,
	})

	return &Router{
		engine: engine,
		cfg:    cfg,
		logger: log,
		paymentScheduler: scheduler.NewPaymentScheduler(expireUC, retryUC, log),
		settlementScheduler: scheduler.NewSettlementScheduler(payoutsUC,
			time.Duration(cfg.Settlement.SchedulerIntervalMin)*time.Minute, log),
	}, nil
}

// registerValidations installs the custom binding rules used by the payment
// handlers.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.After(time.Now())
	})
}

func buildGatewayRail(cfg *config.Config, log logger.Interface) gatewayrail.Rail {
	if cfg.Payment.Zarinpal.Mock {
		log.Warnw("using mock gateway rail")
		return gatewayrail.NewMockRail()
	}
	return gateway.NewZarinpalClient(&cfg.Payment.Zarinpal, log)
}

func buildChainRail(cfg *config.Config, log logger.Interface) (chainrail.Rail, error) {
	if cfg.Payment.Tether.Mock {
		log.Warnw("using mock stablecoin rail")
		return chainrail.NewMockRail(), nil
	}
	return blockchain.NewERC20Rail(&cfg.Payment.Tether, log)
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// StartSchedulers launches the background sweeps.
func (r *Router) StartSchedulers() {
	r.paymentScheduler.Start()
	r.settlementScheduler.Start()
}

// StopSchedulers blocks until the background sweeps have drained.
func (r *Router) StopSchedulers() {
	r.paymentScheduler.Stop()
	r.settlementScheduler.Stop()
}
