package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/Optus-development-team/optsms-backend/config"
	"github.com/Optus-development-team/optsms-backend/internal/auth"
	handler "github.com/Optus-development-team/optsms-backend/internal/handler/http"
	"github.com/Optus-development-team/optsms-backend/internal/ledger"
	"github.com/Optus-development-team/optsms-backend/internal/middleware"
	"github.com/Optus-development-team/optsms-backend/internal/notify"
	"github.com/Optus-development-team/optsms-backend/internal/rail"
	"github.com/Optus-development-team/optsms-backend/internal/reconcile"
	"github.com/Optus-development-team/optsms-backend/internal/repository"
	"github.com/Optus-development-team/optsms-backend/internal/repository/postgres"
	"github.com/Optus-development-team/optsms-backend/internal/service"
	"github.com/Optus-development-team/optsms-backend/internal/worker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const authTokenKey = "f53ac685bbceebd75043e6be2e06ee07"

// newLogger creates logger with log level
func newLogger(level string) (*zap.Logger, error) {

	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = loggerLvl

	return loggerCfg.Build()
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// create context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	err = db.Migrate()
	if err != nil {
		logger.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(authTokenKey)
	if err != nil {
		logger.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	// dependency injection
	orderLedger := ledger.New()

	fiatRail := rail.NewFiatClient(cfg.FiatRailAddr)
	unifiedRail := rail.NewUnifiedClient(cfg.UnifiedRailAddr, cfg.UnifiedAPIKey)
	delivery := notify.NewClient(cfg.DeliveryAddr)

	orderRepo := repository.NewOrderRepository(db)
	tenantRepo := repository.NewTenantRepository(db)

	orderService := service.NewOrderService(orderLedger, fiatRail, unifiedRail, delivery, tenantRepo, orderRepo, logger, cfg.Currency, cfg.Symbol)
	orderHandler := handler.NewOrderHandler(orderService)
	adminHandler := handler.NewAdminHandler(orderService)

	reconciler := reconcile.NewReconciler(orderLedger, orderService, orderRepo, logger)
	webhookHandler := handler.NewWebhookHandler(reconciler)

	// persistence sync and sweeps
	processor := worker.NewSyncProcessor(orderService, logger, cfg.StaleVerifying, cfg.Retention, cfg.SweepInterval)
	go processor.ProcessSync(ctx)
	go processor.ProcessSweeps(ctx)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger))

	// notifier channels; acknowledged unconditionally once parsed
	router.Post("/api/webhook/bank", webhookHandler.BankWebhook())
	router.Post("/api/webhook/settlement", webhookHandler.SettlementWebhook())
	router.Post("/api/webhook/payment-page", webhookHandler.PageConfirmation())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(middleware.Auth(token))
		group.Post("/api/orders/checkout", orderHandler.Checkout())
		group.Post("/api/orders/paid", orderHandler.Paid())
		group.Post("/api/admin/second-factor", adminHandler.SubmitSecondFactor())
	})

	logger.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Fatal("Error starting server", zap.Error(err))
	}
}
