package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/db"
	"storefront/internal/infra/mail"
	"storefront/internal/infra/payment"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/notification"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run auto-migration before serving")
	return cmd
}

func runServe(ctx context.Context, migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.IsProduction())

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("db: get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	if migrate {
		if err := db.Migrate(gormDB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	//イベントID台帳（Redisがなければ DB の一意制約だけ）
	var ledger usecase.EventLedger = cache.NopEventLedger{}
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, relying on unique index", "err", err)
		}
		ledger = cache.NewRedisEventLedger(rdb)
	}

	if cfg.StripeWebhookSecret == "" {
		log.Warn("STRIPE_WEBHOOK_SECRET not set; every webhook will be rejected")
	}

	m := metrics.New()

	//Repository（GORM実装）生成
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	managerRepo := infraRepo.NewManagerGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	dispatcher := notification.NewDispatcher(mail.NewSMTPMailer(cfg.SMTP), cfg.OperatorEmail, cfg.StoreName, m)

	//Usecase生成
	checkoutUC := usecase.NewCheckoutUsecase(orderRepo, txm, payment.NewStripeLineItems(cfg.StripeSecretKey), ledger, dispatcher, idGen, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderRepo, txm, dispatcher, clock)
	adminAuditUC := usecase.NewAdminAuditUsecase(infraRepo.NewAuditLogGormRepository(gormDB))

	//Handler生成
	e := server.New(server.Deps{
		Config:      cfg,
		Logger:      log,
		Metrics:     m,
		Managers:    managerRepo,
		Webhook:     handler.NewWebhookHandler(payment.NewStripeVerifier(cfg.StripeWebhookSecret), checkoutUC, m),
		AdminOrders: handler.NewAdminOrderHandler(adminOrderUC, adminAuditUC),
		Health:      sqlDB.PingContext,
	})

	//Server起動
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	log.Info("server starting", "addr", addr, "env", cfg.AppEnv, "db", cfg.DatabaseDriver)

	if err := server.Start(ctx, e, addr); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
