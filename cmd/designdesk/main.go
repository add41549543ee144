package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/designdesk/designdesk/internal/billing"
	"github.com/designdesk/designdesk/internal/blob"
	"github.com/designdesk/designdesk/internal/config"
	"github.com/designdesk/designdesk/internal/intake"
	"github.com/designdesk/designdesk/internal/notifier"
	"github.com/designdesk/designdesk/internal/payment"
	"github.com/designdesk/designdesk/internal/rewards"
	"github.com/designdesk/designdesk/internal/server"
	"github.com/designdesk/designdesk/internal/storage"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(start())
}

func start() int {
	config, err := config.NewConfig()
	if err != nil {
		zap.L().Info("error create config", zap.Error(err))
		return 1
	}

	defer zap.L().Sync()

	db, err := sqlx.Connect("postgres", config.DatabaseURI)
	if err != nil {
		zap.L().Info("error failed to connect to db: %w", zap.Error(err))
		return 1
	}

	defer db.Close()

	postgresStorage, err := storage.NewPostgresStorage(db)
	if err != nil {
		zap.L().Info("error failed to create postgres storage: %w", zap.Error(err))
		return 1
	}

	var (
		alertNotifier  = notifier.NewAlertNotifier(postgresStorage)
		rewardsService = rewards.NewService(postgresStorage)
		blobClient     = blob.NewClient(config.BlobAPIAddress)
		paymentClient  = payment.NewClient(config.PaymentAPIAddress)

		intakeService  = intake.NewService(postgresStorage, blobClient, rewardsService, alertNotifier)
		billingService = billing.NewService(postgresStorage, paymentClient, alertNotifier)
	)

	server := server.NewServer(config, postgresStorage, intakeService, billingService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := server.Start(); err != nil {
			zap.L().Info("error starting server", zap.Error(err))
			return err
		}

		return nil
	})

	<-ctx.Done()

	eg.Go(func() error {
		if err := server.Stop(); err != nil {
			zap.L().Info("error stopping server", zap.Error(err))
			return err
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return 1
	}

	return 0
}
