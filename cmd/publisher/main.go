package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"storefront/internal/infra"
	"storefront/internal/infra/secrets"
	"storefront/internal/pipeline"
	"storefront/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadPublisherConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("publisher: db connection failed")
	}
	defer pool.Close()
	runner := infra.NewSQLRunner(pool, logger)

	blobs, closeBlobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.BlobDriver).Msg("publisher: blob store setup failed")
	}
	defer closeBlobs()

	publisher := pipeline.NewPublisher(pipeline.Options{
		Config:  cfg,
		Secrets: secrets.NewStore(runner),
		Blobs:   blobs,
		Logger:  logger,
	})

	if cfg.PublishCron == "" {
		if err := runOnce(ctx, publisher, logger); err != nil {
			os.Exit(1)
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.PublishCron, func() {
		_ = runOnce(ctx, publisher, logger)
	}); err != nil {
		logger.Fatal().Err(err).Str("cron", cfg.PublishCron).Msg("publisher: invalid cron expression")
	}
	logger.Info().Str("cron", cfg.PublishCron).Msg("publisher: scheduled")
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info().Msg("publisher: stopped")
}

func runOnce(ctx context.Context, publisher *pipeline.Publisher, logger infra.Logger) error {
	result, err := publisher.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("publisher: run failed")
		return err
	}
	out, err := json.Marshal(result)
	if err != nil {
		logger.Error().Err(err).Msg("publisher: result encoding failed")
		return err
	}
	fmt.Println(string(out))
	logger.Info().
		Str("product_id", result.Printify.ProductID).
		Bool("published", result.Printify.Published).
		Msg("publisher: run complete")
	return nil
}

func newBlobStore(ctx context.Context, cfg *infra.PublisherConfig) (storage.BlobStore, func(), error) {
	switch cfg.BlobDriver {
	case "gcs":
		store, err := storage.NewGCSStore(ctx, cfg.AssetsBucket)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "file":
		store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL, cfg.LocalSigningSecret)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown blob driver %q", cfg.BlobDriver)
	}
}
