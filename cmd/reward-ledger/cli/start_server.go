package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rewardlabs-io/reward-ledger/internal/api"
	"github.com/rewardlabs-io/reward-ledger/internal/clients/assetledger"
	"github.com/rewardlabs-io/reward-ledger/internal/config"
	"github.com/rewardlabs-io/reward-ledger/internal/db"
	dbmodel "github.com/rewardlabs-io/reward-ledger/internal/db/model"
	"github.com/rewardlabs-io/reward-ledger/internal/observability/metrics"
	"github.com/rewardlabs-io/reward-ledger/internal/observability/tracing"
	"github.com/rewardlabs-io/reward-ledger/internal/queue"
	"github.com/rewardlabs-io/reward-ledger/internal/services"
)

const shutdownTimeout = 10 * time.Second

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the reward ledger server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	err = dbmodel.Setup(ctx, &cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up ledger db model")
	}

	// create new db client
	var dbClient db.DbInterface
	dbClient, err = db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	dbClient = db.NewDbWithMetrics(dbClient)

	// Create a basic zap logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating zap logger")
	}
	defer func() {
		//nolint:errcheck
		zapLogger.Sync()
	}()

	queueManager, err := queue.NewQueueManager(&cfg.Queue, zapLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize queue manager")
	}
	defer queueManager.Shutdown()

	var tokenLedger assetledger.AssetLedger = assetledger.NewClient(&cfg.Token)
	tokenLedger = assetledger.NewAssetLedgerWithMetrics(tokenLedger, "token")

	var stableLedger assetledger.AssetLedger = assetledger.NewClient(&cfg.Stable)
	stableLedger = assetledger.NewAssetLedgerWithMetrics(stableLedger, "stable")

	service := services.NewService(
		cfg,
		dbClient,
		tokenLedger,
		stableLedger,
		queueManager,
		services.SystemClock{},
	)
	if err := service.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("error while bootstrapping ledger service")
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	server := api.New(cfg, service, dbClient)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
