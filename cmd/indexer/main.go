package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/config"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/database"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/jswap"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/processor"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/scheduler"
)

func main() {
	// Parse command-line flags
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logger
	logger := setupLogger(cfg.Logging)

	// Log startup information
	logger.Info().
		Str("version", "1.0.0").
		Str("config", configPath).
		Str("chain", cfg.Chain.Name).
		Msg("Starting JSwap indexer")

	ctx := context.Background()

	// Apply schema migrations before anything touches the database
	if err := database.RunMigrations(ctx, &cfg.Database, logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Create indexer
	indexer, err := processor.NewIndexer(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create indexer")
	}

	// Register the JSwap module
	module, err := jswap.NewJswapModule(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create jswap module")
	}
	// Reuse the indexer's RPC connection for contract reads
	module.SetRPCClient(indexer.RPCClient().EthClient())

	if err := indexer.Registry().RegisterModule(module); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register jswap module")
	}

	// Rolling token metrics refresh
	metricsScheduler, err := scheduler.NewTokenMetricsScheduler(indexer.Database().Pool(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create token metrics scheduler")
	}
	if err := metricsScheduler.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start token metrics scheduler")
	}
	defer metricsScheduler.Stop()

	// Start indexer (blocks until shutdown)
	if err := indexer.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Indexer failed")
	}

	logger.Info().Msg("Indexer shutdown complete")
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set time format
	zerolog.TimeFieldFormat = time.RFC3339Nano

	// Parse log level
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	// Configure output format
	var logger zerolog.Logger
	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05.000",
		}
		logger = zerolog.New(output).Level(level).With().Timestamp().Caller().Logger()
	} else {
		logger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Caller().Logger()
	}

	return logger
}
