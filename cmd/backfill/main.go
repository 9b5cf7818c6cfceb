package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/config"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/database"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/core"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/jswap"
)

func main() {
	var (
		configPath string
		fromBlock  uint64
		toBlock    uint64
	)

	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.Uint64Var(&fromBlock, "from", 0, "Starting block")
	flag.Uint64Var(&toBlock, "to", 0, "Ending block")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()

	ctx := context.Background()

	if err := database.RunMigrations(ctx, &cfg.Database, logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to database
	db, err := database.New(ctx, &cfg.Database, cfg.Chain.ChainID, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Create module registry
	registry := core.NewModuleRegistry(db, logger)

	module, err := jswap.NewJswapModule(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create jswap module")
	}

	if err := registry.RegisterModule(module); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register jswap module")
	}

	if err := registry.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start registry")
	}
	defer func() { _ = registry.Stop() }()

	// If no range specified, replay everything stored
	if fromBlock == 0 || toBlock == 0 {
		var minBlock, maxBlock uint64
		row := db.Pool().QueryRow(ctx, "SELECT COALESCE(MIN(block_number), 0), COALESCE(MAX(block_number), 0) FROM event_logs")
		if err := row.Scan(&minBlock, &maxBlock); err != nil {
			logger.Fatal().Err(err).Msg("Failed to get block range")
		}
		if fromBlock == 0 {
			fromBlock = minBlock
		}
		if toBlock == 0 {
			toBlock = maxBlock
		}
	}

	if toBlock == 0 {
		logger.Info().Msg("No stored events to backfill")
		return
	}

	logger.Info().
		Str("module", module.Name()).
		Uint64("from", fromBlock).
		Uint64("to", toBlock).
		Msg("Starting backfill")

	if err := module.Backfill(ctx, fromBlock, toBlock); err != nil {
		logger.Fatal().Err(err).Msg("Backfill failed")
	}

	logger.Info().Msg("Backfill completed")
}
