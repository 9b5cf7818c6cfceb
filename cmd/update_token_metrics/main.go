package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/config"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/database"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	tokenID := flag.String("token", "", "specific token address to update (if empty, updates all)")
	flag.Parse()

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Connect to database
	ctx := context.Background()
	db, err := database.New(ctx, &cfg.Database, cfg.Chain.ChainID, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("Updating token metrics...")

	if *tokenID != "" {
		// Update specific token
		log.Info().Str("token", *tokenID).Msg("Updating single token")
		if err := database.UpdateTokenMetrics(ctx, db.Pool(), *tokenID); err != nil {
			log.Fatal().Err(err).Str("token", *tokenID).Msg("Failed to update token")
		}
		log.Info().Str("token", *tokenID).Msg("Token updated successfully")
		return
	}

	// Update all tokens
	rows, err := db.Pool().Query(ctx, "SELECT id FROM tokens")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query tokens")
	}

	var tokens []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Error().Err(err).Msg("Failed to scan token address")
			continue
		}
		tokens = append(tokens, id)
	}
	rows.Close()

	log.Info().Int("count", len(tokens)).Msg("Found tokens to update")

	successCount := 0
	for i, id := range tokens {
		if err := database.UpdateTokenMetrics(ctx, db.Pool(), id); err != nil {
			log.Error().Err(err).Str("token", id).Msg("Failed to update token")
			continue
		}
		successCount++
		if (i+1)%10 == 0 {
			log.Info().Int("processed", i+1).Int("total", len(tokens)).Msg("Progress")
		}
	}

	log.Info().
		Int("success", successCount).
		Int("failed", len(tokens)-successCount).
		Int("total", len(tokens)).
		Msg("Finished updating tokens")
}
