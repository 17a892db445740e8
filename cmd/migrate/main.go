// Command migrate applies the embedded schema.  Usage: migrate [up|down].
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/workspace-booking/internal/config"
	"github.com/iliyamo/workspace-booking/internal/database"
	"github.com/iliyamo/workspace-booking/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if _, err := logging.Setup(cfg.Logging, cfg.IsProduction()); err != nil {
		log.Fatal().Err(err).Msg("setup logging")
	}

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}
	if direction != "up" && direction != "down" {
		log.Fatal().Str("direction", direction).Msg("usage: migrate [up|down]")
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DB, direction); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
}
