// Command migrate applies or rolls back the embedded schema.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"tunecrate/internal/logging"
	"tunecrate/internal/migrations"
)

func main() {
	_ = godotenv.Load(".env", "config/local.env")
	logging.Install(logging.Config{Level: os.Getenv("LOG_LEVEL"), Format: "text"})

	if len(os.Args) != 2 {
		log.Fatal().Msg("usage: migrate [up|down]")
	}
	dir, err := migrations.ParseDirection(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("usage: migrate [up|down]")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL env var is required")
	}

	if err := migrations.Run(dsn, dir); err != nil {
		log.Fatal().Err(err).Str("direction", string(dir)).Msg("run migrations")
	}
	log.Info().Str("direction", string(dir)).Msg("migrations applied")
}
