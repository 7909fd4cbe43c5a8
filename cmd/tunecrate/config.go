package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultDatabaseURL = "postgres://localhost/tunecrate?sslmode=disable"
	devSecretKey       = "tunecrate-development-secret-key"
	minSecretLength    = 16
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	DatabaseURL string
	Addr        string
	SecretKey   string
	// Production is set by HEROKU and switches on secure cookies and JSON logs.
	Production bool

	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyAPIURL       string
	SpotifyTokenURL     string

	LogLevel    string
	LogFormat   string
	AutoMigrate bool
}

func loadConfig() (Config, error) {
	_ = godotenv.Load(".env", "config/local.env")

	production := os.Getenv("HEROKU") != ""

	host := "localhost"
	if production {
		host = "0.0.0.0"
	}

	format := "text"
	if production {
		format = "json"
	}

	autoMigrate, err := strconv.ParseBool(envOrDefault("AUTO_MIGRATE", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTO_MIGRATE: %w", err)
	}

	cfg := Config{
		DatabaseURL:         envOrDefault("DATABASE_URL", defaultDatabaseURL),
		Addr:                fmt.Sprintf("%s:%s", host, envOrDefault("PORT", "8080")),
		SecretKey:           envOrDefault("SECRET_KEY", devSecretKey),
		Production:          production,
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyAPIURL:       os.Getenv("SPOTIFY_API_URL"),
		SpotifyTokenURL:     os.Getenv("SPOTIFY_TOKEN_URL"),
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
		LogFormat:           strings.ToLower(envOrDefault("LOG_FORMAT", format)),
		AutoMigrate:         autoMigrate,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error

	if len(c.SecretKey) < minSecretLength {
		errs = append(errs, fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretLength))
	}
	if c.Production && c.SecretKey == devSecretKey {
		errs = append(errs, errors.New("SECRET_KEY must be set in production"))
	}
	if c.SpotifyClientID == "" || c.SpotifyClientSecret == "" {
		errs = append(errs, errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required"))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
