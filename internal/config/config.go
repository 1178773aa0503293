package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Addr            string `env:"ADDR" envDefault:":8080"`
	DatabaseDSN     string `env:"DATABASE_DSN" envDefault:"tournament.db?_journal_mode=WAL"`
	MigrationsDir   string `env:"MIGRATIONS_DIR" envDefault:"./migrations"`
	PubSubProjectID string `env:"PUBSUB_PROJECT_ID"`
}

// Load reads configuration from the environment, preloading a .env file when
// one is present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
