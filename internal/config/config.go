package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken         string `env:"DISCORD_BOT_TOKEN,required,notEmpty"`
	DiscordApplicationID string `env:"DISCORD_APPLICATION_ID"`

	// Riot API
	RiotAPIKey            string `env:"RIOT_API_KEY,required,notEmpty"`
	RiotRequestsPerSecond int    `env:"RIOT_REQUESTS_PER_SECOND" envDefault:"20"`
	RecentMatchCount      int    `env:"RECENT_MATCH_COUNT" envDefault:"5"`

	// Database
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"./data/bot.db"`

	// Polling
	PollingIntervalSeconds int `env:"POLLING_INTERVAL_SECONDS" envDefault:"5"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return Parse()
}

// Parse reads configuration from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.PollingIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid POLLING_INTERVAL_SECONDS: %d", cfg.PollingIntervalSeconds)
	}
	if cfg.RecentMatchCount <= 0 || cfg.RecentMatchCount > 100 {
		return nil, fmt.Errorf("invalid RECENT_MATCH_COUNT: %d (must be 1-100)", cfg.RecentMatchCount)
	}
	if cfg.RiotRequestsPerSecond <= 0 {
		return nil, fmt.Errorf("invalid RIOT_REQUESTS_PER_SECOND: %d", cfg.RiotRequestsPerSecond)
	}

	return cfg, nil
}

// PollingInterval returns the tick period
func (c *Config) PollingInterval() time.Duration {
	return time.Duration(c.PollingIntervalSeconds) * time.Second
}
