package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "discord-token")
	t.Setenv("RIOT_API_KEY", "riot-key")
}

func TestParseDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Parse()
	require.NoError(t, err)
	require.Equal(t, "discord-token", cfg.DiscordToken)
	require.Equal(t, "riot-key", cfg.RiotAPIKey)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, "./data/bot.db", cfg.DatabasePath)
	require.Equal(t, 5*time.Second, cfg.PollingInterval())
	require.Equal(t, 5, cfg.RecentMatchCount)
	require.Equal(t, 20, cfg.RiotRequestsPerSecond)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestParseOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_PATH", "postgres://bot@localhost/bot?sslmode=disable")
	t.Setenv("POLLING_INTERVAL_SECONDS", "90")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse()
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.DatabaseDriver)
	require.Equal(t, 90*time.Second, cfg.PollingInterval())
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestParseMissingRequired(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")
	t.Setenv("RIOT_API_KEY", "riot-key")

	_, err := Parse()
	require.Error(t, err)
}

func TestParseInvalidValues(t *testing.T) {
	tests := map[string]string{
		"POLLING_INTERVAL_SECONDS": "0",
		"RECENT_MATCH_COUNT":       "101",
		"RIOT_REQUESTS_PER_SECOND": "-1",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, value)

			_, err := Parse()
			require.Error(t, err)
		})
	}

	t.Run("NotANumber", func(t *testing.T) {
		setRequired(t)
		t.Setenv("POLLING_INTERVAL_SECONDS", "soon")

		_, err := Parse()
		require.Error(t, err)
	})
}
