package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Repository handles all database operations
type Repository struct {
	db     *sql.DB
	driver string
}

// NewRepository opens the database for the given driver and runs migrations.
// For sqlite the dsn is a file path, for postgres a connection string.
func NewRepository(driver, dsn string) (*Repository, error) {
	driver, err := normalizeDriver(driver)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database path is required")
	}

	if driver == DriverSQLite {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite prefers a single writer; this also serialises command writes against tick reads.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &Repository{db: db, driver: driver}

	if driver == DriverSQLite {
		_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout = 5000")
		_, _ = db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
	}

	// Run migrations
	if err := repo.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the database schema
func (r *Repository) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS players (
			guild_id VARCHAR(32) NOT NULL,
			username VARCHAR(64) NOT NULL,
			puuid VARCHAR(100) NOT NULL,
			region VARCHAR(10) NOT NULL,
			tagline VARCHAR(16) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (guild_id, puuid)
		)`,
		`CREATE TABLE IF NOT EXISTS logging_channels (
			guild_id VARCHAR(32) PRIMARY KEY,
			channel_id VARCHAR(32) NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_players_guild ON players(guild_id, created_at)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

func (r *Repository) q(query string) string {
	return rebind(r.driver, query)
}

// Player operations

// InsertPlayer stores a player for its guild.
// A player already tracked in the guild is left untouched and reported with alreadyExists.
func (r *Repository) InsertPlayer(ctx context.Context, p *Player) (alreadyExists bool, err error) {
	if p.GuildID == "" || p.PUUID == "" {
		return false, opError("insert player", errors.New("guild id and puuid are required"))
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, r.q(
		`INSERT INTO players (guild_id, username, puuid, region, tagline, created_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(guild_id, puuid) DO NOTHING`),
		p.GuildID, p.Username, p.PUUID, p.Region, p.Tagline, p.CreatedAt,
	)
	if err != nil {
		return false, opError("insert player", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, opError("insert player", err)
	}
	return n == 0, nil
}

// ListPlayers returns the players tracked in a guild, oldest first
func (r *Repository) ListPlayers(ctx context.Context, guildID string) ([]*Player, error) {
	rows, err := r.db.QueryContext(ctx, r.q(
		`SELECT guild_id, username, puuid, region, tagline, created_at FROM players
		 WHERE guild_id = ? ORDER BY created_at, username`),
		guildID,
	)
	if err != nil {
		return nil, opError("list players", err)
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		p := &Player{}
		if err := rows.Scan(&p.GuildID, &p.Username, &p.PUUID, &p.Region, &p.Tagline, &p.CreatedAt); err != nil {
			return nil, opError("list players", err)
		}
		players = append(players, p)
	}

	return players, opError("list players", rows.Err())
}

// DeletePlayer removes a player from a guild by Riot ID, ignoring case
func (r *Repository) DeletePlayer(ctx context.Context, guildID, username, tagline string) (bool, error) {
	result, err := r.db.ExecContext(ctx, r.q(
		`DELETE FROM players WHERE guild_id = ? AND LOWER(username) = LOWER(?) AND LOWER(tagline) = LOWER(?)`),
		guildID, username, tagline,
	)
	if err != nil {
		return false, opError("delete player", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, opError("delete player", err)
	}
	return n > 0, nil
}

// Logging channel operations

// SetChannel creates or replaces the logging channel of a guild
func (r *Repository) SetChannel(ctx context.Context, guildID, channelID string) error {
	if guildID == "" || channelID == "" {
		return opError("set channel", errors.New("guild id and channel id are required"))
	}

	_, err := r.db.ExecContext(ctx, r.q(
		`INSERT INTO logging_channels (guild_id, channel_id, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET channel_id = excluded.channel_id, updated_at = excluded.updated_at`),
		guildID, channelID, time.Now().UTC(),
	)
	return opError("set channel", err)
}

// GetChannel returns the logging channel of a guild
func (r *Repository) GetChannel(ctx context.Context, guildID string) (*LoggingChannel, error) {
	c := &LoggingChannel{}
	err := r.db.QueryRowContext(ctx, r.q(
		`SELECT guild_id, channel_id, updated_at FROM logging_channels WHERE guild_id = ?`),
		guildID,
	).Scan(&c.GuildID, &c.ChannelID, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, opError("get channel", ErrNotFound)
	}
	if err != nil {
		return nil, opError("get channel", err)
	}
	return c, nil
}

// ListChannels returns every configured logging channel
func (r *Repository) ListChannels(ctx context.Context) ([]*LoggingChannel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT guild_id, channel_id, updated_at FROM logging_channels ORDER BY guild_id`,
	)
	if err != nil {
		return nil, opError("list channels", err)
	}
	defer rows.Close()

	var channels []*LoggingChannel
	for rows.Next() {
		c := &LoggingChannel{}
		if err := rows.Scan(&c.GuildID, &c.ChannelID, &c.UpdatedAt); err != nil {
			return nil, opError("list channels", err)
		}
		channels = append(channels, c)
	}

	return channels, opError("list channels", rows.Err())
}
