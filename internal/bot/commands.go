package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/elilourens/League-Logger/internal/game"
	"github.com/elilourens/League-Logger/internal/riot"
	"github.com/elilourens/League-Logger/internal/storage"
)

// Discord rejects message content longer than this
const maxMessageLength = 2000

// PlayerStore is the player registry used by commands
type PlayerStore interface {
	InsertPlayer(ctx context.Context, p *storage.Player) (alreadyExists bool, err error)
	ListPlayers(ctx context.Context, guildID string) ([]*storage.Player, error)
	DeletePlayer(ctx context.Context, guildID, username, tagline string) (bool, error)
}

// ChannelStore is the logging channel configuration used by commands
type ChannelStore interface {
	SetChannel(ctx context.Context, guildID, channelID string) error
}

// Commands implements the slash command behaviour independently of Discord.
// Every method returns the reply to show the user.
type Commands struct {
	players  PlayerStore
	channels ChannelStore
	lookup   game.MatchLookup
}

// NewCommands creates the command handlers
func NewCommands(players PlayerStore, channels ChannelStore, lookup game.MatchLookup) *Commands {
	return &Commands{
		players:  players,
		channels: channels,
		lookup:   lookup,
	}
}

// AddPlayer resolves a Riot ID and starts logging it in the guild
func (c *Commands) AddPlayer(ctx context.Context, guildID, name, tagline, region string) string {
	name = strings.TrimSpace(name)
	tagline = strings.TrimPrefix(strings.TrimSpace(tagline), "#")
	region = strings.ToLower(strings.TrimSpace(region))

	if name == "" || tagline == "" {
		return "Please provide both an in-game name and a tagline."
	}
	if _, err := riot.MatchRoute(region); err != nil {
		return fmt.Sprintf("Unknown region `%s`. Supported regions: %s", region, strings.Join(riot.Regions, ", "))
	}

	puuid, err := c.lookup.ResolveIdentity(ctx, name, tagline, region)
	if err != nil {
		slog.Error("Failed to look up player", "riotID", name+"#"+tagline, "region", region, "error", err)
		return fmt.Sprintf("Could not find player %s#%s in %s.", name, tagline, region)
	}

	exists, err := c.players.InsertPlayer(ctx, &storage.Player{
		GuildID:  guildID,
		Username: name,
		PUUID:    puuid,
		Region:   region,
		Tagline:  tagline,
	})
	if err != nil {
		slog.Error("Error inserting player", "guildID", guildID, "error", err)
		return "Failed to add the player."
	}
	if exists {
		return fmt.Sprintf("Player %s is already logged.", name)
	}

	slog.Info("Player added", "guildID", guildID, "riotID", name+"#"+tagline, "region", region)
	return fmt.Sprintf("Player %s added successfully.", name)
}

// RemovePlayer stops logging a player in the guild
func (c *Commands) RemovePlayer(ctx context.Context, guildID, name, tagline string) string {
	name = strings.TrimSpace(name)
	tagline = strings.TrimPrefix(strings.TrimSpace(tagline), "#")

	deleted, err := c.players.DeletePlayer(ctx, guildID, name, tagline)
	if err != nil {
		slog.Error("Error removing player", "guildID", guildID, "error", err)
		return "Failed to remove the player."
	}
	if !deleted {
		return fmt.Sprintf("Player %s#%s is not being logged.", name, tagline)
	}
	return fmt.Sprintf("Player %s#%s removed.", name, tagline)
}

// ListPlayers describes every player logged in the guild
func (c *Commands) ListPlayers(ctx context.Context, guildID string) string {
	players, err := c.players.ListPlayers(ctx, guildID)
	if err != nil {
		slog.Error("Error fetching players", "guildID", guildID, "error", err)
		return "An error occurred while fetching the player list."
	}

	if len(players) == 0 {
		return "No players are being logged in this server."
	}

	var sb strings.Builder
	sb.WriteString("Players in this server:")
	for _, p := range players {
		sb.WriteString(fmt.Sprintf("\nUsername: %s, Region: %s, Tagline: %s", p.Username, p.Region, p.Tagline))
	}

	return truncate(sb.String(), maxMessageLength)
}

// SetLoggingChannel makes channelID the guild's notification channel
func (c *Commands) SetLoggingChannel(ctx context.Context, guildID, channelID string) string {
	if err := c.channels.SetChannel(ctx, guildID, channelID); err != nil {
		var storageErr *storage.Error
		if errors.As(err, &storageErr) {
			slog.Error("Error setting a logging channel", "guildID", guildID, "op", storageErr.Op, "error", storageErr.Err)
		} else {
			slog.Error("Error setting a logging channel", "guildID", guildID, "error", err)
		}
		return "Failed to set the logging channel."
	}

	slog.Info("Logging channel set", "guildID", guildID, "channelID", channelID)
	return fmt.Sprintf("Logging Channel Succeeded. <#%s>", channelID)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := strings.LastIndexByte(s[:limit-4], '\n')
	if cut <= 0 {
		cut = limit - 4
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
	}
	return s[:cut] + "\n..."
}
