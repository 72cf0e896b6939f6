package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/elilourens/League-Logger/internal/riot"
)

const commandTimeout = 15 * time.Second

func regionChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(riot.Regions))
	for i, r := range riot.Regions {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{
			Name:  r,
			Value: r,
		}
	}
	return choices
}

// Slash command definitions
func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "add",
			Description: "Start logging a player's recent matches",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "in-game-name",
					Description: "Riot game name (e.g., Faker)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "tagline",
					Description: "Riot tagline without # (e.g., KR1)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "region",
					Description: "Server the player plays on",
					Required:    true,
					Choices:     regionChoices(),
				},
			},
		},
		{
			Name:        "remove",
			Description: "Stop logging a player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "in-game-name",
					Description: "Riot game name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "tagline",
					Description: "Riot tagline without #",
					Required:    true,
				},
			},
		},
		{
			Name:        "getplayerlist",
			Description: "List all players logged in this server",
		},
		{
			Name:        "setloggerchannel",
			Description: "Set the channel for match notifications",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "The channel to send notifications to",
					Required:    true,
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildText,
					},
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord, replacing stale ones
func (b *Bot) registerCommands() error {
	slog.Info("Registering slash commands")

	appID := b.config.DiscordApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	// Empty guild ID = global commands
	registered, err := b.session.ApplicationCommandBulkOverwrite(appID, "", commandDefinitions())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	slog.Info("Slash commands registered", "count", len(registered))
	return nil
}

// handleInteraction processes slash command interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	slog.Debug("Received command", "command", data.Name, "guild", i.GuildID)

	if i.GuildID == "" {
		respondWithMessage(s, i, "This command can only be used in a server.", true)
		return
	}

	switch data.Name {
	case "add":
		b.handleAdd(s, i)
	case "remove":
		b.handleRemove(s, i)
	case "getplayerlist":
		b.handleList(s, i)
	case "setloggerchannel":
		b.handleSetChannel(s, i)
	default:
		slog.Warn("Unknown command", "command", data.Name)
	}
}

// handleAdd handles the /add command
func (b *Bot) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i.ApplicationCommandData().Options)

	// Respond immediately to avoid timeout, the Riot lookup may take a while
	deferResponse(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	reply := b.commands.AddPlayer(ctx, i.GuildID,
		stringOption(opts, "in-game-name"), stringOption(opts, "tagline"), stringOption(opts, "region"))
	editResponse(s, i, reply)
}

// handleRemove handles the /remove command
func (b *Bot) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i.ApplicationCommandData().Options)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	reply := b.commands.RemovePlayer(ctx, i.GuildID, stringOption(opts, "in-game-name"), stringOption(opts, "tagline"))
	respondWithMessage(s, i, reply, false)
}

// handleList handles the /getplayerlist command
func (b *Bot) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	respondWithMessage(s, i, b.commands.ListPlayers(ctx, i.GuildID), false)
}

// handleSetChannel handles the /setloggerchannel command
func (b *Bot) handleSetChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	opt, ok := optionMap(data.Options)["channel"]
	if !ok {
		respondWithMessage(s, i, "Please mention a valid text channel.", true)
		return
	}

	channel := opt.ChannelValue(nil)
	if data.Resolved != nil {
		if resolved, ok := data.Resolved.Channels[channel.ID]; ok {
			channel = resolved
		}
	}
	if channel.ID == "" || channel.Type != discordgo.ChannelTypeGuildText {
		respondWithMessage(s, i, "Please mention a valid text channel.", true)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	respondWithMessage(s, i, b.commands.SetLoggingChannel(ctx, i.GuildID, channel.ID), false)
}

// Helper functions

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	opt, ok := opts[name]
	if !ok {
		return ""
	}
	return opt.StringValue()
}

func respondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Content: content,
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		slog.Error("Failed to respond to interaction", "error", err)
	}
}

func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		slog.Error("Failed to defer interaction response", "error", err)
	}
}

func editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	}); err != nil {
		slog.Error("Failed to edit interaction response", "error", err)
	}
}
