package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/elilourens/League-Logger/internal/config"
	"github.com/elilourens/League-Logger/internal/games/lol"
	"github.com/elilourens/League-Logger/internal/poller"
	"github.com/elilourens/League-Logger/internal/riot"
	"github.com/elilourens/League-Logger/internal/storage"
)

// Bot represents the Discord bot instance
type Bot struct {
	config   *config.Config
	session  *discordgo.Session
	repo     *storage.Repository
	commands *Commands
	poller   *poller.Poller
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Set intents
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	// Initialize storage
	repo, err := storage.NewRepository(cfg.DatabaseDriver, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	riotClient := riot.NewClient(cfg.RiotAPIKey, riot.WithRequestsPerSecond(cfg.RiotRequestsPerSecond))
	tracker := lol.NewTracker(riotClient, cfg.RecentMatchCount)

	b := &Bot{
		config:   cfg,
		session:  session,
		repo:     repo,
		commands: NewCommands(repo, repo, tracker),
		poller: poller.New(repo, repo, tracker, NewMessenger(session),
			poller.WithInterval(cfg.PollingInterval()),
			poller.WithLogger(slog.Default().With("component", "poller")),
		),
	}

	// Register command handlers
	b.registerHandlers()

	return b, nil
}

// Start opens the Discord connection and starts background tasks
func (b *Bot) Start(ctx context.Context) error {
	// Open Discord connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	// Register slash commands
	if err := b.registerCommands(); err != nil {
		return err
	}

	// Start the match poller
	b.poller.Start(ctx)

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() error {
	// Stop the poller before closing what it uses
	b.poller.Stop()

	if err := b.session.Close(); err != nil {
		slog.Error("Failed to close Discord session", "error", err)
	}

	return b.repo.Close()
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "guilds", len(r.Guilds))
	})
}
