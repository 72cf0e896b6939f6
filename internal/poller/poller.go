package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/elilourens/League-Logger/internal/game"
	"github.com/elilourens/League-Logger/internal/storage"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Messages posted into logging channels
const (
	MsgNoPlayers     = "No players are being logged in this server."
	MsgGuildFailure  = "An error occurred while fetching the player list."
	msgRecentMatches = "Recent matches for %s: %s"
	msgNoMatches     = "No recent matches found for %s or failed to fetch data."
)

const DefaultInterval = 5 * time.Second

// ErrTickInProgress is returned by RunTick when the previous tick has not finished
var ErrTickInProgress = errors.New("poller: tick already in progress")

// PlayerLister reads the players tracked in a guild
type PlayerLister interface {
	ListPlayers(ctx context.Context, guildID string) ([]*storage.Player, error)
}

// ChannelLister reads every configured logging channel
type ChannelLister interface {
	ListChannels(ctx context.Context) ([]*storage.LoggingChannel, error)
}

// Poller periodically relays recent matches of tracked players to each guild's logging channel
type Poller struct {
	players   PlayerLister
	channels  ChannelLister
	lookup    game.MatchLookup
	messenger Messenger
	interval  time.Duration
	log       *slog.Logger

	// tickMu is held for the whole of a tick; ticks never overlap
	tickMu sync.Mutex

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Poller
type Option func(*Poller)

// WithInterval sets the tick period
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(p *Poller) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a new Poller
func New(players PlayerLister, channels ChannelLister, lookup game.MatchLookup, messenger Messenger, opts ...Option) *Poller {
	p := &Poller{
		players:   players,
		channels:  channels,
		lookup:    lookup,
		messenger: messenger,
		interval:  DefaultInterval,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start runs an initial tick and then one tick per interval until Stop or ctx is done
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cron != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	logger := cronLogger{log: p.log}
	c := cron.New(cron.WithChain(cron.Recover(logger)), cron.WithLogger(logger))
	c.Schedule(cron.Every(p.interval), cron.FuncJob(func() { p.tick(runCtx) }))

	p.cron = c
	p.cancel = cancel

	p.log.Info("Starting poller", "interval", p.interval)

	// Initial poll
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.tick(runCtx)
	}()

	c.Start()
}

// Stop halts scheduling, cancels the running tick and waits for it to return
func (p *Poller) Stop() {
	p.mu.Lock()
	c, cancel := p.cron, p.cancel
	p.cron, p.cancel = nil, nil
	p.mu.Unlock()

	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	p.wg.Wait()
	p.log.Info("Poller stopped")
}

func (p *Poller) tick(ctx context.Context) {
	err := p.RunTick(ctx)
	if errors.Is(err, ErrTickInProgress) {
		p.log.Warn("Previous tick still running, skipping")
	}
}

// RunTick relays recent matches for every guild with a logging channel.
// Only a failure to list channels is returned; per-guild and per-player
// failures are logged and reported into the channel.
func (p *Poller) RunTick(ctx context.Context) error {
	if !p.tickMu.TryLock() {
		return ErrTickInProgress
	}
	defer p.tickMu.Unlock()

	// Shutting down; not a storage failure
	if ctx.Err() != nil {
		return nil
	}

	log := p.log.With("tick", uuid.NewString())
	start := time.Now()

	channels, err := p.channels.ListChannels(ctx)
	if err != nil {
		log.Error("Error fetching logging channels", "error", err)
		return fmt.Errorf("list logging channels: %w", err)
	}

	if len(channels) == 0 {
		log.Debug("No logging channels configured")
		return nil
	}

	log.Debug("Polling guilds", "count", len(channels))

	for _, ch := range channels {
		if ctx.Err() != nil {
			log.Info("Tick cancelled")
			return nil
		}
		p.pollGuild(ctx, log.With("guildID", ch.GuildID, "channelID", ch.ChannelID), ch)
	}

	log.Debug("Tick finished", "took", time.Since(start))
	return nil
}

// pollGuild notifies one guild; it never returns an error so other guilds still run
func (p *Poller) pollGuild(ctx context.Context, log *slog.Logger, ch *storage.LoggingChannel) {
	dest, err := p.messenger.ResolveDestination(ctx, ch.ChannelID)
	if err != nil {
		log.Error("Logging channel not found", "error", err)
		return
	}

	if err := p.notifyGuild(ctx, log, dest, ch.GuildID); err != nil {
		log.Error("Error fetching or sending player list", "error", err)
		if sendErr := p.messenger.SendMessage(ctx, dest, MsgGuildFailure); sendErr != nil {
			log.Error("Failed to report error to channel", "error", sendErr)
		}
	}
}

func (p *Poller) notifyGuild(ctx context.Context, log *slog.Logger, dest *Destination, guildID string) error {
	players, err := p.players.ListPlayers(ctx, guildID)
	if err != nil {
		return err
	}

	if len(players) == 0 {
		return p.send(ctx, dest, MsgNoPlayers)
	}

	for _, player := range players {
		if ctx.Err() != nil {
			return nil
		}

		result := p.lookup.RecentMatches(ctx, player.PUUID, player.Region)
		switch result.Kind {
		case game.ResultFound:
			log.Debug("Recent matches found", "player", player.Username, "count", len(result.Matches))
		case game.ResultNotFound:
			log.Debug("No recent matches", "player", player.Username)
		case game.ResultFailed:
			log.Warn("Failed to fetch recent matches", "player", player.Username, "error", result.Err)
		}

		if err := p.send(ctx, dest, FormatResult(player.Username, result)); err != nil {
			return err
		}
	}

	return nil
}

func (p *Poller) send(ctx context.Context, dest *Destination, text string) error {
	if err := p.messenger.SendMessage(ctx, dest, text); err != nil {
		return &DeliveryError{ChannelID: dest.ChannelID, Err: err}
	}
	return nil
}

// FormatResult renders the notification for one player's lookup result
func FormatResult(username string, result game.MatchResult) string {
	if result.Kind == game.ResultFound && len(result.Matches) > 0 {
		return fmt.Sprintf(msgRecentMatches, username, result.Summary())
	}
	return fmt.Sprintf(msgNoMatches, username)
}
