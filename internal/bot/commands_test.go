package bot

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/elilourens/League-Logger/internal/game"
	"github.com/elilourens/League-Logger/internal/poller"
	"github.com/elilourens/League-Logger/internal/storage"
	"github.com/stretchr/testify/require"
)

var (
	_ PlayerStore      = (*storage.Repository)(nil)
	_ ChannelStore     = (*storage.Repository)(nil)
	_ game.MatchLookup = (*stubLookup)(nil)
)

type stubLookup struct {
	puuids     map[string]string
	resolveErr error
	matches    map[string][]string
}

func (s *stubLookup) ResolveIdentity(_ context.Context, name, tagline, _ string) (string, error) {
	if s.resolveErr != nil {
		return "", s.resolveErr
	}
	puuid, ok := s.puuids[name+"#"+tagline]
	if !ok {
		return "", errors.New("account not found")
	}
	return puuid, nil
}

func (s *stubLookup) RecentMatches(_ context.Context, playerID, _ string) game.MatchResult {
	return game.Found(s.matches[playerID])
}

type recordingMessenger struct {
	mu   sync.Mutex
	sent map[string][]string
}

func (m *recordingMessenger) ResolveDestination(_ context.Context, channelID string) (*poller.Destination, error) {
	return &poller.Destination{ChannelID: channelID}, nil
}

func (m *recordingMessenger) SendMessage(_ context.Context, dest *poller.Destination, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = make(map[string][]string)
	}
	m.sent[dest.ChannelID] = append(m.sent[dest.ChannelID], text)
	return nil
}

type failingStore struct{}

func (failingStore) InsertPlayer(context.Context, *storage.Player) (bool, error) {
	return false, &storage.Error{Op: "insert player", Err: errors.New("database is locked")}
}

func (failingStore) ListPlayers(context.Context, string) ([]*storage.Player, error) {
	return nil, &storage.Error{Op: "list players", Err: errors.New("database is locked")}
}

func (failingStore) DeletePlayer(context.Context, string, string, string) (bool, error) {
	return false, &storage.Error{Op: "delete player", Err: errors.New("database is locked")}
}

func (failingStore) SetChannel(context.Context, string, string) error {
	return &storage.Error{Op: "set channel", Err: errors.New("database is locked")}
}

func newTestRepository(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.NewRepository(storage.DriverSQLite, filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestAddPlayer(t *testing.T) {
	ctx := context.Background()
	lookup := &stubLookup{puuids: map[string]string{"Faker#KR1": "puuid-faker"}}

	t.Run("AddedThenAlreadyLogged", func(t *testing.T) {
		repo := newTestRepository(t)
		cmds := NewCommands(repo, repo, lookup)

		require.Equal(t, "Player Faker added successfully.", cmds.AddPlayer(ctx, "G1", "Faker", "KR1", "kr"))
		require.Equal(t, "Player Faker is already logged.", cmds.AddPlayer(ctx, "G1", "Faker", "#KR1", "KR"))

		players, err := repo.ListPlayers(ctx, "G1")
		require.NoError(t, err)
		require.Len(t, players, 1)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		repo := newTestRepository(t)
		cmds := NewCommands(repo, repo, lookup)

		require.Equal(t, "Could not find player Nobody#0000 in euw.", cmds.AddPlayer(ctx, "G1", "Nobody", "0000", "euw"))

		players, err := repo.ListPlayers(ctx, "G1")
		require.NoError(t, err)
		require.Empty(t, players)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		cmds := NewCommands(failingStore{}, failingStore{}, lookup)

		require.Equal(t, "Please provide both an in-game name and a tagline.", cmds.AddPlayer(ctx, "G1", "Faker", " ", "kr"))
		require.True(t, strings.HasPrefix(cmds.AddPlayer(ctx, "G1", "Faker", "KR1", "atlantis"), "Unknown region"))
	})

	t.Run("StorageFailure", func(t *testing.T) {
		cmds := NewCommands(failingStore{}, failingStore{}, lookup)

		require.Equal(t, "Failed to add the player.", cmds.AddPlayer(ctx, "G1", "Faker", "KR1", "kr"))
	})
}

func TestRemovePlayer(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	cmds := NewCommands(repo, repo, &stubLookup{puuids: map[string]string{"Faker#KR1": "puuid-faker"}})

	require.Equal(t, "Player Faker#KR1 is not being logged.", cmds.RemovePlayer(ctx, "G1", "Faker", "KR1"))
	cmds.AddPlayer(ctx, "G1", "Faker", "KR1", "kr")
	require.Equal(t, "Player Faker#KR1 removed.", cmds.RemovePlayer(ctx, "G1", "Faker", "KR1"))

	failing := NewCommands(failingStore{}, failingStore{}, &stubLookup{})
	require.Equal(t, "Failed to remove the player.", failing.RemovePlayer(ctx, "G1", "Faker", "KR1"))
}

func TestListPlayers(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	cmds := NewCommands(repo, repo, &stubLookup{puuids: map[string]string{
		"Faker#KR1": "puuid-faker",
		"Caps#EUW":  "puuid-caps",
	}})

	require.Equal(t, "No players are being logged in this server.", cmds.ListPlayers(ctx, "G1"))

	cmds.AddPlayer(ctx, "G1", "Faker", "KR1", "kr")
	cmds.AddPlayer(ctx, "G1", "Caps", "EUW", "euw")
	require.Equal(t,
		"Players in this server:\nUsername: Faker, Region: kr, Tagline: KR1\nUsername: Caps, Region: euw, Tagline: EUW",
		cmds.ListPlayers(ctx, "G1"))

	failing := NewCommands(failingStore{}, failingStore{}, &stubLookup{})
	require.Equal(t, "An error occurred while fetching the player list.", failing.ListPlayers(ctx, "G1"))
}

func TestSetLoggingChannel(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	cmds := NewCommands(repo, repo, &stubLookup{})

	require.Equal(t, "Logging Channel Succeeded. <#C1>", cmds.SetLoggingChannel(ctx, "G1", "C1"))
	require.Equal(t, "Logging Channel Succeeded. <#C2>", cmds.SetLoggingChannel(ctx, "G1", "C2"))

	channels, err := repo.ListChannels(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	require.Equal(t, "C2", channels[0].ChannelID)

	failing := NewCommands(failingStore{}, failingStore{}, &stubLookup{})
	require.Equal(t, "Failed to set the logging channel.", failing.SetLoggingChannel(ctx, "G1", "C1"))
}

func TestAddListSetChannelAndTick(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	lookup := &stubLookup{
		puuids:  map[string]string{"Faker#KR1": "puuid-faker"},
		matches: map[string][]string{"puuid-faker": {"A", "B"}},
	}
	cmds := NewCommands(repo, repo, lookup)

	require.Equal(t, "Player Faker added successfully.", cmds.AddPlayer(ctx, "G1", "Faker", "KR1", "kr"))

	players, err := repo.ListPlayers(ctx, "G1")
	require.NoError(t, err)
	require.Len(t, players, 1)
	require.Equal(t, "Faker", players[0].Username)
	require.Equal(t, "puuid-faker", players[0].PUUID)
	require.Equal(t, "kr", players[0].Region)
	require.Equal(t, "KR1", players[0].Tagline)

	require.Equal(t, "Logging Channel Succeeded. <#C1>", cmds.SetLoggingChannel(ctx, "G1", "C1"))

	messenger := &recordingMessenger{}
	p := poller.New(repo, repo, lookup, messenger, poller.WithLogger(discardLogger()))
	require.NoError(t, p.RunTick(ctx))

	require.Equal(t, map[string][]string{"C1": {"Recent matches for Faker: A, B"}}, messenger.sent)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))

	long := strings.Repeat("line\n", 10)
	got := truncate(long, 20)
	require.LessOrEqual(t, len(got), 20)
	require.True(t, strings.HasSuffix(got, "\n..."))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	got := truncate(strings.Repeat("페이커", 300), maxMessageLength)
	require.LessOrEqual(t, len(got), maxMessageLength)
	require.True(t, utf8.ValidString(got))
	require.True(t, strings.HasSuffix(got, "\n..."))
}
