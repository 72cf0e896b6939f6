package lol

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elilourens/League-Logger/internal/game"
	"github.com/elilourens/League-Logger/internal/riot"
)

// Tracker implements game.MatchLookup for League of Legends
type Tracker struct {
	client     *riot.Client
	matchCount int
}

var _ game.MatchLookup = (*Tracker)(nil)

// NewTracker creates a new LoL tracker returning up to matchCount recent matches
func NewTracker(client *riot.Client, matchCount int) *Tracker {
	return &Tracker{
		client:     client,
		matchCount: matchCount,
	}
}

// ResolveIdentity looks up the PUUID of a Riot ID
func (t *Tracker) ResolveIdentity(ctx context.Context, name, tagline, region string) (string, error) {
	name = strings.TrimSpace(name)
	tagline = strings.TrimPrefix(strings.TrimSpace(tagline), "#")
	if name == "" || tagline == "" {
		return "", fmt.Errorf("game name and tag line cannot be empty")
	}

	account, err := t.client.GetAccountByRiotID(ctx, name, tagline, region)
	if err != nil {
		return "", fmt.Errorf("failed to resolve player: %w", err)
	}
	if account.PUUID == "" {
		return "", fmt.Errorf("failed to resolve player: empty puuid for %s#%s", name, tagline)
	}

	return account.PUUID, nil
}

// RecentMatches retrieves the most recent match IDs for a player
func (t *Tracker) RecentMatches(ctx context.Context, playerID, region string) game.MatchResult {
	matchIDs, err := t.client.GetMatchIDsByPUUID(ctx, playerID, region, t.matchCount)
	if errors.Is(err, riot.ErrNotFound) {
		return game.NotFound()
	}
	if err != nil {
		return game.Failed(err)
	}
	return game.Found(matchIDs)
}
