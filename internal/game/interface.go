package game

import (
	"context"
	"strings"
)

// MatchLookup resolves players and fetches their recent matches from a game API
type MatchLookup interface {
	// ResolveIdentity returns the stable player id (PUUID for Riot games)
	// for an in-game name and tagline in a region
	ResolveIdentity(ctx context.Context, name, tagline, region string) (string, error)

	// RecentMatches returns the latest matches of a player.
	// Failures are reported through the result, never as a separate error.
	RecentMatches(ctx context.Context, playerID, region string) MatchResult
}

// ResultKind tells which variant a MatchResult holds
type ResultKind int

const (
	// ResultFound carries at least one match id
	ResultFound ResultKind = iota
	// ResultNotFound means the lookup succeeded but returned nothing
	ResultNotFound
	// ResultFailed means the lookup itself failed
	ResultFailed
)

func (k ResultKind) String() string {
	switch k {
	case ResultFound:
		return "found"
	case ResultNotFound:
		return "not_found"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MatchResult is the outcome of a recent-matches lookup
type MatchResult struct {
	Kind    ResultKind
	Matches []string
	Err     error
}

// Found builds a result from match ids; an empty list is NotFound
func Found(matches []string) MatchResult {
	if len(matches) == 0 {
		return NotFound()
	}
	return MatchResult{Kind: ResultFound, Matches: matches}
}

// NotFound builds an empty result
func NotFound() MatchResult {
	return MatchResult{Kind: ResultNotFound}
}

// Failed builds a failed result
func Failed(err error) MatchResult {
	return MatchResult{Kind: ResultFailed, Err: err}
}

// Summary joins the match ids for display
func (r MatchResult) Summary() string {
	return strings.Join(r.Matches, ", ")
}
