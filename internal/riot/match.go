package riot

import (
	"context"
	"fmt"
	"net/url"
)

const maxMatchCount = 100

// GetMatchIDsByPUUID retrieves recent match IDs for a player, newest first
func (c *Client) GetMatchIDsByPUUID(ctx context.Context, puuid, region string, count int) ([]string, error) {
	if count <= 0 {
		count = 5
	}
	if count > maxMatchCount {
		count = maxMatchCount
	}

	route, err := MatchRoute(region)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?count=%d",
		c.routeURL(route), url.PathEscape(puuid), count)

	var matchIDs []string
	if err := c.get(ctx, endpoint, &matchIDs); err != nil {
		return nil, fmt.Errorf("failed to get match IDs: %w", err)
	}

	return matchIDs, nil
}
