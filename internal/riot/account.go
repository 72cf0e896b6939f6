package riot

import (
	"context"
	"fmt"
	"net/url"
)

// Account represents a Riot account from the Account-V1 API
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// GetAccountByRiotID retrieves account information by Riot ID
// Uses the Account-V1 API endpoint on the cluster closest to region
func (c *Client) GetAccountByRiotID(ctx context.Context, gameName, tagLine, region string) (*Account, error) {
	route, err := AccountRoute(region)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.routeURL(route), url.PathEscape(gameName), url.PathEscape(tagLine))

	var account Account
	if err := c.get(ctx, endpoint, &account); err != nil {
		return nil, fmt.Errorf("failed to get account by Riot ID: %w", err)
	}

	return &account, nil
}
