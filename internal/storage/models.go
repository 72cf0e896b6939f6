package storage

import "time"

// Player is a League of Legends account tracked in a single guild
type Player struct {
	GuildID   string
	Username  string // in-game name, without the tagline
	PUUID     string
	Region    string
	Tagline   string
	CreatedAt time.Time
}

// RiotID returns the GameName#TagLine form of the player
func (p *Player) RiotID() string {
	return p.Username + "#" + p.Tagline
}

// LoggingChannel is the notification channel configured for a guild
type LoggingChannel struct {
	GuildID   string
	ChannelID string
	UpdatedAt time.Time
}
