package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/elilourens/League-Logger/internal/poller"
)

// Messenger posts poller notifications through a Discord session
type Messenger struct {
	session *discordgo.Session
}

var _ poller.Messenger = (*Messenger)(nil)

// NewMessenger creates a Messenger over an open session
func NewMessenger(session *discordgo.Session) *Messenger {
	return &Messenger{session: session}
}

// ResolveDestination looks the channel up in the state cache, then over REST
func (m *Messenger) ResolveDestination(ctx context.Context, channelID string) (*poller.Destination, error) {
	var ch *discordgo.Channel
	if m.session.State != nil {
		ch, _ = m.session.State.Channel(channelID)
	}
	if ch == nil {
		var err error
		ch, err = m.session.Channel(channelID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("channel with ID %s not found: %w", channelID, err)
		}
	}

	return &poller.Destination{
		ChannelID: ch.ID,
		GuildID:   ch.GuildID,
		Name:      ch.Name,
	}, nil
}

// SendMessage posts text to the destination channel
func (m *Messenger) SendMessage(ctx context.Context, dest *poller.Destination, text string) error {
	_, err := m.session.ChannelMessageSend(dest.ChannelID, truncate(text, maxMessageLength), discordgo.WithContext(ctx))
	return err
}
