package poller

import (
	"context"
	"fmt"
)

// Destination is a resolved channel that messages can be posted to
type Destination struct {
	ChannelID string
	GuildID   string
	Name      string
}

// Messenger is the chat platform capability the poller writes through
type Messenger interface {
	// ResolveDestination returns an error when the channel cannot be reached
	ResolveDestination(ctx context.Context, channelID string) (*Destination, error)
	SendMessage(ctx context.Context, dest *Destination, text string) error
}

// DeliveryError is a failed message send
type DeliveryError struct {
	ChannelID string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("send to channel %s: %v", e.ChannelID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
