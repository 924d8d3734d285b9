package notify

import (
	"context"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/ws"
)

// RealtimeChannel pushes notifications to the connected operator
// consoles over the websocket hub.
type RealtimeChannel struct {
	hub *ws.Hub
}

func NewRealtimeChannel(hub *ws.Hub) *RealtimeChannel {
	return &RealtimeChannel{hub: hub}
}

func (c *RealtimeChannel) Type() domain.ChannelType { return domain.ChannelRealtime }

func (c *RealtimeChannel) Send(ctx context.Context, n *domain.Notification) error {
	c.hub.Broadcast(ws.EventNotification, n)
	return nil
}

var _ Channel = (*RealtimeChannel)(nil)
