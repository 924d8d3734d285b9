package notify

import (
	"context"
	"time"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/webhook"
)

// WebhookChannel posts notifications to the configured HTTP endpoint
// with an HMAC signature.
type WebhookChannel struct {
	sender *webhook.Sender
}

func NewWebhookChannel(sender *webhook.Sender) *WebhookChannel {
	return &WebhookChannel{sender: sender}
}

func (c *WebhookChannel) Type() domain.ChannelType { return domain.ChannelWebhook }

func (c *WebhookChannel) Send(ctx context.Context, n *domain.Notification) error {
	return c.sender.Send(ctx, webhook.EventPayload{
		Type:      "alert.notification",
		Data:      n,
		Timestamp: time.Now().UTC(),
	})
}

var _ Channel = (*WebhookChannel)(nil)
