package notify

import (
	"context"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

// Channel delivers one notification over one medium. Implementations
// must tolerate being called again with a fresh notification; no
// channel-side dedup is assumed.
type Channel interface {
	Type() domain.ChannelType
	Send(ctx context.Context, n *domain.Notification) error
}
