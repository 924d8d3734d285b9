package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

// EmailChannel delivers notifications over plain SMTP. The destination
// of the notification is the recipient address.
type EmailChannel struct {
	addr string
	from string
	send func(addr, from string, to []string, msg []byte) error
}

func NewEmailChannel(addr, from string) *EmailChannel {
	return &EmailChannel{
		addr: addr,
		from: from,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

func (c *EmailChannel) Type() domain.ChannelType { return domain.ChannelEmail }

func (c *EmailChannel) Send(ctx context.Context, n *domain.Notification) error {
	if c.addr == "" {
		return fmt.Errorf("smtp address not configured")
	}
	if n.Destination == "" {
		return fmt.Errorf("notification has no destination address")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", c.from)
	fmt.Fprintf(&msg, "To: %s\r\n", n.Destination)
	fmt.Fprintf(&msg, "Subject: %s\r\n", n.Subject)
	msg.WriteString("\r\n")
	msg.WriteString(n.Body)
	if n.Alert != nil {
		fmt.Fprintf(&msg, "\r\nIdentity: %s\r\nCamera: %s\r\nSimilarity: %.2f\r\nPriority: %s\r\n",
			n.Alert.Identity, n.Alert.CameraID, n.Alert.Similarity, n.Alert.Priority)
	}

	if err := c.send(c.addr, c.from, []string{n.Destination}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

var _ Channel = (*EmailChannel)(nil)
