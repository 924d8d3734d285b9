package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/ws"
)

func TestEmailChannel_BuildsMessage(t *testing.T) {
	var gotTo []string
	var gotMsg string

	c := NewEmailChannel("localhost:25", "alerts@centinela.local")
	c.send = func(addr, from string, to []string, msg []byte) error {
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	n := notification(domain.PriorityHigh, "Alerta ALTA: Pedro")
	n.Channel = domain.ChannelEmail
	n.Destination = "ops@example.com"
	n.Alert = &domain.Alert{Identity: "Pedro", CameraID: "cam-1", Similarity: 0.95, Priority: domain.PriorityHigh}

	require.NoError(t, c.Send(context.Background(), n))
	assert.Equal(t, []string{"ops@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Alerta ALTA: Pedro")
	assert.Contains(t, gotMsg, "Identity: Pedro")
}

func TestEmailChannel_MissingDestination(t *testing.T) {
	c := NewEmailChannel("localhost:25", "alerts@centinela.local")
	n := notification(domain.PriorityLow, "no destination")
	n.Channel = domain.ChannelEmail

	assert.Error(t, c.Send(context.Background(), n))
}

func TestRealtimeChannel_NeverFails(t *testing.T) {
	hub := ws.NewHub()
	go hub.Run()

	c := NewRealtimeChannel(hub)
	n := notification(domain.PriorityHigh, "live")
	n.Channel = domain.ChannelRealtime

	assert.NoError(t, c.Send(context.Background(), n))
}
