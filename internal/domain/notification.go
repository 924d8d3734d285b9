package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChannelType identifies a delivery channel.
type ChannelType string

const (
	ChannelWebhook  ChannelType = "webhook"
	ChannelRealtime ChannelType = "realtime"
	ChannelEmail    ChannelType = "email"
)

func (c ChannelType) Valid() bool {
	return c == ChannelWebhook || c == ChannelRealtime || c == ChannelEmail
}

// NotificationState tracks a notification through the dispatcher.
type NotificationState string

const (
	NotificationPending NotificationState = "PENDIENTE"
	NotificationSent    NotificationState = "ENVIADA"
	NotificationFailed  NotificationState = "ERROR"
)

// Notification wraps an alert (or ad-hoc content) for delivery over one
// channel. Delivery is at-most-once: a failed notification is never
// retried automatically, only resent by an operator as a fresh copy.
type Notification struct {
	ID          uuid.UUID         `json:"id"`
	Alert       *Alert            `json:"alert,omitempty"`
	Subject     string            `json:"subject"`
	Body        string            `json:"body"`
	Priority    Priority          `json:"priority"`
	Channel     ChannelType       `json:"channel"`
	Destination string            `json:"destination,omitempty"`
	State       NotificationState `json:"state"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewAlertNotification builds a pending notification for an alert.
func NewAlertNotification(alert *Alert, channel ChannelType, destination string) *Notification {
	return &Notification{
		ID:          uuid.New(),
		Alert:       alert,
		Subject:     "Alerta " + string(alert.Priority) + ": " + alert.Identity,
		Priority:    alert.Priority,
		Channel:     channel,
		Destination: destination,
		State:       NotificationPending,
		CreatedAt:   time.Now().UTC(),
	}
}
