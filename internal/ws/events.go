package ws

import (
	"time"
)

type EventType string

const (
	EventAlertCreated   EventType = "alert.created"
	EventAlertUpdated   EventType = "alert.updated"
	EventNotification   EventType = "notification.delivered"
	EventCatalogReload  EventType = "catalog.reloaded"
	EventHistorySummary EventType = "history.summary"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
