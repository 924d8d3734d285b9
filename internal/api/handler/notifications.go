package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/centinela/internal/alert"
	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/notify"
)

// NotificationsHandler exposes the queue, the dispatcher controls and
// the delivery logs.
type NotificationsHandler struct {
	queue      *notify.Queue
	dispatcher *notify.Dispatcher
	history    *alert.History
	logger     *slog.Logger
}

func NewNotificationsHandler(queue *notify.Queue, dispatcher *notify.Dispatcher, history *alert.History, logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{
		queue:      queue,
		dispatcher: dispatcher,
		history:    history,
		logger:     logger,
	}
}

// EnqueueRequest is the body of POST /v1/notifications. When alert_id
// is set the subject and priority come from the alert; otherwise the
// request must carry its own.
type EnqueueRequest struct {
	AlertID     string             `json:"alert_id,omitempty"`
	Subject     string             `json:"subject,omitempty"`
	Body        string             `json:"body,omitempty"`
	Priority    domain.Priority    `json:"priority,omitempty"`
	Channel     domain.ChannelType `json:"channel"`
	Destination string             `json:"destination,omitempty"`
}

// EnqueueResponse confirms placement in the queue.
type EnqueueResponse struct {
	NotificationID string `json:"notification_id"`
	QueueSize      int    `json:"queue_size"`
}

// Enqueue POST /v1/notifications
func (h *NotificationsHandler) Enqueue(c *fiber.Ctx) error {
	var req EnqueueRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if !req.Channel.Valid() {
		return domain.ErrInvalidChannel
	}

	var n *domain.Notification
	if req.AlertID != "" {
		alertID, err := uuid.Parse(req.AlertID)
		if err != nil {
			return domain.ErrValidationFailed.WithError(errors.New("invalid alert_id"))
		}
		a := h.history.Get(alertID)
		if a == nil {
			return domain.ErrAlertNotFound
		}
		n = domain.NewAlertNotification(a, req.Channel, req.Destination)
		if req.Body != "" {
			n.Body = req.Body
		}
	} else {
		if req.Subject == "" {
			return domain.ErrValidationFailed.WithError(errors.New("subject is required without alert_id"))
		}
		if !req.Priority.Valid() {
			return domain.ErrInvalidPriority
		}
		n = &domain.Notification{
			ID:          uuid.New(),
			Subject:     req.Subject,
			Body:        req.Body,
			Priority:    req.Priority,
			Channel:     req.Channel,
			Destination: req.Destination,
			State:       domain.NotificationPending,
			CreatedAt:   time.Now().UTC(),
		}
	}

	if err := h.queue.Enqueue(n); err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(EnqueueResponse{
		NotificationID: n.ID.String(),
		QueueSize:      h.queue.Len(),
	})
}

// Resend POST /v1/notifications/:id/resend - re-enqueue a fresh copy of
// a previously dispatched notification
func (h *NotificationsHandler) Resend(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid notification id"))
	}

	if err := h.dispatcher.Resend(id); err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"resent":     id.String(),
		"queue_size": h.queue.Len(),
	})
}

// QueueStats GET /v1/notifications/queue
func (h *NotificationsHandler) QueueStats(c *fiber.Ctx) error {
	return c.JSON(h.queue.Stats())
}

// SuccessLog GET /v1/notifications/log/success
func (h *NotificationsHandler) SuccessLog(c *fiber.Ctx) error {
	records := h.dispatcher.SuccessLog()
	return c.JSON(fiber.Map{"data": records, "total": len(records)})
}

// ErrorLog GET /v1/notifications/log/errors
func (h *NotificationsHandler) ErrorLog(c *fiber.Ctx) error {
	records := h.dispatcher.ErrorLog()
	return c.JSON(fiber.Map{"data": records, "total": len(records)})
}

// DispatcherStatus GET /v1/dispatcher
func (h *NotificationsHandler) DispatcherStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"running":    h.dispatcher.Running(),
		"queue_size": h.queue.Len(),
	})
}

// StartDispatcher POST /v1/dispatcher/start - idempotent
func (h *NotificationsHandler) StartDispatcher(c *fiber.Ctx) error {
	h.dispatcher.Start()
	h.logger.Info("dispatcher started via api")
	return c.JSON(fiber.Map{"running": true})
}

// StopDispatcher POST /v1/dispatcher/stop - idempotent, waits for the
// worker to finish its current delivery
func (h *NotificationsHandler) StopDispatcher(c *fiber.Ctx) error {
	h.dispatcher.Stop()
	h.logger.Info("dispatcher stopped via api")
	return c.JSON(fiber.Map{"running": false})
}
