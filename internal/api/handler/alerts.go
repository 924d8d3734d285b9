package handler

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/centinela/internal/alert"
	"github.com/saturnino-fabrica-de-software/centinela/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/ws"
)

// AlertsHandler exposes the alert history and the review operations.
type AlertsHandler struct {
	classifier *alert.Classifier
	history    *alert.History
	hub        *ws.Hub
	logger     *slog.Logger
}

func NewAlertsHandler(classifier *alert.Classifier, history *alert.History, hub *ws.Hub, logger *slog.Logger) *AlertsHandler {
	return &AlertsHandler{
		classifier: classifier,
		history:    history,
		hub:        hub,
		logger:     logger,
	}
}

// ListResponse wraps a history query result.
type ListResponse struct {
	Data  []*domain.Alert `json:"data"`
	Total int             `json:"total"`
}

// List GET /v1/alerts - query the alert history cache
//
// Supported filters: case_id, camera_id, priority, state, from, to
// (RFC3339), recent_hours. sort=priority orders ALTA first; the default
// is newest first.
func (h *AlertsHandler) List(c *fiber.Ctx) error {
	var alerts []*domain.Alert
	if c.Query("sort") == "priority" {
		alerts = h.history.ByPriorityDesc()
	} else {
		alerts = h.history.ByTimestampDesc()
	}

	if caseID := c.Query("case_id"); caseID != "" {
		alerts = filterAlerts(alerts, func(a *domain.Alert) bool { return a.CaseID == caseID })
	}
	if cameraID := c.Query("camera_id"); cameraID != "" {
		alerts = filterAlerts(alerts, func(a *domain.Alert) bool { return a.CameraID == cameraID })
	}
	if p := c.Query("priority"); p != "" {
		priority := domain.Priority(strings.ToUpper(p))
		if !priority.Valid() {
			return domain.ErrInvalidPriority
		}
		alerts = filterAlerts(alerts, func(a *domain.Alert) bool { return a.Priority == priority })
	}
	if s := c.Query("state"); s != "" {
		state := domain.AlertState(strings.ToUpper(s))
		if !state.Valid() {
			return domain.ErrValidationFailed.WithError(errors.New("unknown state filter"))
		}
		alerts = filterAlerts(alerts, func(a *domain.Alert) bool { return a.State == state })
	}

	if from, to, err := parseTimeRange(c); err != nil {
		return err
	} else if !from.IsZero() || !to.IsZero() {
		if to.IsZero() {
			to = time.Now().UTC().Add(time.Second)
		}
		alerts = filterAlerts(alerts, func(a *domain.Alert) bool {
			return !a.Timestamp.Before(from) && a.Timestamp.Before(to)
		})
	}

	if hoursStr := c.Query("recent_hours"); hoursStr != "" {
		hours, err := strconv.Atoi(hoursStr)
		if err != nil || hours < 1 {
			return domain.ErrValidationFailed.WithError(errors.New("recent_hours must be a positive integer"))
		}
		cutoff := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
		alerts = filterAlerts(alerts, func(a *domain.Alert) bool { return a.Timestamp.After(cutoff) })
	}

	return c.JSON(ListResponse{Data: alerts, Total: len(alerts)})
}

// SummaryResponse wraps the history summary with the raw counters.
type SummaryResponse struct {
	Summary    alert.Summary             `json:"summary"`
	ByPriority map[domain.Priority]int   `json:"by_priority"`
	ByState    map[domain.AlertState]int `json:"by_state"`
}

// Summary GET /v1/alerts/summary
func (h *AlertsHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(SummaryResponse{
		Summary:    h.history.Summarize(),
		ByPriority: h.history.CountByPriority(),
		ByState:    h.history.CountByState(),
	})
}

// Get GET /v1/alerts/:id
func (h *AlertsHandler) Get(c *fiber.Ctx) error {
	id, err := parseAlertID(c)
	if err != nil {
		return err
	}

	a := h.history.Get(id)
	if a == nil {
		return domain.ErrAlertNotFound
	}
	return c.JSON(a)
}

// TransitionRequest is the body of the state change endpoint.
type TransitionRequest struct {
	State domain.AlertState `json:"state"`
}

// Transition PATCH /v1/alerts/:id/state - close an alert as reviewed or
// false positive
func (h *AlertsHandler) Transition(c *fiber.Ctx) error {
	operator, err := middleware.GetOperator(c)
	if err != nil {
		return err
	}

	id, err := parseAlertID(c)
	if err != nil {
		return err
	}

	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	a, err := h.classifier.Transition(c.Context(), operator, id, req.State)
	if err != nil {
		return err
	}

	h.hub.Broadcast(ws.EventAlertUpdated, a)
	return c.JSON(a)
}

// OverrideRequest is the body of the priority override endpoint.
type OverrideRequest struct {
	Priority domain.Priority `json:"priority"`
}

// Override PATCH /v1/alerts/:id/priority - operator-chosen priority
func (h *AlertsHandler) Override(c *fiber.Ctx) error {
	operator, err := middleware.GetOperator(c)
	if err != nil {
		return err
	}

	id, err := parseAlertID(c)
	if err != nil {
		return err
	}

	var req OverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	a, err := h.classifier.OverridePriority(c.Context(), operator, id, req.Priority)
	if err != nil {
		return err
	}

	h.hub.Broadcast(ws.EventAlertUpdated, a)
	return c.JSON(a)
}

func parseAlertID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed.WithError(errors.New("invalid alert id"))
	}
	return id, nil
}

func parseTimeRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	var from, to time.Time

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return from, to, domain.ErrValidationFailed.WithError(errors.New("from must be RFC3339"))
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return from, to, domain.ErrValidationFailed.WithError(errors.New("to must be RFC3339"))
		}
		to = parsed
	}
	return from, to, nil
}

func filterAlerts(alerts []*domain.Alert, keep func(*domain.Alert) bool) []*domain.Alert {
	filtered := make([]*domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if keep(a) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
