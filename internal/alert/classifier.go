package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

// PersistenceGateway is the durable store behind the cache. CreateAlert
// assigns the id; an alert object only exists after it returns.
type PersistenceGateway interface {
	CreateAlert(ctx context.Context, a *domain.Alert) (*domain.Alert, error)
	UpdateAlertState(ctx context.Context, id uuid.UUID, state domain.AlertState) error
	UpdateAlertPriority(ctx context.Context, id uuid.UUID, priority domain.Priority) error
	GetAlert(ctx context.Context, id uuid.UUID) (*domain.Alert, error)
	ListRecentAlerts(ctx context.Context, limit int) ([]*domain.Alert, error)
}

// AuthorizationGate decides whether a caller may run a review action.
type AuthorizationGate interface {
	Check(ctx context.Context, caller, action string) error
}

// Review actions checked against the gate.
const (
	ActionTransition = "alert:transition"
	ActionOverride   = "alert:override"
)

// Classifier turns deduplicated matches into persisted alerts and owns
// the operator-facing state transitions.
type Classifier struct {
	gateway PersistenceGateway
	history *History
	gate    AuthorizationGate
	logger  *slog.Logger
}

func NewClassifier(gateway PersistenceGateway, history *History, gate AuthorizationGate, logger *slog.Logger) *Classifier {
	return &Classifier{
		gateway: gateway,
		history: history,
		gate:    gate,
		logger:  logger,
	}
}

// CreateFromMatch builds an alert for one deduplicated match, persists
// it, and only then caches it. On gateway failure no alert object is
// produced and nothing is cached; the error covers this one face only.
func (c *Classifier) CreateFromMatch(ctx context.Context, frame *domain.Frame, match domain.MatchResult) (*domain.Alert, error) {
	now := time.Now().UTC()
	candidate := &domain.Alert{
		CaseID:     frame.ID,
		CameraID:   frame.CameraID,
		Identity:   match.Label,
		Timestamp:  frame.Timestamp,
		Similarity: match.Similarity,
		Priority:   domain.ClassifyPriority(match.Similarity),
		State:      domain.StatePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if candidate.Timestamp.IsZero() {
		candidate.Timestamp = now
	}

	persisted, err := c.gateway.CreateAlert(ctx, candidate)
	if err != nil {
		return nil, domain.ErrPersistence.WithError(err)
	}

	if !c.history.Add(persisted) {
		c.logger.Warn("alert already cached", "alert_id", persisted.ID)
	}

	c.logger.Info("alert created",
		"alert_id", persisted.ID,
		"camera_id", persisted.CameraID,
		"identity", persisted.Identity,
		"similarity", persisted.Similarity,
		"priority", persisted.Priority,
	)

	return persisted, nil
}

// WarmUp fills the cache with the most recent persisted alerts.
func (c *Classifier) WarmUp(ctx context.Context, limit int) error {
	alerts, err := c.gateway.ListRecentAlerts(ctx, limit)
	if err != nil {
		return fmt.Errorf("warm up history: %w", err)
	}
	c.history.Load(alerts)
	c.logger.Info("alert history loaded", "count", len(alerts))
	return nil
}

// Transition moves an alert to a terminal review state on behalf of an
// operator. The transition is validated on a copy and the durable store
// is updated first; the cache only changes after the gateway accepts, so
// a persistence failure leaves the alert retryable.
func (c *Classifier) Transition(ctx context.Context, caller string, id uuid.UUID, next domain.AlertState) (*domain.Alert, error) {
	if err := c.gate.Check(ctx, caller, ActionTransition); err != nil {
		return nil, err
	}

	a, err := c.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *a
	if err := updated.Transition(next); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := c.gateway.UpdateAlertState(ctx, id, next); err != nil {
		return nil, domain.ErrPersistence.WithError(err)
	}

	c.history.Update(id, func(cached *domain.Alert) { *cached = updated })

	c.logger.Info("alert state changed",
		"alert_id", id,
		"state", next,
		"caller", caller,
	)
	return &updated, nil
}

// OverridePriority stores an operator-chosen priority. The similarity is
// left untouched; priority and similarity are decoupled from this point.
// As in Transition, the cache only changes after the gateway accepts.
func (c *Classifier) OverridePriority(ctx context.Context, caller string, id uuid.UUID, p domain.Priority) (*domain.Alert, error) {
	if err := c.gate.Check(ctx, caller, ActionOverride); err != nil {
		return nil, err
	}

	a, err := c.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *a
	if err := updated.OverridePriority(p); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := c.gateway.UpdateAlertPriority(ctx, id, p); err != nil {
		return nil, domain.ErrPersistence.WithError(err)
	}

	c.history.Update(id, func(cached *domain.Alert) { *cached = updated })

	c.logger.Info("alert priority overridden",
		"alert_id", id,
		"priority", p,
		"caller", caller,
	)
	return &updated, nil
}

// lookup prefers the cache and falls back to the gateway, re-caching a
// durable alert the cache lost (e.g. after a prune).
func (c *Classifier) lookup(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	if a := c.history.Get(id); a != nil {
		return a, nil
	}

	a, err := c.gateway.GetAlert(ctx, id)
	if err != nil {
		return nil, domain.ErrAlertNotFound.WithError(err)
	}
	if a == nil {
		return nil, domain.ErrAlertNotFound
	}
	c.history.Add(a)
	return a, nil
}
