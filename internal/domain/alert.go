package domain

import (
	"time"

	"github.com/google/uuid"
)

// Priority is the triage tier assigned to an alert.
type Priority string

const (
	PriorityHigh   Priority = "ALTA"
	PriorityMedium Priority = "MEDIA"
	PriorityLow    Priority = "BAJA"
)

// Rank maps a priority to its queue ordering key. Lower is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// ClassifyPriority derives the initial priority from a similarity in [0,1].
//
//	sim >= 0.85        -> ALTA
//	0.70 <= sim < 0.85 -> MEDIA
//	sim < 0.70         -> BAJA
func ClassifyPriority(similarity float64) Priority {
	switch {
	case similarity >= 0.85:
		return PriorityHigh
	case similarity >= 0.70:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// AlertState is the review state of an alert. PENDIENTE is the only
// non-terminal state.
type AlertState string

const (
	StatePending       AlertState = "PENDIENTE"
	StateReviewed      AlertState = "REVISADA"
	StateFalsePositive AlertState = "FALSO_POSITIVO"
)

func (s AlertState) Valid() bool {
	return s == StatePending || s == StateReviewed || s == StateFalsePositive
}

// Terminal reports whether no further transition is allowed from s.
func (s AlertState) Terminal() bool {
	return s == StateReviewed || s == StateFalsePositive
}

// Alert is one persisted candidate sighting of a watch-listed identity.
// The ID is assigned by the persistence gateway; an Alert without an ID
// never reaches callers.
type Alert struct {
	ID            uuid.UUID  `json:"id"`
	CaseID        string     `json:"case_id"`
	CameraID      string     `json:"camera_id"`
	Identity      string     `json:"identity"`
	Timestamp     time.Time  `json:"timestamp"`
	Similarity    float64    `json:"similarity"`
	Priority      Priority   `json:"priority"`
	State         AlertState `json:"state"`
	Location      string     `json:"location,omitempty"`
	WindowStart   *time.Time `json:"window_start,omitempty"`
	WindowEnd     *time.Time `json:"window_end,omitempty"`
	FalsePositive bool       `json:"false_positive"`
	ImageRef      string     `json:"image_ref,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (a *Alert) IsHighPriority() bool {
	return a.Priority == PriorityHigh
}

// OverridePriority replaces the stored priority with an operator-chosen
// one. After an override the priority is intentionally decoupled from the
// similarity that produced the original classification; it is never
// re-derived.
func (a *Alert) OverridePriority(p Priority) error {
	if !p.Valid() {
		return ErrInvalidPriority
	}
	a.Priority = p
	return nil
}

// Transition moves the alert to a terminal state. A second transition on
// an already-terminal alert is an error, never a silent no-op.
func (a *Alert) Transition(next AlertState) error {
	if !next.Valid() || next == StatePending {
		return ErrInvalidState
	}
	if a.State.Terminal() {
		return ErrAlertAlreadyClosed
	}
	a.State = next
	a.FalsePositive = next == StateFalsePositive
	return nil
}
