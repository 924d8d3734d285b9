package alert

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

// History is the process-local cache of recent alerts. It is not a
// source of truth: durability lives in the persistence gateway, and the
// cache is rebuilt on startup with a bounded Load. One coarse mutex
// guards every operation.
type History struct {
	mu     sync.RWMutex
	alerts []*domain.Alert
	ids    map[uuid.UUID]struct{}
}

func NewHistory() *History {
	return &History{
		ids: make(map[uuid.UUID]struct{}),
	}
}

// Load replaces the cache content with a bulk of recent alerts.
// Duplicated ids within the bulk are collapsed, first occurrence wins.
func (h *History) Load(alerts []*domain.Alert) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.alerts = h.alerts[:0]
	h.ids = make(map[uuid.UUID]struct{}, len(alerts))
	for _, a := range alerts {
		if _, dup := h.ids[a.ID]; dup {
			continue
		}
		h.ids[a.ID] = struct{}{}
		h.alerts = append(h.alerts, a)
	}
}

// Add appends an alert, preserving insertion order. Returns false when
// the id is already present, leaving the cache untouched.
func (h *History) Add(a *domain.Alert) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, dup := h.ids[a.ID]; dup {
		return false
	}
	h.ids[a.ID] = struct{}{}
	h.alerts = append(h.alerts, a)
	return true
}

// Update mutates one cached alert under the history lock. Returns false
// when the id is not cached.
func (h *History) Update(id uuid.UUID, mutate func(*domain.Alert)) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.ids[id]; !ok {
		return false
	}
	for _, a := range h.alerts {
		if a.ID == id {
			mutate(a)
			return true
		}
	}
	return false
}

// RemoveByID drops one alert. Returns false when the id is unknown.
func (h *History) RemoveByID(id uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.ids[id]; !ok {
		return false
	}
	delete(h.ids, id)
	for i, a := range h.alerts {
		if a.ID == id {
			h.alerts = append(h.alerts[:i], h.alerts[i+1:]...)
			break
		}
	}
	return true
}

// PruneOlderThan removes alerts whose timestamp is before now-maxAge.
// Returns how many were removed.
func (h *History) PruneOlderThan(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	h.mu.Lock()
	defer h.mu.Unlock()

	kept := h.alerts[:0]
	removed := 0
	for _, a := range h.alerts {
		if a.Timestamp.Before(cutoff) {
			delete(h.ids, a.ID)
			removed++
			continue
		}
		kept = append(kept, a)
	}
	h.alerts = kept
	return removed
}

// Get returns the cached alert for an id, or nil.
func (h *History) Get(id uuid.UUID) *domain.Alert {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.ids[id]; !ok {
		return nil
	}
	for _, a := range h.alerts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (h *History) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.alerts)
}

// All returns the alerts in insertion order.
func (h *History) All() []*domain.Alert {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.copyLocked()
}

func (h *History) ByCase(caseID string) []*domain.Alert {
	return h.filter(func(a *domain.Alert) bool { return a.CaseID == caseID })
}

func (h *History) ByPriority(p domain.Priority) []*domain.Alert {
	return h.filter(func(a *domain.Alert) bool { return a.Priority == p })
}

func (h *History) ByState(s domain.AlertState) []*domain.Alert {
	return h.filter(func(a *domain.Alert) bool { return a.State == s })
}

func (h *History) ByCamera(cameraID string) []*domain.Alert {
	return h.filter(func(a *domain.Alert) bool { return a.CameraID == cameraID })
}

// ByTimeRange returns alerts with from <= timestamp < to.
func (h *History) ByTimeRange(from, to time.Time) []*domain.Alert {
	return h.filter(func(a *domain.Alert) bool {
		return !a.Timestamp.Before(from) && a.Timestamp.Before(to)
	})
}

// Recent returns alerts from the last N hours.
func (h *History) Recent(hours int) []*domain.Alert {
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	return h.filter(func(a *domain.Alert) bool { return !a.Timestamp.Before(cutoff) })
}

func (h *History) CountByPriority() map[domain.Priority]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	counts := make(map[domain.Priority]int)
	for _, a := range h.alerts {
		counts[a.Priority]++
	}
	return counts
}

func (h *History) CountByState() map[domain.AlertState]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	counts := make(map[domain.AlertState]int)
	for _, a := range h.alerts {
		counts[a.State]++
	}
	return counts
}

// Summary aggregates the cache in one pass.
type Summary struct {
	Total      int                       `json:"total"`
	ByPriority map[domain.Priority]int   `json:"by_priority"`
	ByState    map[domain.AlertState]int `json:"by_state"`
	Pending    int                       `json:"pending"`
	HighOpen   int                       `json:"high_open"`
}

func (h *History) Summarize() Summary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := Summary{
		Total:      len(h.alerts),
		ByPriority: make(map[domain.Priority]int),
		ByState:    make(map[domain.AlertState]int),
	}
	for _, a := range h.alerts {
		s.ByPriority[a.Priority]++
		s.ByState[a.State]++
		if a.State == domain.StatePending {
			s.Pending++
			if a.IsHighPriority() {
				s.HighOpen++
			}
		}
	}
	return s
}

// ByPriorityDesc returns a sorted view, most urgent first. The
// underlying insertion order is never mutated.
func (h *History) ByPriorityDesc() []*domain.Alert {
	out := h.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}

// ByTimestampDesc returns a sorted view, newest first.
func (h *History) ByTimestampDesc() []*domain.Alert {
	out := h.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func (h *History) filter(keep func(*domain.Alert) bool) []*domain.Alert {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*domain.Alert, 0)
	for _, a := range h.alerts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (h *History) copyLocked() []*domain.Alert {
	out := make([]*domain.Alert, len(h.alerts))
	copy(out, h.alerts)
	return out
}
