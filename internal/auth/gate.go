package auth

import (
	"context"
	"sync"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

// RoleGate authorizes review actions by operator role. Callers are
// registered with their role when their token is validated; unknown
// callers are denied.
type RoleGate struct {
	mu    sync.RWMutex
	roles map[string]string
}

func NewRoleGate() *RoleGate {
	return &RoleGate{
		roles: make(map[string]string),
	}
}

// Grant records the caller's role, typically at token validation time.
func (g *RoleGate) Grant(caller, role string) {
	g.mu.Lock()
	g.roles[caller] = role
	g.mu.Unlock()
}

// Check allows review actions for reviewers only.
func (g *RoleGate) Check(ctx context.Context, caller, action string) error {
	g.mu.RLock()
	role, known := g.roles[caller]
	g.mu.RUnlock()

	if !known {
		return domain.ErrUnauthorized
	}
	if role != RoleReviewer {
		return domain.ErrForbidden
	}
	return nil
}
