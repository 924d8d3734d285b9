package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/face"
)

// PgxPool is the subset of *pgxpool.Pool used by the repositories. It is
// satisfied by pgxmock in tests.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AlertRepositoryInterface defines operations for alert data access
type AlertRepositoryInterface interface {
	CreateAlert(ctx context.Context, a *domain.Alert) (*domain.Alert, error)
	UpdateAlertState(ctx context.Context, id uuid.UUID, state domain.AlertState) error
	UpdateAlertPriority(ctx context.Context, id uuid.UUID, priority domain.Priority) error
	GetAlert(ctx context.Context, id uuid.UUID) (*domain.Alert, error)
	ListRecentAlerts(ctx context.Context, limit int) ([]*domain.Alert, error)
}

// WatchlistRepositoryInterface defines operations for watchlist data access
type WatchlistRepositoryInterface interface {
	ListWatchlist(ctx context.Context) ([]face.CatalogEntry, error)
	AddIdentity(ctx context.Context, entry *WatchlistIdentity) error
	RemoveIdentity(ctx context.Context, id uuid.UUID) error
}
