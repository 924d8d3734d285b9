package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

const alertColumns = `id, case_id, camera_id, identity, "timestamp", similarity, priority, state,
		location, window_start, window_end, false_positive, image_ref, created_at, updated_at`

type AlertRepository struct {
	pool PgxPool
}

var _ AlertRepositoryInterface = (*AlertRepository)(nil)

func NewAlertRepository(pool PgxPool) *AlertRepository {
	return &AlertRepository{pool: pool}
}

// CreateAlert inserts the alert and returns it with the identity and
// timestamps the database assigned. The returned alert is the one callers
// must hold on to.
func (r *AlertRepository) CreateAlert(ctx context.Context, a *domain.Alert) (*domain.Alert, error) {
	query := `
		INSERT INTO alerts (id, case_id, camera_id, identity, "timestamp", similarity, priority, state,
			location, window_start, window_end, false_positive, image_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	stored := *a
	err := r.pool.QueryRow(ctx, query,
		a.ID,
		a.CaseID,
		a.CameraID,
		a.Identity,
		a.Timestamp,
		a.Similarity,
		a.Priority,
		a.State,
		a.Location,
		a.WindowStart,
		a.WindowEnd,
		a.FalsePositive,
		a.ImageRef,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}

	return &stored, nil
}

func (r *AlertRepository) UpdateAlertState(ctx context.Context, id uuid.UUID, state domain.AlertState) error {
	query := `
		UPDATE alerts
		SET state = $2, false_positive = ($2 = 'FALSO_POSITIVO'), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, state)
	if err != nil {
		return fmt.Errorf("update alert state: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrAlertNotFound
	}

	return nil
}

func (r *AlertRepository) UpdateAlertPriority(ctx context.Context, id uuid.UUID, priority domain.Priority) error {
	query := `
		UPDATE alerts
		SET priority = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, priority)
	if err != nil {
		return fmt.Errorf("update alert priority: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrAlertNotFound
	}

	return nil
}

func (r *AlertRepository) GetAlert(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE id = $1`, alertColumns)

	var a domain.Alert
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.CaseID,
		&a.CameraID,
		&a.Identity,
		&a.Timestamp,
		&a.Similarity,
		&a.Priority,
		&a.State,
		&a.Location,
		&a.WindowStart,
		&a.WindowEnd,
		&a.FalsePositive,
		&a.ImageRef,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}

	return &a, nil
}

func (r *AlertRepository) ListRecentAlerts(ctx context.Context, limit int) ([]*domain.Alert, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM alerts
		ORDER BY created_at DESC
		LIMIT $1
	`, alertColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*domain.Alert, 0, limit)
	for rows.Next() {
		var a domain.Alert
		err := rows.Scan(
			&a.ID,
			&a.CaseID,
			&a.CameraID,
			&a.Identity,
			&a.Timestamp,
			&a.Similarity,
			&a.Priority,
			&a.State,
			&a.Location,
			&a.WindowStart,
			&a.WindowEnd,
			&a.FalsePositive,
			&a.ImageRef,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}

	return alerts, nil
}
