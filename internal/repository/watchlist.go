package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/face"
)

// WatchlistIdentity is one registered person of interest. The embedding is
// the reference vector the matcher compares frame embeddings against.
type WatchlistIdentity struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Embedding []float64 `json:"-"`
	ImageRef  string    `json:"image_ref,omitempty"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

type WatchlistRepository struct {
	pool PgxPool
}

var _ WatchlistRepositoryInterface = (*WatchlistRepository)(nil)

func NewWatchlistRepository(pool PgxPool) *WatchlistRepository {
	return &WatchlistRepository{pool: pool}
}

// ListWatchlist returns the enabled identities as catalog entries. The
// matcher catalog reloads through this on demand.
func (r *WatchlistRepository) ListWatchlist(ctx context.Context) ([]face.CatalogEntry, error) {
	query := `
		SELECT label, embedding
		FROM watchlist_identities
		WHERE enabled = TRUE
		ORDER BY label
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	var entries []face.CatalogEntry
	for rows.Next() {
		var label string
		var embedding *pgvector.Vector

		if err := rows.Scan(&label, &embedding); err != nil {
			return nil, fmt.Errorf("scan watchlist identity: %w", err)
		}

		entry := face.CatalogEntry{Label: label}
		if embedding != nil && embedding.Slice() != nil {
			entry.Embedding = make([]float64, len(embedding.Slice()))
			for i, v := range embedding.Slice() {
				entry.Embedding[i] = float64(v)
			}
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watchlist: %w", err)
	}

	return entries, nil
}

func (r *WatchlistRepository) AddIdentity(ctx context.Context, identity *WatchlistIdentity) error {
	query := `
		INSERT INTO watchlist_identities (id, label, embedding, image_ref, enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`

	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}

	var embedding *pgvector.Vector
	if len(identity.Embedding) > 0 {
		floats := make([]float32, len(identity.Embedding))
		for i, v := range identity.Embedding {
			floats[i] = float32(v)
		}
		vec := pgvector.NewVector(floats)
		embedding = &vec
	}

	err := r.pool.QueryRow(ctx, query,
		identity.ID,
		identity.Label,
		embedding,
		identity.ImageRef,
		identity.Enabled,
	).Scan(&identity.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("add watchlist identity: %w", err)
	}

	return nil
}

func (r *WatchlistRepository) RemoveIdentity(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM watchlist_identities
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("remove watchlist identity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}
