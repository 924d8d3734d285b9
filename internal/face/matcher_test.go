package face

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

// stubEmbedder measures distance as the absolute difference of the first
// component, which makes test geometry trivial to reason about.
type stubEmbedder struct{}

func (stubEmbedder) Name() string { return "stub" }

func (stubEmbedder) Embed(ctx context.Context, image []byte) ([]float64, error) {
	return []float64{0}, nil
}

func (stubEmbedder) Distance(a, b []float64) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, errors.New("dimension mismatch")
	}
	d := a[0] - b[0]
	if d < 0 {
		d = -d
	}
	return d, nil
}

type staticStore struct {
	entries []CatalogEntry
	err     error
}

func (s staticStore) ListWatchlist(ctx context.Context) ([]CatalogEntry, error) {
	return s.entries, s.err
}

func loadedCatalog(t *testing.T, entries ...CatalogEntry) *Catalog {
	t.Helper()
	c := NewCatalog(staticStore{entries: entries})
	require.NoError(t, c.Reload(context.Background()))
	return c
}

func TestMatcher_FindsBestWithinTolerance(t *testing.T) {
	catalog := loadedCatalog(t,
		CatalogEntry{Label: "Pedro", Embedding: []float64{0.1}},
		CatalogEntry{Label: "Maria", Embedding: []float64{0.5}},
		CatalogEntry{Label: "Juan", Embedding: []float64{0.9}},
	)
	m := NewMatcher(stubEmbedder{}, catalog, 0.6)

	result := m.Match([]float64{0.15})

	assert.True(t, result.Found)
	assert.Equal(t, "Pedro", result.Label)
	assert.InDelta(t, 0.05, result.Distance, 0.0001)
	assert.InDelta(t, 0.95, result.Similarity, 0.0001)
}

func TestMatcher_NearestSortedAscending(t *testing.T) {
	catalog := loadedCatalog(t,
		CatalogEntry{Label: "Juan", Embedding: []float64{0.9}},
		CatalogEntry{Label: "Pedro", Embedding: []float64{0.1}},
		CatalogEntry{Label: "Maria", Embedding: []float64{0.5}},
		CatalogEntry{Label: "Lucia", Embedding: []float64{0.99}},
	)
	m := NewMatcher(stubEmbedder{}, catalog, 0.6)

	result := m.Match([]float64{0.1})

	require.Len(t, result.Nearest, 3)
	assert.Equal(t, "Pedro", result.Nearest[0].Label)
	assert.Equal(t, "Maria", result.Nearest[1].Label)
	assert.Equal(t, "Juan", result.Nearest[2].Label)
	assert.LessOrEqual(t, result.Nearest[0].Distance, result.Nearest[1].Distance)
	assert.LessOrEqual(t, result.Nearest[1].Distance, result.Nearest[2].Distance)
}

func TestMatcher_NothingWithinTolerance(t *testing.T) {
	catalog := loadedCatalog(t,
		CatalogEntry{Label: "Pedro", Embedding: []float64{0.9}},
	)
	m := NewMatcher(stubEmbedder{}, catalog, 0.3)

	result := m.Match([]float64{0.1})

	assert.False(t, result.Found)
	assert.Equal(t, domain.UnknownIdentity, result.Label)
	// Distance and neighbors are still reported for diagnostics.
	assert.InDelta(t, 0.8, result.Distance, 0.0001)
	assert.Len(t, result.Nearest, 1)
}

func TestMatcher_EmptyCatalog(t *testing.T) {
	m := NewMatcher(stubEmbedder{}, loadedCatalog(t), 0.6)

	result := m.Match([]float64{0.1})

	assert.False(t, result.Found)
	assert.Equal(t, domain.UnknownIdentity, result.Label)
	assert.Empty(t, result.Nearest)
}

func TestMatcher_SkipsIncompatibleEntries(t *testing.T) {
	catalog := loadedCatalog(t,
		CatalogEntry{Label: "Broken", Embedding: []float64{}},
		CatalogEntry{Label: "Pedro", Embedding: []float64{0.1}},
	)
	m := NewMatcher(stubEmbedder{}, catalog, 0.6)

	result := m.Match([]float64{0.1})

	assert.True(t, result.Found)
	assert.Equal(t, "Pedro", result.Label)
	assert.Len(t, result.Nearest, 1)
}

func TestMatcher_SimilarityClamped(t *testing.T) {
	catalog := loadedCatalog(t,
		CatalogEntry{Label: "Far", Embedding: []float64{2.5}},
	)
	// Tolerance 1.0 still cannot match a distance of 2.4, but the
	// similarity must clamp at 0 instead of going negative.
	m := NewMatcher(stubEmbedder{}, catalog, 1.0)

	result := m.Match([]float64{0.1})

	assert.False(t, result.Found)
	assert.Equal(t, 0.0, result.Similarity)
}

func TestCatalog_ReloadSwapsSnapshot(t *testing.T) {
	store := &mutableStore{}
	store.set(CatalogEntry{Label: "Pedro", Embedding: []float64{0.1}})

	c := NewCatalog(store)
	require.NoError(t, c.Reload(context.Background()))
	assert.Equal(t, 1, c.Size())

	store.set(
		CatalogEntry{Label: "Pedro", Embedding: []float64{0.1}},
		CatalogEntry{Label: "Maria", Embedding: []float64{0.5}},
	)
	require.NoError(t, c.Reload(context.Background()))
	assert.Equal(t, 2, c.Size())
}

func TestCatalog_ReloadFailureKeepsSnapshot(t *testing.T) {
	store := &mutableStore{}
	store.set(CatalogEntry{Label: "Pedro", Embedding: []float64{0.1}})

	c := NewCatalog(store)
	require.NoError(t, c.Reload(context.Background()))

	store.fail(errors.New("db down"))
	assert.Error(t, c.Reload(context.Background()))
	assert.Equal(t, 1, c.Size())
}

type mutableStore struct {
	entries []CatalogEntry
	err     error
}

func (s *mutableStore) set(entries ...CatalogEntry) {
	s.entries = entries
	s.err = nil
}

func (s *mutableStore) fail(err error) {
	s.err = err
}

func (s *mutableStore) ListWatchlist(ctx context.Context) ([]CatalogEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}
