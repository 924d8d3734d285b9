package face

import (
	"sort"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/provider"
)

// maxNeighbors is how many nearest identities a MatchResult carries.
const maxNeighbors = 3

// Matcher compares embeddings against the identity catalog. Stateless
// apart from the shared catalog snapshot, safe for concurrent frames.
type Matcher struct {
	embedder  provider.EmbeddingProvider
	catalog   *Catalog
	tolerance float64
}

// NewMatcher builds a matcher with the service-wide tolerance. Tolerance
// validation happens at config load, not here.
func NewMatcher(embedder provider.EmbeddingProvider, catalog *Catalog, tolerance float64) *Matcher {
	return &Matcher{
		embedder:  embedder,
		catalog:   catalog,
		tolerance: tolerance,
	}
}

// Match compares one embedding against every catalog entry. A match is
// found when the best distance is within tolerance. With an empty
// catalog the result is Unknown with an empty neighbor list.
func (m *Matcher) Match(embedding []float64) domain.MatchResult {
	entries := m.catalog.Snapshot()

	result := domain.MatchResult{
		Label:   domain.UnknownIdentity,
		Nearest: []domain.Neighbor{},
	}
	if len(entries) == 0 {
		return result
	}

	neighbors := make([]domain.Neighbor, 0, len(entries))
	for _, entry := range entries {
		dist, err := m.embedder.Distance(embedding, entry.Embedding)
		if err != nil {
			// Incompatible entry (wrong dimension), skip it.
			continue
		}
		neighbors = append(neighbors, domain.Neighbor{
			Label:      entry.Label,
			Distance:   dist,
			Similarity: clampSimilarity(1.0 - dist),
		})
	}
	if len(neighbors) == 0 {
		return result
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})

	best := neighbors[0]
	if best.Distance <= m.tolerance {
		result.Label = best.Label
		result.Found = true
	}
	result.Distance = best.Distance
	result.Similarity = best.Similarity

	if len(neighbors) > maxNeighbors {
		neighbors = neighbors[:maxNeighbors]
	}
	result.Nearest = neighbors

	return result
}

func clampSimilarity(sim float64) float64 {
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
