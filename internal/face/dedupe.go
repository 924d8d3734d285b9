package face

import (
	"sort"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

// Dedupe collapses the matches of one frame to at most one result per
// identity, keeping the highest similarity. Ties keep the earliest
// result, which inherited the higher quality from the ranker's order.
// Unmatched results never participate and never surface. The survivors
// keep their relative input order.
func Dedupe(results []domain.MatchResult) []domain.MatchResult {
	type candidate struct {
		index  int
		result domain.MatchResult
	}

	best := make(map[string]candidate)
	for i, r := range results {
		if !r.Found {
			continue
		}
		current, seen := best[r.Label]
		if !seen || r.Similarity > current.result.Similarity {
			best[r.Label] = candidate{index: i, result: r}
		}
	}

	survivors := make([]candidate, 0, len(best))
	for _, c := range best {
		survivors = append(survivors, c)
	}
	sort.Slice(survivors, func(i, j int) bool {
		return survivors[i].index < survivors[j].index
	})

	out := make([]domain.MatchResult, len(survivors))
	for i, c := range survivors {
		out[i] = c.result
	}
	return out
}
