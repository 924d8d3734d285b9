package domain

// UnknownIdentity is the label reported when nothing in the catalog is
// within tolerance, or the catalog is empty.
const UnknownIdentity = "Unknown"

// Neighbor is one catalog identity with its distance to a probe embedding.
type Neighbor struct {
	Label      string  `json:"label"`
	Distance   float64 `json:"distance"`
	Similarity float64 `json:"similarity"`
}

// MatchResult is the outcome of comparing one detection against the
// identity catalog. Ephemeral, one per retained detection.
type MatchResult struct {
	Label      string     `json:"label"`
	Found      bool       `json:"found"`
	Distance   float64    `json:"distance"`
	Similarity float64    `json:"similarity"` // clamped to [0,1]
	Nearest    []Neighbor `json:"nearest"`    // up to 3, ascending distance
}
