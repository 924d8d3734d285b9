package face

import (
	"sort"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

// Quality weights: box area dominates, sharpness refines.
const (
	areaWeight      = 0.6
	sharpnessWeight = 0.4
)

// Ranker scores the detections of one frame and keeps the best maxFaces.
// Stateless and reentrant, safe to share across frames.
type Ranker struct {
	maxFaces int
}

func NewRanker(maxFaces int) *Ranker {
	if maxFaces < 1 {
		maxFaces = 1
	}
	return &Ranker{maxFaces: maxFaces}
}

// Rank fills each detection's Quality score and returns the top maxFaces
// detections in descending quality order. Ties keep the original
// detection order. Area and sharpness are normalized against the frame's
// own maxima, so quality is comparable only within one frame.
func (r *Ranker) Rank(detections []domain.FaceDetection) []domain.FaceDetection {
	if len(detections) == 0 {
		return nil
	}

	var maxArea, maxSharpness float64
	for _, d := range detections {
		if a := d.Box.Area(); a > maxArea {
			maxArea = a
		}
		if d.Sharpness > maxSharpness {
			maxSharpness = d.Sharpness
		}
	}

	scored := make([]domain.FaceDetection, len(detections))
	copy(scored, detections)
	for i := range scored {
		scored[i].Quality = qualityScore(scored[i], maxArea, maxSharpness)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Quality > scored[j].Quality
	})

	if len(scored) > r.maxFaces {
		scored = scored[:r.maxFaces]
	}
	return scored
}

func qualityScore(d domain.FaceDetection, maxArea, maxSharpness float64) float64 {
	var normArea, normSharpness float64
	if maxArea > 0 {
		normArea = d.Box.Area() / maxArea
	}
	if maxSharpness > 0 {
		normSharpness = d.Sharpness / maxSharpness
	}
	return areaWeight*normArea + sharpnessWeight*normSharpness
}
