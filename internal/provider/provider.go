package provider

import (
	"context"
)

// BoundingBox locates a face inside a frame, in pixels.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

// DetectedFace is one face found in a full frame by a FaceDetector.
type DetectedFace struct {
	Box        BoundingBox `json:"box"`
	Confidence float64     `json:"confidence"`
	Sharpness  float64     `json:"sharpness"` // 0-100
}

// EmbeddingProvider produces face embeddings and measures the distance
// between them. Distance is normalized so that 0 means identical and
// values grow with dissimilarity; similarity is derived as 1 - distance.
type EmbeddingProvider interface {
	// Embed extracts the embedding of the dominant face in an image crop.
	Embed(ctx context.Context, image []byte) ([]float64, error)

	// Distance compares two embeddings from the same provider.
	Distance(a, b []float64) (float64, error)

	// Name identifies the backend ("deepface", "mock").
	Name() string
}

// FaceDetector locates faces in a full frame and reports per-face quality.
type FaceDetector interface {
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)
	Name() string
}
