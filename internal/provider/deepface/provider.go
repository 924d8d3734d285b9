package deepface

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/saturnino-fabrica-de-software/centinela/internal/provider"
)

const (
	// minFaceArea is the minimum face area (in pixels²) for reliable detection
	minFaceArea = 2500 // 50x50 pixels
	// maxFaceArea is used for confidence scaling
	maxFaceArea = 250000 // 500x500 pixels
)

// Provider implements embedding extraction and face detection on top of
// the DeepFace API.
type Provider struct {
	client *Client
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

func (p *Provider) Name() string { return "deepface" }

// Embed extracts the embedding of the dominant face in an image crop.
// When the crop contains several faces the largest one wins.
func (p *Provider) Embed(ctx context.Context, image []byte) ([]float64, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Represent(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("embed face: %w", err)
	}

	if len(resp.Results) == 0 {
		return nil, ErrNoFaceInResponse
	}

	best := resp.Results[0]
	for _, result := range resp.Results[1:] {
		if result.FacialArea.W*result.FacialArea.H > best.FacialArea.W*best.FacialArea.H {
			best = result
		}
	}

	return best.Embedding, nil
}

// Distance compares two embeddings. DeepFace has no comparison endpoint
// so the cosine distance is computed locally.
func (p *Provider) Distance(a, b []float64) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, ErrEmbeddingMismatch
	}
	return CosineDistance(a, b), nil
}

// DetectFaces locates faces in a full frame
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Represent(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Results))
	for _, result := range resp.Results {
		faceArea := float64(result.FacialArea.W * result.FacialArea.H)

		faces = append(faces, provider.DetectedFace{
			Box: provider.BoundingBox{
				X:      result.FacialArea.X,
				Y:      result.FacialArea.Y,
				Width:  result.FacialArea.W,
				Height: result.FacialArea.H,
			},
			Confidence: calculateConfidence(faceArea),
			Sharpness:  estimateSharpness(faceArea),
		})
	}

	return faces, nil
}

// calculateConfidence estimates confidence based on face area.
// DeepFace doesn't return confidence, so we estimate based on face size.
func calculateConfidence(faceArea float64) float64 {
	if faceArea < minFaceArea {
		return 0.5
	}
	normalized := math.Min(1.0, (faceArea-minFaceArea)/(maxFaceArea-minFaceArea))
	return 0.7 + (normalized * 0.29)
}

// estimateSharpness approximates a 0-100 sharpness score from face size.
// DeepFace doesn't measure blur, and larger crops carry more detail for
// the embedding model.
func estimateSharpness(faceArea float64) float64 {
	if faceArea < minFaceArea {
		return 40.0
	}
	normalized := math.Min(1.0, (faceArea-minFaceArea)/(maxFaceArea-minFaceArea))
	return 60.0 + (normalized * 35.0)
}

var (
	_ provider.EmbeddingProvider = (*Provider)(nil)
	_ provider.FaceDetector      = (*Provider)(nil)
)
