package face

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/centinela/internal/config"
	"github.com/saturnino-fabrica-de-software/centinela/internal/provider"
	"github.com/saturnino-fabrica-de-software/centinela/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/centinela/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/centinela/internal/provider/rekognition"
)

// ProviderType defines supported face provider backends
type ProviderType string

const (
	// ProviderTypeDeepFace is the DeepFace provider (local, for dev/test)
	ProviderTypeDeepFace ProviderType = "deepface"
	// ProviderTypeRekognition is the AWS Rekognition detector (cloud, for prod)
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock is the deterministic in-process provider
	ProviderTypeMock ProviderType = "mock"
)

// NewEmbeddingProvider creates the embedding backend based on configuration.
// Rekognition exposes no embeddings, so "rekognition" falls back to DeepFace
// for embedding extraction while keeping Rekognition as the frame detector.
//
// Environment variables:
//   - PROVIDER_TYPE: "deepface", "rekognition" or "mock" (default: "deepface")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5005")
func NewEmbeddingProvider(cfg *config.Config) (provider.EmbeddingProvider, error) {
	switch ProviderType(cfg.ProviderType) {
	case ProviderTypeMock:
		return mock.New(), nil

	case ProviderTypeDeepFace, ProviderTypeRekognition, "":
		return createDeepFaceProvider(cfg), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.ProviderType, ProviderTypeDeepFace, ProviderTypeRekognition, ProviderTypeMock)
	}
}

// NewFaceDetector creates the full-frame detector based on configuration.
//
// Environment variables:
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: via AWS SDK credential chain
func NewFaceDetector(ctx context.Context, cfg *config.Config) (provider.FaceDetector, error) {
	switch ProviderType(cfg.ProviderType) {
	case ProviderTypeRekognition:
		detector, err := rekognition.NewProvider(ctx, rekognition.Config{Region: cfg.AWSRegion})
		if err != nil {
			return nil, fmt.Errorf("create rekognition detector: %w", err)
		}
		return detector, nil

	case ProviderTypeMock:
		return mock.New(), nil

	case ProviderTypeDeepFace, "":
		return createDeepFaceProvider(cfg), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.ProviderType, ProviderTypeDeepFace, ProviderTypeRekognition, ProviderTypeMock)
	}
}

// createDeepFaceProvider creates a DeepFace provider instance
func createDeepFaceProvider(cfg *config.Config) *deepface.Provider {
	deepfaceConfig := deepface.Config{
		BaseURL: cfg.DeepFaceURL,
	}

	// Use defaults for other fields (timeout, model, detector, retry)
	if deepfaceConfig.BaseURL == "" {
		deepfaceConfig.BaseURL = deepface.DefaultConfig().BaseURL
	}

	defaults := deepface.DefaultConfig()
	deepfaceConfig.Timeout = defaults.Timeout
	deepfaceConfig.Model = defaults.Model
	deepfaceConfig.Detector = defaults.Detector
	deepfaceConfig.RetryCount = defaults.RetryCount

	return deepface.NewProvider(deepfaceConfig)
}
