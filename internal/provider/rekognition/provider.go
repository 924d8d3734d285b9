package rekognition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/saturnino-fabrica-de-software/centinela/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100

	errCodeAccessDenied = "AccessDeniedException"
)

// Config holds configuration for the AWS Rekognition detector
type Config struct {
	// Region is the AWS region where Rekognition will be used (e.g., "us-east-1")
	Region string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Region: "us-east-1",
	}
}

// Provider implements provider.FaceDetector using the stateless AWS
// Rekognition DetectFaces API. No collections are created; matching
// happens locally against the watchlist catalog.
type Provider struct {
	client *rekognition.Client
}

var _ provider.FaceDetector = (*Provider)(nil)

// NewProvider creates a Rekognition detector using the AWS default
// credential chain.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Provider{
		client: rekognition.NewFromConfig(awsCfg),
	}, nil
}

func (p *Provider) Name() string { return "rekognition" }

// validateImage checks if image data is valid for Rekognition processing
func validateImage(img []byte) error {
	if len(img) == 0 {
		return ErrInvalidImage
	}
	if len(img) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(img), minImageSize)
	}
	if len(img) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(img), maxImageSize)
	}
	return nil
}

// DetectFaces detects faces in a frame using AWS Rekognition.
// Returns an empty slice if no faces are detected (not an error).
// Rekognition reports relative bounding boxes, so the frame dimensions
// are decoded locally to convert them to pixels.
func (p *Provider) DetectFaces(ctx context.Context, img []byte) ([]provider.DetectedFace, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: img,
		},
		Attributes: []types.Attribute{types.AttributeAll},
	}

	output, err := p.client.DetectFaces(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == errCodeAccessDenied {
			return nil, fmt.Errorf("detect faces: %w", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		if detail.BoundingBox == nil {
			continue
		}

		face := provider.DetectedFace{
			Box: provider.BoundingBox{
				X:      int(float64(aws.ToFloat32(detail.BoundingBox.Left)) * float64(cfg.Width)),
				Y:      int(float64(aws.ToFloat32(detail.BoundingBox.Top)) * float64(cfg.Height)),
				Width:  int(float64(aws.ToFloat32(detail.BoundingBox.Width)) * float64(cfg.Width)),
				Height: int(float64(aws.ToFloat32(detail.BoundingBox.Height)) * float64(cfg.Height)),
			},
			Confidence: float64(aws.ToFloat32(detail.Confidence)) / 100.0,
		}
		if detail.Quality != nil {
			face.Sharpness = float64(aws.ToFloat32(detail.Quality.Sharpness))
		}

		faces = append(faces, face)
	}

	return faces, nil
}
