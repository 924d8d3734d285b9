package deepface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewProvider verifies provider creation
func TestNewProvider(t *testing.T) {
	config := DefaultConfig()
	p := NewProvider(config)

	if p == nil {
		t.Fatal("expected provider to be created, got nil")
	}

	if p.client == nil {
		t.Fatal("expected client to be initialized, got nil")
	}
}

// TestCosineSimilarity verifies similarity calculation
func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name       string
		embedding1 []float64
		embedding2 []float64
		want       float64
	}{
		{
			name:       "identical vectors",
			embedding1: []float64{1.0, 0.0, 0.0},
			embedding2: []float64{1.0, 0.0, 0.0},
			want:       1.0,
		},
		{
			name:       "orthogonal vectors",
			embedding1: []float64{1.0, 0.0},
			embedding2: []float64{0.0, 1.0},
			want:       0.0,
		},
		{
			name:       "opposite vectors",
			embedding1: []float64{1.0, 0.0},
			embedding2: []float64{-1.0, 0.0},
			want:       -1.0,
		},
		{
			name:       "different lengths",
			embedding1: []float64{1.0, 0.0},
			embedding2: []float64{1.0, 0.0, 0.0},
			want:       0.0,
		},
		{
			name:       "empty vectors",
			embedding1: []float64{},
			embedding2: []float64{},
			want:       0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.embedding1, tt.embedding2)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

// TestCosineDistance verifies the distance stays inside [0,1]
func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name       string
		embedding1 []float64
		embedding2 []float64
		want       float64
	}{
		{"identical", []float64{1, 0}, []float64{1, 0}, 0.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 1.0},
		{"opposite clamped to one", []float64{1, 0}, []float64{-1, 0}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineDistance(tt.embedding1, tt.embedding2)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

// TestProvider_DetectFaces tests face detection with mocked server
func TestProvider_DetectFaces(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse RepresentResponse
		serverStatus   int
		wantCount      int
		wantErr        bool
	}{
		{
			name: "single face detected",
			serverResponse: RepresentResponse{
				Results: []RepresentResult{
					{
						Embedding:  make([]float64, 512),
						FacialArea: FacialArea{X: 10, Y: 20, W: 200, H: 200},
					},
				},
			},
			serverStatus: http.StatusOK,
			wantCount:    1,
			wantErr:      false,
		},
		{
			name: "multiple faces detected",
			serverResponse: RepresentResponse{
				Results: []RepresentResult{
					{Embedding: make([]float64, 512), FacialArea: FacialArea{X: 10, Y: 10, W: 100, H: 100}},
					{Embedding: make([]float64, 512), FacialArea: FacialArea{X: 200, Y: 10, W: 100, H: 100}},
				},
			},
			serverStatus: http.StatusOK,
			wantCount:    2,
			wantErr:      false,
		},
		{
			name:           "no faces detected",
			serverResponse: RepresentResponse{Results: []RepresentResult{}},
			serverStatus:   http.StatusOK,
			wantCount:      0,
			wantErr:        false,
		},
		{
			name:           "server error",
			serverResponse: RepresentResponse{},
			serverStatus:   http.StatusInternalServerError,
			wantCount:      0,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.serverStatus)
				_ = json.NewEncoder(w).Encode(tt.serverResponse)
			}))
			defer server.Close()

			config := DefaultConfig()
			config.BaseURL = server.URL
			config.RetryCount = 0

			p := NewProvider(config)
			faces, err := p.DetectFaces(context.Background(), []byte("test-image"))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, faces, tt.wantCount)

			if tt.wantCount > 0 {
				assert.Greater(t, faces[0].Confidence, 0.0)
				assert.Greater(t, faces[0].Sharpness, 0.0)
			}
		})
	}
}

// TestProvider_Embed tests embedding extraction with mocked server
func TestProvider_Embed(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse RepresentResponse
		serverStatus   int
		wantEmbLen     int
		wantErr        bool
		wantErrType    error
	}{
		{
			name: "single face",
			serverResponse: RepresentResponse{
				Results: []RepresentResult{
					{
						Embedding:  make([]float64, 512),
						FacialArea: FacialArea{X: 10, Y: 20, W: 200, H: 200},
					},
				},
			},
			serverStatus: http.StatusOK,
			wantEmbLen:   512,
			wantErr:      false,
		},
		{
			name:           "no face in response",
			serverResponse: RepresentResponse{Results: []RepresentResult{}},
			serverStatus:   http.StatusOK,
			wantErr:        true,
			wantErrType:    ErrNoFaceInResponse,
		},
		{
			name:           "server error",
			serverResponse: RepresentResponse{},
			serverStatus:   http.StatusInternalServerError,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.serverStatus)
				_ = json.NewEncoder(w).Encode(tt.serverResponse)
			}))
			defer server.Close()

			config := DefaultConfig()
			config.BaseURL = server.URL
			config.RetryCount = 0

			p := NewProvider(config)
			embedding, err := p.Embed(context.Background(), []byte("test-image"))

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantErrType != nil {
					assert.ErrorIs(t, err, tt.wantErrType)
				}
				return
			}

			require.NoError(t, err)
			assert.Len(t, embedding, tt.wantEmbLen)
		})
	}
}

// TestProvider_Embed_PicksLargestFace verifies the dominant face wins
func TestProvider_Embed_PicksLargestFace(t *testing.T) {
	small := make([]float64, 4)
	small[0] = 1
	large := make([]float64, 4)
	large[1] = 1

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(RepresentResponse{
			Results: []RepresentResult{
				{Embedding: small, FacialArea: FacialArea{W: 50, H: 50}},
				{Embedding: large, FacialArea: FacialArea{W: 300, H: 300}},
			},
		})
	}))
	defer server.Close()

	config := DefaultConfig()
	config.BaseURL = server.URL
	config.RetryCount = 0

	p := NewProvider(config)
	embedding, err := p.Embed(context.Background(), []byte("test-image"))
	require.NoError(t, err)
	assert.Equal(t, large, embedding)
}

// TestProvider_Distance tests local distance calculation
func TestProvider_Distance(t *testing.T) {
	p := NewProvider(DefaultConfig())

	dist, err := p.Distance([]float64{1, 0, 0}, []float64{1, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, dist, 0.0001)

	dist, err = p.Distance([]float64{1, 0, 0}, []float64{0, 1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, dist, 0.0001)

	_, err = p.Distance([]float64{1, 0}, []float64{1, 0, 0})
	assert.ErrorIs(t, err, ErrEmbeddingMismatch)
}

// TestEstimateSharpness tests the area based sharpness estimate
func TestEstimateSharpness(t *testing.T) {
	tests := []struct {
		name     string
		faceArea float64
		wantMin  float64
		wantMax  float64
	}{
		{"very small face", 1000, 39.9, 40.1},
		{"minimum face area", minFaceArea, 59.9, 60.1},
		{"large face", maxFaceArea, 94.9, 95.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sharpness := estimateSharpness(tt.faceArea)
			assert.GreaterOrEqual(t, sharpness, tt.wantMin)
			assert.LessOrEqual(t, sharpness, tt.wantMax)
		})
	}
}

// TestNormalizeEmbedding tests embedding normalization
func TestNormalizeEmbedding(t *testing.T) {
	normalized := NormalizeEmbedding([]float64{3.0, 4.0})
	var norm float64
	for _, v := range normalized {
		norm += v * v
	}
	assert.InDelta(t, 1.0, norm, 0.0001)

	zero := NormalizeEmbedding([]float64{0, 0, 0})
	assert.Equal(t, []float64{0, 0, 0}, zero)
}
