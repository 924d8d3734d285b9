package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed_Deterministic(t *testing.T) {
	p := New()
	img := []byte("same-face-crop")

	emb1, err := p.Embed(context.Background(), img)
	require.NoError(t, err)
	emb2, err := p.Embed(context.Background(), img)
	require.NoError(t, err)

	assert.Equal(t, emb1, emb2)
	assert.Len(t, emb1, embeddingDimension)
}

func TestEmbed_RejectsEmptyImage(t *testing.T) {
	p := New()
	_, err := p.Embed(context.Background(), nil)
	assert.Error(t, err)
}

func TestDistance_SameEmbeddingIsZero(t *testing.T) {
	p := New()
	emb, err := p.Embed(context.Background(), []byte("face"))
	require.NoError(t, err)

	dist, err := p.Distance(emb, emb)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, dist, 0.0001)
}

func TestDistance_DifferentImagesNonZero(t *testing.T) {
	p := New()
	emb1, _ := p.Embed(context.Background(), []byte("face-one"))
	emb2, _ := p.Embed(context.Background(), []byte("face-two"))

	dist, err := p.Distance(emb1, emb2)
	require.NoError(t, err)
	assert.Greater(t, dist, 0.0)
	assert.LessOrEqual(t, dist, 1.0)
}

func TestDistance_RejectsMismatchedDimensions(t *testing.T) {
	p := New()
	_, err := p.Distance([]float64{1, 0}, []float64{1, 0, 0})
	assert.Error(t, err)
}

func TestDetectFaces(t *testing.T) {
	p := New()
	faces, err := p.DetectFaces(context.Background(), []byte("frame"))
	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.Greater(t, faces[0].Sharpness, 0.0)
	assert.Greater(t, faces[0].Box.Width, 0)
}
