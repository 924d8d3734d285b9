package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/centinela/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/service"
)

type fakeFrameService struct {
	lastFrame *domain.Frame
	result    *service.FrameResult
	err       error
}

func (f *fakeFrameService) SubmitFrame(_ context.Context, frame *domain.Frame) (*service.FrameResult, error) {
	f.lastFrame = frame
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeFrameService) SubmitImage(_ context.Context, cameraID, frameID string, _ []byte) (*service.FrameResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newFramesApp(svc *fakeFrameService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(testLogger()),
	})
	h := NewFramesHandler(svc, testLogger())
	app.Post("/frames/detections", h.SubmitDetections)
	app.Post("/frames/image", h.SubmitImage)
	return app
}

func TestSubmitDetections(t *testing.T) {
	svc := &fakeFrameService{result: &service.FrameResult{
		FrameID:   "frame-001",
		CameraID:  "cam-norte-01",
		Submitted: 2,
		Retained:  2,
	}}
	app := newFramesApp(svc)

	body := `{
		"frame_id": "frame-001",
		"camera_id": "cam-norte-01",
		"detections": [
			{"box": {"x": 10, "y": 10, "width": 200, "height": 200}, "sharpness": 92.5, "embedding": [0.1, 0.2]},
			{"box": {"x": 300, "y": 40, "width": 180, "height": 190}, "sharpness": 88.3, "embedding": [0.3, 0.4]}
		]
	}`

	req := httptest.NewRequest("POST", "/frames/detections", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result service.FrameResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "frame-001", result.FrameID)

	require.NotNil(t, svc.lastFrame)
	require.Len(t, svc.lastFrame.Detections, 2)
	assert.InDelta(t, 92.5, svc.lastFrame.Detections[0].Sharpness, 1e-9)
	assert.InDelta(t, 200.0, svc.lastFrame.Detections[0].Box.Width, 1e-9)
}

func TestSubmitDetections_MissingCamera(t *testing.T) {
	app := newFramesApp(&fakeFrameService{})

	req := httptest.NewRequest("POST", "/frames/detections", strings.NewReader(`{"detections": []}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestSubmitDetections_RateLimited(t *testing.T) {
	app := newFramesApp(&fakeFrameService{err: domain.ErrRateLimitExceeded})

	req := httptest.NewRequest("POST", "/frames/detections",
		strings.NewReader(`{"camera_id": "cam-norte-01", "detections": []}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)
}

func TestSubmitImage_MissingFile(t *testing.T) {
	app := newFramesApp(&fakeFrameService{})

	req := httptest.NewRequest("POST", "/frames/image", strings.NewReader("camera_id=cam-1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}
