package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/service"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// FrameService runs the detection pipeline for one frame.
type FrameService interface {
	SubmitFrame(ctx context.Context, frame *domain.Frame) (*service.FrameResult, error)
	SubmitImage(ctx context.Context, cameraID, frameID string, image []byte) (*service.FrameResult, error)
}

// FramesHandler handles camera frame submissions
type FramesHandler struct {
	service FrameService
	logger  *slog.Logger
}

func NewFramesHandler(svc FrameService, logger *slog.Logger) *FramesHandler {
	return &FramesHandler{
		service: svc,
		logger:  logger,
	}
}

// DetectionPayload is one face detection as reported by the edge. The
// crop is base64-encoded in JSON; embedding takes precedence when both
// are present.
type DetectionPayload struct {
	Box       domain.BoundingBox `json:"box"`
	Sharpness float64            `json:"sharpness"`
	Embedding []float64          `json:"embedding,omitempty"`
	Crop      []byte             `json:"crop,omitempty"`
}

// SubmitDetectionsRequest is the body of POST /v1/frames/detections.
type SubmitDetectionsRequest struct {
	FrameID    string             `json:"frame_id"`
	CameraID   string             `json:"camera_id"`
	Timestamp  time.Time          `json:"timestamp"`
	Detections []DetectionPayload `json:"detections"`
}

// SubmitDetections POST /v1/frames/detections - run the pipeline on
// pre-detected faces
func (h *FramesHandler) SubmitDetections(c *fiber.Ctx) error {
	var req SubmitDetectionsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if strings.TrimSpace(req.CameraID) == "" {
		return domain.ErrValidationFailed.WithError(errors.New("camera_id is required"))
	}

	frame := &domain.Frame{
		ID:        req.FrameID,
		CameraID:  req.CameraID,
		Timestamp: req.Timestamp,
	}
	for _, d := range req.Detections {
		frame.Detections = append(frame.Detections, domain.FaceDetection{
			Box:       d.Box,
			Sharpness: d.Sharpness,
			Embedding: d.Embedding,
			Crop:      d.Crop,
		})
	}

	result, err := h.service.SubmitFrame(c.Context(), frame)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// SubmitImage POST /v1/frames/image - detect faces in a raw frame and
// run the pipeline
func (h *FramesHandler) SubmitImage(c *fiber.Ctx) error {
	cameraID := strings.TrimSpace(c.FormValue("camera_id"))
	if cameraID == "" {
		return domain.ErrValidationFailed.WithError(errors.New("camera_id is required"))
	}
	frameID := strings.TrimSpace(c.FormValue("frame_id"))

	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("submit frame image: %w", err)
	}

	result, err := h.service.SubmitImage(c.Context(), cameraID, frameID, imageBytes)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// extractAndValidateImage reads the multipart "image" field and checks
// size and declared content type.
func extractAndValidateImage(c *fiber.Ctx) ([]byte, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(errors.New("image file is required"))
	}

	if fileHeader.Size > maxImageSize {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("image exceeds %d bytes", maxImageSize))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "" && !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	if len(imageBytes) == 0 {
		return nil, domain.ErrInvalidImage
	}

	return imageBytes, nil
}
