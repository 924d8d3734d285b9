package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/centinela/internal/alert"
	"github.com/saturnino-fabrica-de-software/centinela/internal/audit"
	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/face"
	"github.com/saturnino-fabrica-de-software/centinela/internal/notify"
	"github.com/saturnino-fabrica-de-software/centinela/internal/provider"
	"github.com/saturnino-fabrica-de-software/centinela/internal/ws"
)

// FrameLimiter guards the per-camera submission rate.
type FrameLimiter interface {
	CheckFrameLimit(ctx context.Context, cameraID string, limit int) error
}

// Broadcaster pushes pipeline events to connected operators.
type Broadcaster interface {
	Broadcast(eventType ws.EventType, data interface{})
}

// FaceResult is the per-face outcome of one frame submission. A failed
// face carries its error and never hides the other faces' results.
type FaceResult struct {
	Index   int                 `json:"index"`
	Quality float64             `json:"quality"`
	Match   *domain.MatchResult `json:"match,omitempty"`
	AlertID string              `json:"alert_id,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// FrameResult summarizes what the pipeline did with one frame.
type FrameResult struct {
	FrameID   string          `json:"frame_id"`
	CameraID  string          `json:"camera_id"`
	Submitted int             `json:"submitted"`
	Retained  int             `json:"retained"`
	Faces     []FaceResult    `json:"faces"`
	Alerts    []*domain.Alert `json:"alerts"`
}

// DetectionService runs the frame pipeline: rate limit, rank, embed,
// match, dedupe, classify, notify.
type DetectionService struct {
	limiter    FrameLimiter
	ranker     *face.Ranker
	embedder   provider.EmbeddingProvider
	detector   provider.FaceDetector
	matcher    *face.Matcher
	catalog    *face.Catalog
	classifier *alert.Classifier
	queue      *notify.Queue
	hub        Broadcaster
	auditor    audit.Logger
	logger     *slog.Logger

	frameRate int
	channels  []domain.ChannelType
	webhook   string
	email     string
}

type DetectionServiceParams struct {
	Limiter    FrameLimiter
	Ranker     *face.Ranker
	Embedder   provider.EmbeddingProvider
	Detector   provider.FaceDetector
	Matcher    *face.Matcher
	Catalog    *face.Catalog
	Classifier *alert.Classifier
	Queue      *notify.Queue
	Hub        Broadcaster
	Auditor    audit.Logger
	Logger     *slog.Logger

	// FrameRatePerMin caps submissions per camera. Zero disables the check.
	FrameRatePerMin int
	// Channels is the default fan-out for alert notifications.
	Channels []domain.ChannelType
	// WebhookDestination and EmailDestination feed the matching channels.
	WebhookDestination string
	EmailDestination   string
}

func NewDetectionService(p DetectionServiceParams) *DetectionService {
	auditor := p.Auditor
	if auditor == nil {
		auditor = &audit.NoOpLogger{}
	}
	return &DetectionService{
		limiter:    p.Limiter,
		ranker:     p.Ranker,
		embedder:   p.Embedder,
		detector:   p.Detector,
		matcher:    p.Matcher,
		catalog:    p.Catalog,
		classifier: p.Classifier,
		queue:      p.Queue,
		hub:        p.Hub,
		auditor:    auditor,
		logger:     p.Logger,
		frameRate:  p.FrameRatePerMin,
		channels:   p.Channels,
		webhook:    p.WebhookDestination,
		email:      p.EmailDestination,
	}
}

// SubmitFrame runs the whole pipeline for one frame. Per-face failures
// are isolated: an embedding or persistence error on one face is
// reported in that face's result and the rest of the frame proceeds.
// Only frame-level problems (rate limit) fail the submission itself.
func (s *DetectionService) SubmitFrame(ctx context.Context, frame *domain.Frame) (*FrameResult, error) {
	if frame.ID == "" {
		frame.ID = uuid.NewString()
	}
	if frame.Timestamp.IsZero() {
		frame.Timestamp = time.Now().UTC()
	}

	if s.limiter != nil {
		if err := s.limiter.CheckFrameLimit(ctx, frame.CameraID, s.frameRate); err != nil {
			s.auditFrame(ctx, frame, false, err)
			return nil, err
		}
	}

	result := &FrameResult{
		FrameID:   frame.ID,
		CameraID:  frame.CameraID,
		Submitted: len(frame.Detections),
		Faces:     []FaceResult{},
		Alerts:    []*domain.Alert{},
	}

	ranked := s.ranker.Rank(frame.Detections)
	result.Retained = len(ranked)

	// Match each retained face. Unknowns stay in the per-face report but
	// never reach the alert stage.
	matches := make([]domain.MatchResult, 0, len(ranked))
	for i, d := range ranked {
		fr := FaceResult{Index: i, Quality: d.Quality}

		embedding, err := s.embeddingFor(ctx, d)
		if err != nil {
			fr.Error = err.Error()
			result.Faces = append(result.Faces, fr)
			s.logger.Warn("face skipped",
				"frame_id", frame.ID,
				"face", i,
				"error", err,
			)
			continue
		}

		match := s.matcher.Match(embedding)
		fr.Match = &match
		result.Faces = append(result.Faces, fr)

		matches = append(matches, match)
	}

	// Dedupe keeps the best sighting per identity; ties keep the earlier
	// face. Survivors come back in their original relative order.
	survivors := face.Dedupe(matches)

	for _, match := range survivors {
		a, err := s.classifier.CreateFromMatch(ctx, frame, match)

		pos := s.facePosition(result.Faces, match)
		if err != nil {
			if pos >= 0 {
				result.Faces[pos].Error = err.Error()
			}
			s.logger.Error("alert persistence failed",
				"frame_id", frame.ID,
				"identity", match.Label,
				"error", err,
			)
			continue
		}
		if pos >= 0 {
			result.Faces[pos].AlertID = a.ID.String()
		}
		result.Alerts = append(result.Alerts, a)

		s.auditAlert(ctx, a)
		s.notifyAlert(ctx, a)
	}

	s.auditFrame(ctx, frame, true, nil)
	return result, nil
}

// SubmitImage detects faces in a raw frame image and feeds the
// detections through SubmitFrame. Used by cameras that cannot run
// detection on the edge.
func (s *DetectionService) SubmitImage(ctx context.Context, cameraID, frameID string, image []byte) (*FrameResult, error) {
	if s.detector == nil {
		return nil, domain.ErrBadRequest.WithError(fmt.Errorf("no face detector configured"))
	}

	detected, err := s.detector.DetectFaces(ctx, image)
	if err != nil {
		return nil, err
	}
	if len(detected) == 0 {
		return nil, domain.ErrNoFaceDetected
	}

	frame := &domain.Frame{
		ID:        frameID,
		CameraID:  cameraID,
		Timestamp: time.Now().UTC(),
	}
	for _, d := range detected {
		frame.Detections = append(frame.Detections, domain.FaceDetection{
			Box: domain.BoundingBox{
				X:      float64(d.Box.X),
				Y:      float64(d.Box.Y),
				Width:  float64(d.Box.Width),
				Height: float64(d.Box.Height),
			},
			Sharpness: d.Sharpness,
			Crop:      image,
		})
	}

	return s.SubmitFrame(ctx, frame)
}

// ReloadCatalog swaps in a fresh watchlist snapshot. On failure the
// previous snapshot keeps serving.
func (s *DetectionService) ReloadCatalog(ctx context.Context, operator string) (int, error) {
	if err := s.catalog.Reload(ctx); err != nil {
		s.auditor.Log(ctx, audit.Event{
			EventType: audit.EventCatalogReloaded,
			Operator:  operator,
			Success:   false,
			Error:     err.Error(),
		})
		return 0, err
	}

	size := s.catalog.Size()
	s.auditor.Log(ctx, audit.Event{
		EventType: audit.EventCatalogReloaded,
		Operator:  operator,
		Success:   true,
		Metadata:  map[string]string{"identities": fmt.Sprintf("%d", size)},
	})
	if s.hub != nil {
		s.hub.Broadcast(ws.EventCatalogReload, map[string]int{"identities": size})
	}
	return size, nil
}

// embeddingFor returns the detection's embedding, computing it from the
// crop when the edge did not send one.
func (s *DetectionService) embeddingFor(ctx context.Context, d domain.FaceDetection) ([]float64, error) {
	if len(d.Embedding) > 0 {
		return d.Embedding, nil
	}
	if len(d.Crop) == 0 {
		return nil, fmt.Errorf("detection has neither embedding nor crop")
	}
	embedding, err := s.embedder.Embed(ctx, d.Crop)
	if err != nil {
		return nil, fmt.Errorf("embed crop: %w", err)
	}
	return embedding, nil
}

// facePosition finds the earliest face whose match produced this
// surviving result. Matching on label plus similarity mirrors the
// dedupe tie rule.
func (s *DetectionService) facePosition(faces []FaceResult, match domain.MatchResult) int {
	for i, fr := range faces {
		if fr.Match == nil || fr.AlertID != "" || fr.Error != "" {
			continue
		}
		if fr.Match.Label == match.Label && fr.Match.Similarity == match.Similarity {
			return i
		}
	}
	return -1
}

// notifyAlert fans the alert out to the configured channels. A full
// queue is logged and audited, never retried here.
func (s *DetectionService) notifyAlert(ctx context.Context, a *domain.Alert) {
	if s.hub != nil {
		s.hub.Broadcast(ws.EventAlertCreated, a)
	}
	if s.queue == nil {
		return
	}

	for _, ch := range s.channels {
		n := domain.NewAlertNotification(a, ch, s.destinationFor(ch))
		if err := s.queue.Enqueue(n); err != nil {
			s.logger.Warn("notification rejected",
				"alert_id", a.ID,
				"channel", ch,
				"error", err,
			)
			continue
		}
		s.auditor.Log(ctx, audit.Event{
			EventType: audit.EventNotifyEnqueued,
			AlertID:   a.ID.String(),
			CameraID:  a.CameraID,
			Success:   true,
			Metadata:  map[string]string{"channel": string(ch)},
		})
	}
}

func (s *DetectionService) destinationFor(ch domain.ChannelType) string {
	switch ch {
	case domain.ChannelWebhook:
		return s.webhook
	case domain.ChannelEmail:
		return s.email
	default:
		return ""
	}
}

func (s *DetectionService) auditAlert(ctx context.Context, a *domain.Alert) {
	s.auditor.Log(ctx, audit.Event{
		EventType: audit.EventAlertCreated,
		AlertID:   a.ID.String(),
		CameraID:  a.CameraID,
		Success:   true,
		Metadata: map[string]string{
			"identity": a.Identity,
			"priority": string(a.Priority),
		},
	})
}

func (s *DetectionService) auditFrame(ctx context.Context, frame *domain.Frame, ok bool, err error) {
	event := audit.Event{
		EventType: audit.EventFrameSubmitted,
		CameraID:  frame.CameraID,
		Success:   ok,
		Metadata:  map[string]string{"frame_id": frame.ID},
	}
	if err != nil {
		event.Error = err.Error()
	}
	s.auditor.Log(ctx, event)
}
