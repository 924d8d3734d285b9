package domain

import "time"

// BoundingBox is the face area inside a frame, in pixels.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b BoundingBox) Area() float64 {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// FaceDetection is one face found in one frame. It lives only for the
// duration of that frame's processing and is never persisted.
type FaceDetection struct {
	Box       BoundingBox `json:"box"`
	Sharpness float64     `json:"sharpness"`
	Crop      []byte      `json:"crop,omitempty"`
	Embedding []float64   `json:"-"`
	// Quality is filled by the ranker: 0.6*normalized area + 0.4*normalized sharpness.
	Quality float64 `json:"quality"`
}

// Frame groups the detections submitted for one camera frame.
type Frame struct {
	ID         string          `json:"frame_id"`
	CameraID   string          `json:"camera_id"`
	Timestamp  time.Time       `json:"timestamp"`
	Detections []FaceDetection `json:"detections"`
}
