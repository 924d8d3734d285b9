package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// MatchData represents the match outcome for one face
type MatchData struct {
	Label      string  `json:"label" example:"Pedro Alonso"`
	Found      bool    `json:"found" example:"true"`
	Distance   float64 `json:"distance" example:"0.05"`
	Similarity float64 `json:"similarity" example:"0.95"`
}

// FaceResultData represents the per-face outcome of a frame submission
type FaceResultData struct {
	Index   int        `json:"index" example:"0"`
	Quality float64    `json:"quality" example:"0.97"`
	Match   *MatchData `json:"match,omitempty"`
	AlertID string     `json:"alert_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Error   string     `json:"error,omitempty"`
}

// AlertData represents an alert in responses
type AlertData struct {
	ID         string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CaseID     string  `json:"case_id" example:"frame-001"`
	CameraID   string  `json:"camera_id" example:"cam-norte-01"`
	Identity   string  `json:"identity" example:"Pedro Alonso"`
	Similarity float64 `json:"similarity" example:"0.95"`
	Priority   string  `json:"priority" example:"ALTA"`
	State      string  `json:"state" example:"PENDIENTE"`
	Timestamp  string  `json:"timestamp" example:"2024-01-01T00:00:00Z"`
}

// FrameResultResponse represents the response for a frame submission
type FrameResultResponse struct {
	FrameID   string           `json:"frame_id" example:"frame-001"`
	CameraID  string           `json:"camera_id" example:"cam-norte-01"`
	Submitted int              `json:"submitted" example:"3"`
	Retained  int              `json:"retained" example:"2"`
	Faces     []FaceResultData `json:"faces"`
	Alerts    []AlertData      `json:"alerts"`
}

// AlertListResponse wraps a history query result
type AlertListResponse struct {
	Data  []AlertData `json:"data"`
	Total int         `json:"total" example:"12"`
}

// AlertSummaryResponse wraps the history summary
type AlertSummaryResponse struct {
	Total    int `json:"total" example:"120"`
	Pending  int `json:"pending" example:"12"`
	HighOpen int `json:"high_open" example:"3"`
}

// EnqueueNotificationResponse confirms queue placement
type EnqueueNotificationResponse struct {
	NotificationID string `json:"notification_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	QueueSize      int    `json:"queue_size" example:"4"`
}

// QueueStatsResponse represents queue counters
type QueueStatsResponse struct {
	Size     int    `json:"size" example:"4"`
	MaxSize  int    `json:"max_size" example:"500"`
	Enqueued uint64 `json:"enqueued" example:"230"`
	Rejected uint64 `json:"rejected" example:"2"`
	Dequeued uint64 `json:"dequeued" example:"226"`
}

// DispatcherStatusResponse reports the worker state
type DispatcherStatusResponse struct {
	Running   bool `json:"running" example:"true"`
	QueueSize int  `json:"queue_size" example:"4"`
}

// WatchlistRegisterResponse confirms an identity registration
type WatchlistRegisterResponse struct {
	ID          string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Label       string `json:"label" example:"Pedro Alonso"`
	CatalogSize int    `json:"catalog_size" example:"42"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Centinela Alert Pipeline API",
		Version:     "v1.0.0",
		Description: "Face detection to alert triage pipeline: frame submission, identity matching, alert review and notification dispatch",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/frames/detections - Submit pre-detected faces
		endpoint.New(
			endpoint.POST,
			"/frames/detections",
			endpoint.WithTags("Frames"),
			endpoint.WithSummary("Submit frame detections"),
			endpoint.WithDescription("Runs the pipeline on faces already detected at the edge: rank, match against the watchlist, deduplicate and raise alerts"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FrameResultResponse{}, "201", "Frame processed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "camera_id is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing operator token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Frame submission rate limit exceeded for this camera"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/frames/image - Submit a raw frame image
		endpoint.New(
			endpoint.POST,
			"/frames/image",
			endpoint.WithTags("Frames"),
			endpoint.WithSummary("Submit a raw frame image"),
			endpoint.WithDescription("Detects faces in the uploaded image and runs the same pipeline as /frames/detections"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FrameResultResponse{}, "201", "Frame processed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "image file is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the frame"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing operator token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/alerts - Query alert history
		endpoint.New(
			endpoint.GET,
			"/alerts",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("Query the alert history"),
			endpoint.WithDescription("Filters the in-memory alert cache by case, camera, priority, state or time range"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("case_id", parameter.Query, parameter.WithDescription("Filter by originating frame")),
				parameter.StrParam("camera_id", parameter.Query, parameter.WithDescription("Filter by camera")),
				parameter.StrParam("priority", parameter.Query, parameter.WithDescription("ALTA, MEDIA or BAJA")),
				parameter.StrParam("state", parameter.Query, parameter.WithDescription("PENDIENTE, REVISADA or FALSO_POSITIVO")),
				parameter.StrParam("from", parameter.Query, parameter.WithDescription("Range start (RFC3339, inclusive)")),
				parameter.StrParam("to", parameter.Query, parameter.WithDescription("Range end (RFC3339, exclusive)")),
				parameter.IntParam("recent_hours", parameter.Query, parameter.WithDescription("Only alerts from the last N hours")),
				parameter.StrParam("sort", parameter.Query, parameter.WithDescription("priority for ALTA first; default newest first")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AlertListResponse{}, "200", "Alerts retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing operator token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INVALID_PRIORITY", Message: "Priority must be ALTA, MEDIA or BAJA"}, "422", "Unprocessable Entity"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/alerts/summary
		endpoint.New(
			endpoint.GET,
			"/alerts/summary",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("Alert history summary"),
			endpoint.WithDescription("Returns totals by priority and state plus pending and open high-priority counts"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AlertSummaryResponse{}, "200", "Summary retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing operator token"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/alerts/:id
		endpoint.New(
			endpoint.GET,
			"/alerts/{id}",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("Get one alert"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Alert UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AlertData{}, "200", "Alert retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "ALERT_NOT_FOUND", Message: "Alert not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing operator token"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// PATCH /v1/alerts/:id/state
		endpoint.New(
			endpoint.PATCH,
			"/alerts/{id}/state",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("Close an alert"),
			endpoint.WithDescription("Moves a pending alert to REVISADA or FALSO_POSITIVO. Terminal states reject further transitions."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Alert UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AlertData{}, "200", "Alert updated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_STATE", Message: "State must be REVISADA or FALSO_POSITIVO"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "ALERT_ALREADY_CLOSED", Message: "Alert is already in a terminal state"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "FORBIDDEN", Message: "Operator role does not allow this action"}, "403", "Forbidden"),
				response.New(ErrorResponse{Code: "ALERT_NOT_FOUND", Message: "Alert not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// PATCH /v1/alerts/:id/priority
		endpoint.New(
			endpoint.PATCH,
			"/alerts/{id}/priority",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("Override an alert's priority"),
			endpoint.WithDescription("Replaces the derived priority with an operator-chosen one. The similarity is left untouched."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Alert UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AlertData{}, "200", "Alert updated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_PRIORITY", Message: "Priority must be ALTA, MEDIA or BAJA"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "FORBIDDEN", Message: "Operator role does not allow this action"}, "403", "Forbidden"),
				response.New(ErrorResponse{Code: "ALERT_NOT_FOUND", Message: "Alert not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/notifications
		endpoint.New(
			endpoint.POST,
			"/notifications",
			endpoint.WithTags("Notifications"),
			endpoint.WithSummary("Enqueue a notification"),
			endpoint.WithDescription("Places a notification in the bounded priority queue. A full queue rejects immediately, it never blocks."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EnqueueNotificationResponse{}, "202", "Notification queued"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_CHANNEL", Message: "Unknown delivery channel"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "QUEUE_FULL", Message: "Notification queue is at capacity"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "ALERT_NOT_FOUND", Message: "Alert not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/notifications/:id/resend
		endpoint.New(
			endpoint.POST,
			"/notifications/{id}/resend",
			endpoint.WithTags("Notifications"),
			endpoint.WithSummary("Resend a dispatched notification"),
			endpoint.WithDescription("Re-enqueues a fresh copy of a notification found in the dispatcher logs. Failed deliveries are never retried automatically."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Notification UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EnqueueNotificationResponse{}, "202", "Notification re-queued"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NOTIFICATION_NOT_FOUND", Message: "Notification not found in the dispatcher logs"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "QUEUE_FULL", Message: "Notification queue is at capacity"}, "429", "Too Many Requests"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/notifications/queue
		endpoint.New(
			endpoint.GET,
			"/notifications/queue",
			endpoint.WithTags("Notifications"),
			endpoint.WithSummary("Queue counters"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(QueueStatsResponse{}, "200", "Stats retrieved"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/dispatcher
		endpoint.New(
			endpoint.GET,
			"/dispatcher",
			endpoint.WithTags("Dispatcher"),
			endpoint.WithSummary("Dispatcher status"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DispatcherStatusResponse{}, "200", "Status retrieved"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/dispatcher/start
		endpoint.New(
			endpoint.POST,
			"/dispatcher/start",
			endpoint.WithTags("Dispatcher"),
			endpoint.WithSummary("Start the dispatcher worker"),
			endpoint.WithDescription("Idempotent. A running dispatcher stays running."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DispatcherStatusResponse{Running: true}, "200", "Dispatcher running"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/dispatcher/stop
		endpoint.New(
			endpoint.POST,
			"/dispatcher/stop",
			endpoint.WithTags("Dispatcher"),
			endpoint.WithSummary("Stop the dispatcher worker"),
			endpoint.WithDescription("Idempotent. Waits for the in-flight delivery to finish."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DispatcherStatusResponse{}, "200", "Dispatcher stopped"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/watchlist
		endpoint.New(
			endpoint.POST,
			"/watchlist",
			endpoint.WithTags("Watchlist"),
			endpoint.WithSummary("Register a watchlist identity"),
			endpoint.WithDescription("Extracts the reference embedding from the uploaded image and registers the identity. The catalog reloads immediately."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(WatchlistRegisterResponse{}, "201", "Identity registered"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "label is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the frame"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "IDENTITY_EXISTS", Message: "Watchlist identity already registered"}, "409", "Conflict"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// DELETE /v1/watchlist/:id
		endpoint.New(
			endpoint.DELETE,
			"/watchlist/{id}",
			endpoint.WithTags("Watchlist"),
			endpoint.WithSummary("Remove a watchlist identity"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Identity removed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Watchlist identity not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/watchlist/reload
		endpoint.New(
			endpoint.POST,
			"/watchlist/reload",
			endpoint.WithTags("Watchlist"),
			endpoint.WithSummary("Reload the identity catalog"),
			endpoint.WithDescription("Swaps in a fresh snapshot from the durable store. On failure the previous snapshot keeps serving."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(WatchlistRegisterResponse{}, "200", "Catalog reloaded"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
