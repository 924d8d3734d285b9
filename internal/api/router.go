package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/centinela/internal/alert"
	"github.com/saturnino-fabrica-de-software/centinela/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/centinela/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/centinela/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/centinela/internal/audit"
	"github.com/saturnino-fabrica-de-software/centinela/internal/auth"
	"github.com/saturnino-fabrica-de-software/centinela/internal/config"
	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/face"
	"github.com/saturnino-fabrica-de-software/centinela/internal/notify"
	"github.com/saturnino-fabrica-de-software/centinela/internal/provider"
	"github.com/saturnino-fabrica-de-software/centinela/internal/ratelimit"
	"github.com/saturnino-fabrica-de-software/centinela/internal/repository"
	"github.com/saturnino-fabrica-de-software/centinela/internal/service"
	"github.com/saturnino-fabrica-de-software/centinela/internal/webhook"
	"github.com/saturnino-fabrica-de-software/centinela/internal/ws"
)

type Dependencies struct {
	Config        *config.Config
	AlertRepo     *repository.AlertRepository
	WatchlistRepo *repository.WatchlistRepository
	Embedder      provider.EmbeddingProvider
	Detector      provider.FaceDetector
	DB            *pgxpool.Pool
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies

	wsHub        *ws.Hub
	dispatcher   *notify.Dispatcher
	pruner       *alert.Pruner
	cancelPruner context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Centinela API",
		BodyLimit:    12 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required)
	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// API v1 group with authentication
	v1 := r.app.Group("/v1")

	// Only configure authenticated routes if dependencies were provided
	if r.deps == nil {
		return
	}
	cfg := r.deps.Config

	// WebSocket hub feeding the operator consoles
	r.wsHub = ws.NewHub()
	go r.wsHub.Run()

	// Operator authentication
	jwtService := auth.NewJWTService(cfg.JWTSecret, "centinela-api", 24*time.Hour)
	gate := auth.NewRoleGate()
	v1.Use(middleware.OperatorAuth(middleware.AuthDependencies{
		JWTService: jwtService,
		Gate:       gate,
		Logger:     r.logger,
	}))

	// Alert cache, classifier and pruner
	history := alert.NewHistory()
	classifier := alert.NewClassifier(r.deps.AlertRepo, history, gate, r.logger)
	if err := classifier.WarmUp(context.Background(), cfg.HistoryLoadLimit); err != nil {
		r.logger.Warn("history warm up failed", "error", err)
	}

	r.pruner = alert.NewPruner(history, r.logger, cfg.HistoryTTL, cfg.HistoryPruneTick)
	prunerCtx, prunerCancel := context.WithCancel(context.Background())
	r.cancelPruner = prunerCancel
	go r.pruner.Run(prunerCtx)

	// Identity catalog
	catalog := face.NewCatalog(r.deps.WatchlistRepo)
	if err := catalog.Reload(context.Background()); err != nil {
		r.logger.Warn("initial catalog load failed", "error", err)
	}
	matcher := face.NewMatcher(r.deps.Embedder, catalog, cfg.MatchTolerance)

	// Notification queue, channels and dispatcher
	queue := notify.NewQueue(cfg.QueueMaxSize)
	channels := []notify.Channel{notify.NewRealtimeChannel(r.wsHub)}
	if cfg.WebhookURL != "" {
		channels = append(channels, notify.NewWebhookChannel(webhook.NewSender(cfg.WebhookURL, cfg.WebhookSecret)))
	}
	if cfg.SMTPAddr != "" {
		channels = append(channels, notify.NewEmailChannel(cfg.SMTPAddr, cfg.SMTPFrom))
	}

	r.dispatcher = notify.NewDispatcher(queue, channels, r.logger, cfg.DequeueTimeout)
	r.dispatcher.Start()

	// Frame pipeline
	limiter := ratelimit.NewRateLimiter(r.deps.DB, time.Minute)
	detectionService := service.NewDetectionService(service.DetectionServiceParams{
		Limiter:            limiter,
		Ranker:             face.NewRanker(cfg.MaxFacesPerFrame),
		Embedder:           r.deps.Embedder,
		Detector:           r.deps.Detector,
		Matcher:            matcher,
		Catalog:            catalog,
		Classifier:         classifier,
		Queue:              queue,
		Hub:                r.wsHub,
		Auditor:            audit.NewSlogLogger(r.logger),
		Logger:             r.logger,
		FrameRatePerMin:    cfg.FrameRatePerMin,
		Channels:           notificationChannels(cfg),
		WebhookDestination: cfg.WebhookURL,
		EmailDestination:   cfg.SMTPTo,
	})

	// Handlers
	framesHandler := handler.NewFramesHandler(detectionService, r.logger)
	alertsHandler := handler.NewAlertsHandler(classifier, history, r.wsHub, r.logger)
	notificationsHandler := handler.NewNotificationsHandler(queue, r.dispatcher, history, r.logger)
	watchlistHandler := handler.NewWatchlistHandler(r.deps.WatchlistRepo, r.deps.Embedder, detectionService, r.logger)

	// Frame routes
	v1.Post("/frames/detections", framesHandler.SubmitDetections)
	v1.Post("/frames/image", framesHandler.SubmitImage)

	// Alert routes
	v1.Get("/alerts", alertsHandler.List)
	v1.Get("/alerts/summary", alertsHandler.Summary)
	v1.Get("/alerts/:id", alertsHandler.Get)
	v1.Patch("/alerts/:id/state", alertsHandler.Transition)
	v1.Patch("/alerts/:id/priority", alertsHandler.Override)

	// Notification routes
	v1.Post("/notifications", notificationsHandler.Enqueue)
	v1.Post("/notifications/:id/resend", notificationsHandler.Resend)
	v1.Get("/notifications/queue", notificationsHandler.QueueStats)
	v1.Get("/notifications/log/success", notificationsHandler.SuccessLog)
	v1.Get("/notifications/log/errors", notificationsHandler.ErrorLog)

	// Dispatcher controls
	v1.Get("/dispatcher", notificationsHandler.DispatcherStatus)
	v1.Post("/dispatcher/start", notificationsHandler.StartDispatcher)
	v1.Post("/dispatcher/stop", notificationsHandler.StopDispatcher)

	// Watchlist routes
	v1.Post("/watchlist", watchlistHandler.Register)
	v1.Post("/watchlist/reload", watchlistHandler.Reload)
	v1.Delete("/watchlist/:id", watchlistHandler.Remove)

	// WebSocket endpoint
	v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.wsHub))
}

// notificationChannels is the default fan-out for new alerts: always
// the realtime feed, plus webhook and email when configured.
func notificationChannels(cfg *config.Config) []domain.ChannelType {
	channels := []domain.ChannelType{domain.ChannelRealtime}
	if cfg.WebhookURL != "" {
		channels = append(channels, domain.ChannelWebhook)
	}
	if cfg.SMTPAddr != "" && cfg.SMTPTo != "" {
		channels = append(channels, domain.ChannelEmail)
	}
	return channels
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop the history pruner
	if r.cancelPruner != nil {
		r.cancelPruner()
	}

	// Stop the notification worker, waiting for the in-flight delivery
	if r.dispatcher != nil {
		r.dispatcher.Stop()
	}

	return r.app.Shutdown()
}
