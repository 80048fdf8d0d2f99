package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/chamada/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/chamada/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/chamada/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/chamada/internal/cache"
	"github.com/saturnino-fabrica-de-software/chamada/internal/metrics"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
	"github.com/saturnino-fabrica-de-software/chamada/internal/ratelimit"
	"github.com/saturnino-fabrica-de-software/chamada/internal/repository"
	"github.com/saturnino-fabrica-de-software/chamada/internal/service"
	"github.com/saturnino-fabrica-de-software/chamada/internal/webhook"
	"github.com/saturnino-fabrica-de-software/chamada/internal/ws"
)

type Dependencies struct {
	StudentRepo    *repository.StudentRepository
	AttendanceRepo *repository.AttendanceRepository
	FaceProvider   provider.FaceProvider
	DB             *pgxpool.Pool
	APIKeyHash     string
	Threshold      float64

	// Optional collaborators, nil disables the corresponding surface
	RateLimiter  *ratelimit.RateLimiter
	RateLimit    int
	GalleryCache *cache.GalleryCache
	Hub          *ws.Hub
	TokenService *ws.TokenService
	Webhooks     *webhook.Service
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Chamada API",
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
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required). Readiness pings the pool so
	// a database lost after startup is reported.
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
	if r.deps != nil {
		v1.Use(middleware.Auth(r.deps.APIKeyHash))

		attendanceService := service.NewAttendanceService(
			r.deps.StudentRepo,
			r.deps.AttendanceRepo,
			r.deps.FaceProvider,
		).WithThreshold(r.deps.Threshold).
			WithMetrics(metrics.NewRepository(r.deps.DB))

		if r.deps.RateLimiter != nil {
			attendanceService.WithRateLimit(r.deps.RateLimiter, r.deps.RateLimit)
		}
		if r.deps.GalleryCache != nil {
			attendanceService.WithGalleryCache(r.deps.GalleryCache)
		}
		if r.deps.Hub != nil {
			attendanceService.WithLiveFeed(r.deps.Hub)
		}
		if r.deps.Webhooks != nil {
			attendanceService.WithWebhooks(r.deps.Webhooks)
		}

		attendanceHandler := handler.NewAttendanceHandler(attendanceService, r.logger)

		// Student routes
		v1.Post("/students", attendanceHandler.Enroll)
		v1.Get("/students/:usn", attendanceHandler.GetStudent)
		v1.Delete("/students/:usn", attendanceHandler.Delete)

		// Attendance routes
		v1.Post("/attendance", attendanceHandler.Recognize)
		v1.Get("/attendance", attendanceHandler.History)
		v1.Get("/attendance/stats", attendanceHandler.Stats)

		// Live feed: the token endpoint is API-key authenticated, the
		// websocket itself authenticates with the minted token
		if r.deps.Hub != nil && r.deps.TokenService != nil {
			liveHandler := handler.NewLiveHandler(r.deps.TokenService)
			v1.Get("/live/token", liveHandler.Token)

			r.app.Use("/live", ws.UpgradeMiddleware())
			r.app.Get("/live", ws.Handler(r.deps.Hub, r.deps.TokenService))
		}
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
