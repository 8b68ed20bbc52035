package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hireboard/jobboard-api/docs"
	"github.com/hireboard/jobboard-api/internal/api/handler"
	"github.com/hireboard/jobboard-api/internal/api/middleware"
	"github.com/hireboard/jobboard-api/internal/core/domain"
	"github.com/hireboard/jobboard-api/internal/core/ports"
	"github.com/hireboard/jobboard-api/internal/infrastructure/http/handlers"
)

const (
	metricsSubsystem = "jobboard"
	bodyLimit        = "1M"
)

// Dependencies are constructed in cmd/api and handed to NewRouter.
type Dependencies struct {
	AuthService        ports.AuthService
	ProfileService     ports.ProfileService
	JobService         ports.JobService
	ApplicationService ports.ApplicationService
	Tokens             middleware.TokenParser

	// HealthChecks back GET /health/ready, keyed by dependency name.
	HealthChecks map[string]handlers.Check
	CORSOrigins  []string
	Logger       zerolog.Logger

	// HTTP metrics and GET /metrics are enabled when MetricsGatherer is set.
	MetricsRegisterer prometheus.Registerer
	MetricsGatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: corsOrigins(deps.CORSOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			handler.HeaderIdempotencyKey,
		},
	}))

	if deps.MetricsGatherer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  metricsSubsystem,
			Registerer: deps.MetricsRegisterer,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: deps.MetricsGatherer,
		}))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	profileHandler := handler.NewProfileHandler(deps.ProfileService)
	jobHandler := handler.NewJobHandler(deps.JobService)
	employerHandler := handler.NewEmployerHandler(deps.JobService, deps.ApplicationService)
	applicationHandler := handler.NewApplicationHandler(deps.ApplicationService)

	requireAuth := middleware.Auth(deps.Tokens)
	optionalAuth := middleware.OptionalAuth(deps.Tokens)
	employerOnly := middleware.RBAC(domain.RoleEmployer)
	jobseekerOnly := middleware.RBAC(domain.RoleJobseeker)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	// --- Profile ---
	api.GET("/profile", profileHandler.Get, requireAuth)
	api.PUT("/profile", profileHandler.Update, requireAuth)

	// --- Jobs ---
	jobs := api.Group("/jobs")
	jobs.POST("", jobHandler.Create, requireAuth, employerOnly)
	jobs.GET("", jobHandler.List, optionalAuth)
	jobs.GET("/employer/:employerId", jobHandler.ListByEmployer)
	jobs.GET("/:id", jobHandler.Get, optionalAuth)
	jobs.POST("/:id/view", jobHandler.RecordView, requireAuth)
	jobs.PATCH("/:id", jobHandler.Update, requireAuth)
	jobs.DELETE("/:id", jobHandler.Delete, requireAuth)
	jobs.POST("/:id/apply", applicationHandler.Apply, requireAuth, jobseekerOnly)

	api.GET("/applications", applicationHandler.ListMine, requireAuth)

	// --- Employer dashboard ---
	employer := api.Group("/employer", requireAuth, employerOnly)
	employer.GET("/jobs", employerHandler.ListJobs)
	employer.POST("/jobs", jobHandler.Create)
	employer.PUT("/jobs/:id", jobHandler.Update)
	employer.DELETE("/jobs/:id", jobHandler.Delete)
	employer.GET("/jobs/:id/stats", employerHandler.Stats)
	employer.PATCH("/jobs/:id/status", employerHandler.SetStatus)
	employer.GET("/jobs/:id/applications", employerHandler.Applications)
	employer.GET("/jobs/:id/analytics", employerHandler.Analytics)
	employer.GET("/filtered-jobs", employerHandler.ListJobs)
	employer.GET("/recent-applications", employerHandler.RecentApplications)
	employer.PATCH("/applications/:id", employerHandler.ReviewApplication)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
