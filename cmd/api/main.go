// @title           Job Board API
// @version         1.0
// @description     Job postings, applications and employer analytics.
// @BasePath        /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hireboard/jobboard-api/internal/api"
	"github.com/hireboard/jobboard-api/internal/core/ports"
	"github.com/hireboard/jobboard-api/internal/core/service"
	"github.com/hireboard/jobboard-api/internal/infrastructure/db/mongo"
	"github.com/hireboard/jobboard-api/internal/infrastructure/db/redis"
	"github.com/hireboard/jobboard-api/internal/infrastructure/http/handlers"
	"github.com/hireboard/jobboard-api/internal/pkg/config"
	"github.com/hireboard/jobboard-api/internal/pkg/token"
	"github.com/hireboard/jobboard-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// loggerOptions logs JSON in production and console output elsewhere.
func loggerOptions(cfg *config.Config) logger.Options {
	return logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "jobboard-api",
	}
}

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(loggerOptions(cfg))

	// --- MongoDB (required) ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	users := mongo.NewUserRepository(db)
	profiles := mongo.NewProfileRepository(db)
	jobs := mongo.NewJobRepository(db)
	apps := mongo.NewApplicationRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, profiles, jobs, apps); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure mongodb indexes")
	}

	checks := map[string]handlers.Check{"mongodb": mongo.Ping(mongoClient)}

	// --- Redis (optional: without it job creation is not idempotent) ---
	var idempotency ports.IdempotencyStore
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, idempotency keys disabled")
	} else {
		defer rdb.Close()
		idempotency = redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		checks["redis"] = redis.Ping(rdb)
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	deps := api.Dependencies{
		AuthService:        service.NewAuthService(users, profiles, tokens, logger.Component("auth")),
		ProfileService:     service.NewProfileService(users, profiles, logger.Component("profile")),
		JobService:         service.NewJobService(jobs, apps, users, idempotency, logger.Component("jobs")),
		ApplicationService: service.NewApplicationService(apps, jobs, profiles, logger.Component("applications")),
		Tokens:             tokens,
		HealthChecks:       checks,
		CORSOrigins:        cfg.CORSOrigins,
		Logger:             logger.Component("http"),
	}
	if cfg.MetricsEnabled {
		deps.MetricsRegisterer = prometheus.DefaultRegisterer
		deps.MetricsGatherer = prometheus.DefaultGatherer
	}

	e := api.NewRouter(deps)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
