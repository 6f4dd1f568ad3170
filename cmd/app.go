package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/frahmantamala/project-tracker/internal"
	"github.com/frahmantamala/project-tracker/internal/activity"
	activityPostgres "github.com/frahmantamala/project-tracker/internal/activity/postgres"
	"github.com/frahmantamala/project-tracker/internal/analytics"
	"github.com/frahmantamala/project-tracker/internal/auth"
	authPostgres "github.com/frahmantamala/project-tracker/internal/auth/postgres"
	"github.com/frahmantamala/project-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/project-tracker/internal/category/postgres"
	"github.com/frahmantamala/project-tracker/internal/core/events"
	"github.com/frahmantamala/project-tracker/internal/counter"
	counterPostgres "github.com/frahmantamala/project-tracker/internal/counter/postgres"
	counterRedis "github.com/frahmantamala/project-tracker/internal/counter/redis"
	"github.com/frahmantamala/project-tracker/internal/export"
	"github.com/frahmantamala/project-tracker/internal/permission"
	permissionPostgres "github.com/frahmantamala/project-tracker/internal/permission/postgres"
	"github.com/frahmantamala/project-tracker/internal/project"
	projectPostgres "github.com/frahmantamala/project-tracker/internal/project/postgres"
	"github.com/frahmantamala/project-tracker/internal/role"
	rolePostgres "github.com/frahmantamala/project-tracker/internal/role/postgres"
	"github.com/frahmantamala/project-tracker/internal/transport"
	"github.com/frahmantamala/project-tracker/internal/transport/middleware"
	"github.com/frahmantamala/project-tracker/internal/transport/rest"
	"github.com/frahmantamala/project-tracker/internal/transport/swagger"
	"github.com/frahmantamala/project-tracker/internal/user"
	userPostgres "github.com/frahmantamala/project-tracker/internal/user/postgres"
	"github.com/frahmantamala/project-tracker/internal/videometrics"
	"github.com/frahmantamala/project-tracker/pkg/telemetry"
)

// application holds everything the server and the seeder share.
type application struct {
	Router    *chi.Mux
	Bus       *events.EventBus
	Feed      *project.Feed
	Limiter   *middleware.RateLimiter
	Telemetry *telemetry.Telemetry
	Redis     *goredis.Client
	Logger    *slog.Logger

	Roles       *role.Service
	Users       *user.Service
	Categories  *category.Service
	Projects    *project.Service
	ProjectRepo project.Repository
}

func buildApplication(ctx context.Context, cfg *internal.Config, db *gorm.DB, logger *slog.Logger) (*application, error) {
	app := &application{Logger: logger}

	tel, err := telemetry.New(ctx, telemetry.Config{
		Enabled:      cfg.Observability.Tracing.Enabled,
		ServiceName:  cfg.Observability.Tracing.ServiceName,
		Environment:  cfg.Observability.Logging.Env,
		Endpoint:     cfg.Observability.Tracing.Endpoint,
		SamplingRate: cfg.Observability.Tracing.SamplingRate,
		Insecure:     cfg.Observability.Tracing.Insecure,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.Telemetry = tel

	app.Bus = events.NewEventBus(logger)
	base := transport.NewBaseHandler(logger)

	var ids counter.Counter
	if cfg.Redis.Addr != "" {
		app.Redis = counterRedis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ids = counterRedis.NewCounter(app.Redis)
		logger.Info("user id counter backed by redis", "addr", cfg.Redis.Addr)
	} else {
		ids = counterPostgres.NewCounterRepository(db)
	}

	var metrics project.MetricsClient
	if cfg.MetricsAPI.APIKey != "" || cfg.MetricsAPI.BaseURL != "" {
		metrics = videometrics.NewClient(videometrics.Config{
			BaseURL: cfg.MetricsAPI.BaseURL,
			APIKey:  cfg.MetricsAPI.APIKey,
			Timeout: cfg.MetricsAPI.Timeout,
		}, logger)
	} else {
		logger.Warn("video metrics API not configured; engagement counters stay at zero")
	}

	var store export.ObjectStore
	if cfg.Export.Bucket != "" {
		s3Store, err := export.NewS3Store(ctx, export.S3Config{Bucket: cfg.Export.Bucket, Region: cfg.Export.Region})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize export storage: %w", err)
		}
		store = s3Store
	}

	app.Roles = role.NewService(rolePostgres.NewRoleRepository(db), app.Bus, logger)
	app.Categories = category.NewService(categoryPostgres.NewCategoryRepository(db), app.Bus, logger)
	app.Users = user.NewService(userPostgres.NewUserRepository(db), ids, app.Roles, app.Bus, cfg.Security.BCryptCost, logger)
	app.ProjectRepo = projectPostgres.NewProjectRepository(db)
	app.Projects = project.NewService(app.ProjectRepo, app.Categories, metrics, app.Bus, logger)
	activities := activity.NewService(activityPostgres.NewActivityRepository(db), logger)

	app.Feed = project.NewFeed(app.Projects.List, logger)
	app.Bus.SubscribeMany(events.TypesFor(events.EntityProject, events.EntityCategory), app.Feed.HandleEvent)
	app.Bus.SubscribeMany(events.AllEntityTypes(), activities.HandleEvent)

	evaluator := permission.NewEvaluator(permissionPostgres.NewRoleStore(db), logger)
	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(db), tokens, logger)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	checks := map[string]rest.Check{"postgres": sqlDB.PingContext}
	if app.Redis != nil {
		client := app.Redis
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	var doc *swagger.Document
	if cfg.Server.OpenAPIPath != "" {
		doc, err = swagger.Load(ctx, cfg.Server.OpenAPIPath)
		if err != nil {
			return nil, err
		}
		logger.Info("openapi document loaded", "title", doc.Title(), "version", doc.Version())
	}

	app.Limiter = middleware.NewPerMinuteLimiter(cfg.Security.LoginRatePerMinute)
	app.Router = chi.NewRouter()
	rest.RegisterAllRoutes(app.Router, rest.Handlers{
		Health:     rest.NewHealthHandler(checks),
		Auth:       auth.NewHandler(base, authService, app.Users),
		Permission: permission.NewHandler(base, evaluator),
		Role:       role.NewHandler(base, app.Roles),
		User:       user.NewHandler(base, app.Users),
		Category:   category.NewHandler(base, app.Categories),
		Project:    project.NewHandler(base, app.Projects).WithFeed(app.Feed),
		Analytics:  analytics.NewHandler(base, analytics.NewService(app.Feed, logger)),
		Export:     export.NewHandler(base, export.NewService(app.Feed, store, cfg.Export.Prefix, logger)),
		Activity:   activity.NewHandler(base, activities),
	}, permission.NewRBAC(base, evaluator), rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		LoginLimiter:   app.Limiter,
		Tracer:         tel.Tracer(),
		OpenAPI:        doc,
	}, logger)

	return app, nil
}

// Close waits for in-flight event handlers and releases clients.
func (a *application) Close(ctx context.Context) {
	if err := a.Bus.Wait(ctx); err != nil {
		a.Logger.Error("event handlers did not finish", "error", err)
	}
	if err := a.Telemetry.Shutdown(ctx); err != nil {
		a.Logger.Error("tracer shutdown error", "error", err)
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("redis close error", "error", err)
		}
	}
}
