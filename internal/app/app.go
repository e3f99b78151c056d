// Package app wires configuration, storage, services and HTTP routing into
// a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"confighub-core/internal/application/service"
	"confighub-core/internal/config"
	"confighub-core/internal/database"
	"confighub-core/internal/domain/environment"
	"confighub-core/internal/domain/events"
	"confighub-core/internal/domain/variable"
	"confighub-core/internal/infrastructure/cache"
	"confighub-core/internal/infrastructure/memory"
	"confighub-core/internal/infrastructure/persistence"
	"confighub-core/internal/metrics"
	"confighub-core/internal/middleware"
	"confighub-core/internal/presentation/handlers"
	"confighub-core/internal/presentation/router"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App is a fully wired server
type App struct {
	Engine *gin.Engine

	db     *database.DB
	cache  *cache.RedisExportCache
	logger *slog.Logger
}

// New builds the application. ctx bounds background work such as the rate
// limiter's eviction loop.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{logger: logger}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	envRepo, varRepo, err := a.openStorage(cfg, registry)
	if err != nil {
		return nil, err
	}

	dispatcher := events.NewDispatcher(logger)
	dispatcher.Register(func(_ context.Context, event events.DomainEvent) error {
		collector.RecordEvent(event.EventType())
		return nil
	}, service.AllEventTypes()...)

	// a nil interface, not a nil pointer, disables caching
	var exportCache service.ExportCache
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisExportCache(cache.Config{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.Cache.ExportTTL,
		}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.cache = rc.WithRecorder(collector)
		exportCache = a.cache
		service.RegisterExportCacheInvalidation(dispatcher, exportCache)
	}

	basePath := cfg.Server.BasePath
	environmentService := service.NewEnvironmentService(envRepo, dispatcher, basePath, logger)
	variableService := service.NewVariableService(varRepo, environmentService, dispatcher, basePath, logger)
	exportService := service.NewExportService(varRepo, environmentService, exportCache, logger)
	authService := service.NewAuthService(service.AuthConfig{
		Username:  cfg.Auth.Username,
		Password:  cfg.Auth.Password,
		Secret:    []byte(cfg.Auth.JWTSecret),
		Issuer:    cfg.Auth.JWTIssuer,
		ExpiresIn: cfg.Auth.JWTExpiresIn,
	})

	checks := map[string]handlers.Pinger{}
	if a.db != nil {
		checks["database"] = a.db
	}
	if a.cache != nil {
		checks["cache"] = a.cache
	}

	engine, err := router.New(router.Dependencies{
		BasePath:       basePath,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Logger:         logger,
		Auth:           middleware.NewAuthMiddleware(authService),
		LoginLimiter:   middleware.NewRateLimiter(ctx, cfg.Auth.LoginRateLimitRPS, cfg.Auth.LoginRateLimitBurst),
		Metrics:        collector,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Health:         handlers.NewHealthHandler(checks),
		AuthHandler:    handlers.NewAuthHandler(authService),
		Environments:   handlers.NewEnvironmentHandler(environmentService, exportService),
		Variables:      handlers.NewVariableHandler(variableService),
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to build router: %w", err)
	}
	a.Engine = engine

	return a, nil
}

func (a *App) openStorage(cfg *config.Config, registry prometheus.Registerer) (environment.Repository, variable.Repository, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		a.logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return store.Environments(), store.Variables(), nil

	case config.DriverPostgres:
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.db = db

		if cfg.Database.AutoMigrate {
			migrator, err := database.NewMigrator(db, a.logger)
			if err != nil {
				a.Close()
				return nil, nil, err
			}
			if err := migrator.Up(); err != nil {
				a.Close()
				return nil, nil, err
			}
		}

		registry.MustRegister(collectors.NewDBStatsCollector(db.GetConnection(), "confighub"))
		return persistence.NewEnvironmentRepository(db, a.logger), persistence.NewVariableRepository(db, a.logger), nil
	}

	return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// Close releases the database and cache connections
func (a *App) Close() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
		a.cache = nil
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	return errors.Join(errs...)
}
