package router

import (
	"log/slog"
	"net/http"
	"time"

	_ "confighub-core/docs"
	"confighub-core/internal/middleware"
	"confighub-core/internal/presentation/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the handlers and middleware the router wires together
type Dependencies struct {
	BasePath       string
	AllowedOrigins []string
	Logger         *slog.Logger

	Auth         *middleware.AuthMiddleware
	LoginLimiter *middleware.RateLimiter
	Metrics      middleware.HTTPRecorder
	// MetricsHandler serves /metrics; nil disables the endpoint
	MetricsHandler http.Handler

	Health       *handlers.HealthHandler
	AuthHandler  *handlers.AuthHandler
	Environments *handlers.EnvironmentHandler
	Variables    *handlers.VariableHandler
}

// New builds the gin engine with every route registered
func New(deps Dependencies) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{
			Error:   "not_found",
			Message: "Route not found",
		})
	})

	// Unversioned probes and tooling
	r.GET("/status", deps.Health.Status)
	r.GET("/health", deps.Health.Health)
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group(deps.BasePath)
	{
		// Health check endpoint (no auth required)
		v1.GET("/health", deps.Health.Health)

		auth := v1.Group("/auth")
		if deps.LoginLimiter != nil {
			auth.Use(deps.LoginLimiter.Middleware())
		}
		auth.POST("/login", deps.AuthHandler.Login)

		environments := v1.Group("/environments")
		environments.Use(deps.Auth.RequireAuth())
		{
			environments.POST("", deps.Environments.CreateEnvironment)
			environments.GET("", deps.Environments.ListEnvironments)
			// also serves /environments/:name.json
			environments.GET("/:name", deps.Environments.GetEnvironment)
			environments.PUT("/:name", deps.Environments.UpdateEnvironment)
			environments.PATCH("/:name", deps.Environments.UpdateEnvironment)
			environments.DELETE("/:name", deps.Environments.DeleteEnvironment)

			environments.POST("/:name/variables", deps.Variables.CreateVariable)
			environments.GET("/:name/variables", deps.Variables.ListVariables)
			environments.GET("/:name/variables/:variable", deps.Variables.GetVariable)
			environments.PUT("/:name/variables/:variable", deps.Variables.UpdateVariable)
			environments.PATCH("/:name/variables/:variable", deps.Variables.UpdateVariable)
			environments.DELETE("/:name/variables/:variable", deps.Variables.DeleteVariable)
		}
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
