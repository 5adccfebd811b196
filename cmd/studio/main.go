package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/playforge/studio/cmd/studio/container"
	"github.com/playforge/studio/cmd/studio/middleware"
	"github.com/playforge/studio/cmd/studio/routes"
	"github.com/playforge/studio/common/bootstrap"
	"github.com/playforge/studio/common/config"
	commonmiddleware "github.com/playforge/studio/common/middleware"
	"github.com/playforge/studio/common/server"
)

func main() {
	ctx := context.Background()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// Bootstrap common components (config, logger, DB, redis, cache, telemetry)
	components, err := bootstrap.Setup(ctx, "studio")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap studio: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e, serviceContainer)
	setupHealthCheck(e, components)

	routes.Register(e, serviceContainer, middleware.PassthroughAuthenticator{})

	srv := server.New("studio", components.Config.Service.Port, e, components.Logger)
	if err := srv.Start(); err != nil {
		components.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo, c *container.Container) {
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestID())

	cfg := c.Components.Config.RateLimit
	if c.RateLimiter != nil && cfg.Enabled {
		e.Use(commonmiddleware.GlobalRateLimitMiddleware(c.RateLimiter, cfg.GlobalPerMinute, cfg.WindowSeconds))
	}
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "degraded",
				"service": "studio",
				"error":   err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "studio",
		})
	})
}
