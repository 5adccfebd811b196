package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/playforge/studio/cmd/studio/container"
	"github.com/playforge/studio/cmd/studio/handlers"
	commonmiddleware "github.com/playforge/studio/common/middleware"
)

// RegisterGenerationRoutes registers the generation route with its per-owner
// rate limit. Generation is the expensive path out to the external generator,
// so it gets its own quota on top of the global limit.
func RegisterGenerationRoutes(g *echo.Group, c *container.Container) {
	h := handlers.NewGenerationHandler(c.GenerationService, c.Components.Logger)

	cfg := c.Components.Config.RateLimit
	if c.RateLimiter != nil && cfg.Enabled {
		g.POST("/generate", h.Generate,
			commonmiddleware.GenerationRateLimitMiddleware(c.RateLimiter, cfg.GeneratePerOwner, cfg.WindowSeconds),
		)
		return
	}

	g.POST("/generate", h.Generate) // POST /api/v1/generate
}
