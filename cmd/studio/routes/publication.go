package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/playforge/studio/cmd/studio/container"
	"github.com/playforge/studio/cmd/studio/handlers"
)

// RegisterPublicationRoutes registers the owner-facing publish/unpublish routes
func RegisterPublicationRoutes(g *echo.Group, c *container.Container) {
	h := handlers.NewPublicationHandler(c.PublicationService, c.Components.Logger)

	g.POST("/games/:id/publish", h.PublishGame)     // POST /api/v1/games/{game_id}/publish
	g.POST("/games/:id/unpublish", h.UnpublishGame) // POST /api/v1/games/{game_id}/unpublish
}

// RegisterPublishedRoutes registers the public listing routes. No owner key;
// anyone can browse published games.
func RegisterPublishedRoutes(g *echo.Group, c *container.Container) {
	h := handlers.NewPublicationHandler(c.PublicationService, c.Components.Logger)

	g.GET("/:target", h.ListPublished)    // GET /api/v1/published/{target}
	g.GET("/:target/:id", h.GetPublished) // GET /api/v1/published/{target}/{game_id}
}
