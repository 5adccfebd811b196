package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/playforge/studio/cmd/studio/container"
	"github.com/playforge/studio/cmd/studio/middleware"
)

// Register wires every route. The authenticated group requires an owner key
// on each request; the published group is open to anyone.
func Register(e *echo.Echo, c *container.Container, auth middleware.Authenticator) {
	api := e.Group("/api/v1", middleware.OwnerKeyMiddleware(auth))

	RegisterGameRoutes(api, c)
	RegisterCheckpointRoutes(api, c)
	RegisterPublicationRoutes(api, c)
	RegisterGenerationRoutes(api, c)

	public := e.Group("/api/v1/published")
	RegisterPublishedRoutes(public, c)
}
