package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/playforge/studio/cmd/studio/container"
	"github.com/playforge/studio/cmd/studio/handlers"
)

// RegisterCheckpointRoutes registers checkpoint history routes
func RegisterCheckpointRoutes(g *echo.Group, c *container.Container) {
	h := handlers.NewCheckpointHandler(c.CheckpointService, c.Components.Logger)

	g.POST("/games/:id/checkpoints", h.AppendCheckpoint)    // POST /api/v1/games/{game_id}/checkpoints
	g.GET("/games/:id/checkpoints", h.ListCheckpoints)      // GET /api/v1/games/{game_id}/checkpoints
	g.GET("/games/:id/checkpoints/diff", h.DiffCheckpoints) // GET /api/v1/games/{game_id}/checkpoints/diff?from=1&to=3
	g.DELETE("/checkpoints/:id", h.DeleteCheckpoint)        // DELETE /api/v1/checkpoints/{checkpoint_id}
}
