package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/playforge/studio/cmd/studio/container"
	"github.com/playforge/studio/cmd/studio/handlers"
)

// RegisterGameRoutes registers game container routes
func RegisterGameRoutes(g *echo.Group, c *container.Container) {
	h := handlers.NewGameHandler(c.GameService, c.Components.Logger)
	fork := handlers.NewForkHandler(c.ForkService, c.Components.Logger)

	g.POST("/games", h.CreateGame)           // POST /api/v1/games
	g.GET("/games", h.ListGames)             // GET /api/v1/games
	g.GET("/games/:id", h.GetGame)           // GET /api/v1/games/{game_id}
	g.DELETE("/games/:id", h.DeleteGame)     // DELETE /api/v1/games/{game_id}
	g.POST("/games/:id/fork", fork.ForkGame) // POST /api/v1/games/{game_id}/fork
}
