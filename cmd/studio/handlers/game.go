package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/playforge/studio/cmd/studio/middleware"
	"github.com/playforge/studio/cmd/studio/models"
	"github.com/playforge/studio/cmd/studio/service"
	"github.com/playforge/studio/common/logger"
)

// GameHandler handles game container requests
type GameHandler struct {
	games *service.GameService
	log   *logger.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *service.GameService, log *logger.Logger) *GameHandler {
	return &GameHandler{games: games, log: log}
}

// CreateGame creates a new private game
// POST /api/v1/games
func (h *GameHandler) CreateGame(c echo.Context) error {
	ctx := c.Request().Context()
	ownerKey := middleware.GetOwnerKey(c)

	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	game, err := h.games.CreateGame(ctx, req.Name, ownerKey, req.Description)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, gameResponse(game))
}

// ListGames lists the caller's games
// GET /api/v1/games
func (h *GameHandler) ListGames(c echo.Context) error {
	ctx := c.Request().Context()
	ownerKey := middleware.GetOwnerKey(c)

	games, err := h.games.ListGames(ctx, ownerKey)
	if err != nil {
		return respondError(c, h.log, err)
	}

	items := make([]map[string]interface{}, 0, len(games))
	for _, game := range games {
		items = append(items, gameResponse(game))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"games": items,
		"count": len(items),
	})
}

// GetGame retrieves one of the caller's games
// GET /api/v1/games/:id
func (h *GameHandler) GetGame(c echo.Context) error {
	ctx := c.Request().Context()
	ownerKey := middleware.GetOwnerKey(c)

	game, err := h.games.GetGame(ctx, c.Param("id"), ownerKey)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, gameResponse(game))
}

// DeleteGame deletes a game and its checkpoint history
// DELETE /api/v1/games/:id
func (h *GameHandler) DeleteGame(c echo.Context) error {
	ctx := c.Request().Context()
	ownerKey := middleware.GetOwnerKey(c)

	if err := h.games.DeleteGame(ctx, c.Param("id"), ownerKey); err != nil {
		return respondError(c, h.log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// gameResponse is the owner-facing game projection
func gameResponse(game *models.Game) map[string]interface{} {
	resp := map[string]interface{}{
		"game_id":           game.GameID,
		"name":              game.Name,
		"description":       game.Description,
		"publication_state": game.PublicationState(),
		"is_private":        game.IsPrivate,
		"created_at":        game.CreatedAt,
		"updated_at":        game.UpdatedAt,
	}
	if game.CurrentCheckpointID != nil {
		resp["current_checkpoint_id"] = game.CurrentCheckpointID
	}
	if game.PublishedAt != nil {
		resp["published_at"] = game.PublishedAt
	}
	return resp
}
