package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/playforge/studio/cmd/studio/middleware"
	"github.com/playforge/studio/cmd/studio/service"
	"github.com/playforge/studio/common/logger"
)

// ForkHandler handles forking community-published games
type ForkHandler struct {
	forks *service.ForkService
	log   *logger.Logger
}

// NewForkHandler creates a new fork handler
func NewForkHandler(forks *service.ForkService, log *logger.Logger) *ForkHandler {
	return &ForkHandler{forks: forks, log: log}
}

// ForkGame copies a community-published game into the caller's library
// POST /api/v1/games/:id/fork
func (h *ForkHandler) ForkGame(c echo.Context) error {
	ctx := c.Request().Context()
	ownerKey := middleware.GetOwnerKey(c)

	game, cp, err := h.forks.Fork(ctx, c.Param("id"), ownerKey)
	if err != nil {
		return respondError(c, h.log, err)
	}

	resp := gameResponse(game)
	resp["checkpoint"] = checkpointResponse(cp)

	return c.JSON(http.StatusCreated, resp)
}
