package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/playforge/studio/cmd/studio/middleware"
	"github.com/playforge/studio/cmd/studio/service"
	"github.com/playforge/studio/common/logger"
)

// PublicationHandler handles publish/unpublish and the public listings
type PublicationHandler struct {
	publications *service.PublicationService
	log          *logger.Logger
}

// NewPublicationHandler creates a new publication handler
func NewPublicationHandler(publications *service.PublicationService, log *logger.Logger) *PublicationHandler {
	return &PublicationHandler{publications: publications, log: log}
}

// PublishGame publishes a game to a target
// POST /api/v1/games/:id/publish
func (h *PublicationHandler) PublishGame(c echo.Context) error {
	ctx := c.Request().Context()
	ownerKey := middleware.GetOwnerKey(c)

	var req struct {
		Target string `json:"target"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	game, err := h.publications.Publish(ctx, c.Param("id"), ownerKey, req.Target)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, gameResponse(game))
}

// UnpublishGame removes a game from a target
// POST /api/v1/games/:id/unpublish
func (h *PublicationHandler) UnpublishGame(c echo.Context) error {
	ctx := c.Request().Context()
	ownerKey := middleware.GetOwnerKey(c)

	var req struct {
		Target string `json:"target"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	game, err := h.publications.Unpublish(ctx, c.Param("id"), ownerKey, req.Target)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, gameResponse(game))
}

// ListPublished lists games published to a target. Public, no owner key.
// GET /api/v1/published/:target?limit=20&offset=0
func (h *PublicationHandler) ListPublished(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	listing, err := h.publications.ListPublished(ctx, c.Param("target"), limit, offset)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"games": listing,
		"count": len(listing),
	})
}

// GetPublished returns the public detail of one published game
// GET /api/v1/published/:target/:id
func (h *PublicationHandler) GetPublished(c echo.Context) error {
	ctx := c.Request().Context()

	detail, err := h.publications.GetPublished(ctx, c.Param("target"), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, detail)
}
