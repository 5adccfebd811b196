package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/playforge/studio/cmd/studio/middleware"
	"github.com/playforge/studio/cmd/studio/service"
	"github.com/playforge/studio/common/logger"
)

// GenerationHandler handles artifact generation requests
type GenerationHandler struct {
	generation *service.GenerationService
	log        *logger.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(generation *service.GenerationService, log *logger.Logger) *GenerationHandler {
	return &GenerationHandler{generation: generation, log: log}
}

// Generate asks the external generator for an artifact triple, optionally
// saving the result as a new checkpoint of one of the caller's games
// POST /api/v1/generate
func (h *GenerationHandler) Generate(c echo.Context) error {
	ctx := c.Request().Context()
	ownerKey := middleware.GetOwnerKey(c)

	var req struct {
		Prompt string `json:"prompt"`
		GameID string `json:"game_id"`
		Save   bool   `json:"save"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	outcome, err := h.generation.Generate(ctx, service.GenerateParams{
		Prompt:   req.Prompt,
		OwnerKey: ownerKey,
		GameID:   req.GameID,
		Save:     req.Save,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}

	resp := map[string]interface{}{
		"artifacts":   outcome.Artifacts,
		"description": outcome.Description,
	}
	if outcome.Checkpoint != nil {
		resp["checkpoint"] = checkpointResponse(outcome.Checkpoint)
	}
	if outcome.SaveErr != nil {
		resp["save_error"] = "generated but could not save checkpoint"
	}

	return c.JSON(http.StatusOK, resp)
}
