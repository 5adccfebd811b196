package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/playforge/studio/cmd/studio/middleware"
	"github.com/playforge/studio/cmd/studio/models"
	"github.com/playforge/studio/cmd/studio/service"
	"github.com/playforge/studio/common/logger"
)

// CheckpointHandler handles checkpoint history requests
type CheckpointHandler struct {
	checkpoints *service.CheckpointService
	log         *logger.Logger
}

// NewCheckpointHandler creates a new checkpoint handler
func NewCheckpointHandler(checkpoints *service.CheckpointService, log *logger.Logger) *CheckpointHandler {
	return &CheckpointHandler{checkpoints: checkpoints, log: log}
}

// AppendCheckpoint appends a checkpoint to a game's history
// POST /api/v1/games/:id/checkpoints
func (h *CheckpointHandler) AppendCheckpoint(c echo.Context) error {
	ctx := c.Request().Context()
	ownerKey := middleware.GetOwnerKey(c)

	var req struct {
		Prompt      string                `json:"prompt"`
		Artifacts   models.ArtifactTriple `json:"artifacts"`
		Description string                `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	cp, err := h.checkpoints.Append(ctx, c.Param("id"), ownerKey, req.Prompt, req.Artifacts, req.Description)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, checkpointResponse(cp))
}

// ListCheckpoints lists a game's checkpoint history, newest version first
// GET /api/v1/games/:id/checkpoints
func (h *CheckpointHandler) ListCheckpoints(c echo.Context) error {
	ctx := c.Request().Context()
	ownerKey := middleware.GetOwnerKey(c)

	checkpoints, err := h.checkpoints.List(ctx, c.Param("id"), ownerKey)
	if err != nil {
		return respondError(c, h.log, err)
	}

	items := make([]map[string]interface{}, 0, len(checkpoints))
	for _, cp := range checkpoints {
		items = append(items, checkpointResponse(cp))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"checkpoints": items,
		"count":       len(items),
	})
}

// DeleteCheckpoint removes one checkpoint from a game's history
// DELETE /api/v1/checkpoints/:id
func (h *CheckpointHandler) DeleteCheckpoint(c echo.Context) error {
	ctx := c.Request().Context()
	ownerKey := middleware.GetOwnerKey(c)

	if err := h.checkpoints.Delete(ctx, c.Param("id"), ownerKey); err != nil {
		return respondError(c, h.log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DiffCheckpoints returns the merge patch between two versions
// GET /api/v1/games/:id/checkpoints/diff?from=1&to=3
func (h *CheckpointHandler) DiffCheckpoints(c echo.Context) error {
	ctx := c.Request().Context()
	ownerKey := middleware.GetOwnerKey(c)

	from, err := strconv.Atoi(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "from must be an integer version",
		})
	}
	to, err := strconv.Atoi(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "to must be an integer version",
		})
	}

	patch, err := h.checkpoints.Diff(ctx, c.Param("id"), ownerKey, from, to)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"from":  from,
		"to":    to,
		"patch": json.RawMessage(patch),
	})
}

// checkpointResponse is the owner-facing checkpoint projection
func checkpointResponse(cp *models.Checkpoint) map[string]interface{} {
	return map[string]interface{}{
		"checkpoint_id": cp.CheckpointID,
		"game_id":       cp.GameID,
		"prompt":        cp.Prompt,
		"artifacts":     cp.Artifacts,
		"description":   cp.Description,
		"version":       cp.Version,
		"created_at":    cp.CreatedAt,
	}
}
