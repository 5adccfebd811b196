package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/playforge/studio/cmd/studio/service"
	"github.com/playforge/studio/common/logger"
)

// respondError translates service errors into HTTP responses. Not-found
// covers both absent and unowned resources; the response never distinguishes
// the two.
func respondError(c echo.Context, log *logger.Logger, err error) error {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
	}

	if errors.Is(err, service.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "not found",
		})
	}

	if errors.Is(err, service.ErrGenerationUnavailable) {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error": "generation is temporarily unavailable, try again later",
		})
	}

	var integrityErr *service.IntegrityError
	if errors.As(err, &integrityErr) {
		log.Error("integrity fault", "op", integrityErr.Op, "error", integrityErr.Err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "internal error",
		})
	}

	log.Error("request failed", "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": "internal error",
	})
}
