package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/playforge/studio/common/ratelimit"
)

// GlobalRateLimitMiddleware checks the global service-wide rate limit.
// Protects the entire service from being overwhelmed.
func GlobalRateLimitMiddleware(rateLimiter *ratelimit.RateLimiter, limit int64, windowSec int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result, err := rateLimiter.CheckGlobalLimit(c.Request().Context(), limit, windowSec)
			if err != nil {
				// On error, allow request (fail open for availability)
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "global_rate_limit_exceeded",
					"message": "Service is experiencing high load. Please try again later.",
					"details": map[string]interface{}{
						"limit":               result.Limit,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}

// GenerationRateLimitMiddleware checks per-owner rate limits on the
// generation endpoint. Requires the owner key to be set in context by the
// auth middleware.
func GenerationRateLimitMiddleware(rateLimiter *ratelimit.RateLimiter, limit int64, windowSec int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ownerKey, ok := c.Get("owner_key").(string)
			if !ok || ownerKey == "" {
				// No owner key; the auth middleware will reject downstream
				return next(c)
			}

			result, err := rateLimiter.CheckGenerationLimit(c.Request().Context(), ownerKey, limit, windowSec)
			if err != nil {
				// On error, allow request (fail open for availability)
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "generation_rate_limit_exceeded",
					"message": "You have exceeded your generation quota. Please wait before trying again.",
					"details": map[string]interface{}{
						"limit":               result.Limit,
						"current":             result.CurrentCount,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
