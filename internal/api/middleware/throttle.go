package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/solspace/solspace-backend/internal/api/shared/errors"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/ratelimit"
)

// Throttle rejects clients that exceed their request budget with 429 and a Retry-After hint
func Throttle(throttle ratelimit.Throttle) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := throttle.Allow(c.Request.Context(), c.ClientIP())
		if allowed {
			c.Next()
			return
		}

		logger.DebugCtx(c.Request.Context(), "Request throttled",
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("retry_after", retryAfter),
		)

		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		apiErr := apierrors.NewTooManyRequestsError("Too many requests")
		c.AbortWithStatusJSON(apiErr.StatusCode(), apiErr)
	}
}
