package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/enrichhq/enrichctl/internal/api/dto/common"
	"github.com/enrichhq/enrichctl/internal/logging"

	"github.com/gin-gonic/gin"
)

// Recovery turns handler panics into a 500 envelope
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("[PANIC] %s %s | %s | %v\n%s",
					c.Request.Method,
					c.Request.URL.Path,
					c.GetString(RequestIDKey),
					err,
					debug.Stack(),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					common.NewErrorResponse(common.ErrCodeInternalServer, "Internal server error", nil))
			}
		}()

		c.Next()
	}
}
