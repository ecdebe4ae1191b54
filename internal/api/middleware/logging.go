package middleware

import (
	"time"

	"github.com/enrichhq/enrichctl/internal/logging"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs every request through the application logger
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.LogHTTPRequest(
			c.Request.Method,
			c.Request.URL.Path,
			c.GetString(RequestIDKey),
			c.Writer.Status(),
			time.Since(start).String(),
		)
	}
}
