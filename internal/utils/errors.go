package utils

import (
	"github.com/enrichhq/enrichctl/internal/api/dto/common"
	"github.com/enrichhq/enrichctl/internal/logging"

	"github.com/gin-gonic/gin"
)

// HandleAPIError logs the error and writes an error envelope. Error details
// are only exposed outside release mode.
func HandleAPIError(c *gin.Context, err error, status int, code common.ErrorCode, message string) {
	logger := logging.GetGlobalLogger()
	logger.LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		status,
		message,
		err,
	)

	var errorDetails interface{}
	if err != nil && gin.Mode() != gin.ReleaseMode {
		errorDetails = err.Error()
	}

	c.AbortWithStatusJSON(status, common.NewErrorResponse(code, message, errorDetails))
}
