package middleware

import (
	"net/http"
	"strconv"

	"github.com/enrichhq/enrichctl/internal/api/dto/common"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for the rate limiter
type RateLimitConfig struct {
	// Requests per second
	RPS float64
	// Burst size (number of requests that can be made in a single burst)
	Burst int
}

// RateLimit rejects requests above the configured rate with 429. A zero RPS
// disables limiting.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	if config.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if config.Burst < 1 {
		config.Burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(config.RPS), config.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				common.NewErrorResponse(common.ErrCodeRateLimited, "Rate limit exceeded. Please try again later.", nil))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatFloat(config.RPS, 'f', -1, 64))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))

		c.Next()
	}
}
