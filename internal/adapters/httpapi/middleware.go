package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// apiKeyMiddleware rejects requests missing the configured X-API-Key header.
// An empty configured key disables auth (local development).
func apiKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey != "" && c.GetHeader("X-API-Key") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{
				Success:   false,
				Message:   "invalid or missing API key",
				Errors:    []string{"invalid or missing API key"},
				Timestamp: time.Now().UTC(),
			})
			return
		}
		c.Next()
	}
}

// rateLimitMiddleware applies a process-wide token bucket. The control plane
// talks to one game server, so a single bucket is the right granularity.
func rateLimitMiddleware(requestsPerSecond float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, envelope{
				Success:   false,
				Message:   "rate limit exceeded",
				Errors:    []string{"rate limit exceeded"},
				Timestamp: time.Now().UTC(),
			})
			return
		}
		c.Next()
	}
}

// requestLogMiddleware logs each request with zerolog.
func requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		} else if c.Writer.Status() >= http.StatusBadRequest {
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
