package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"twitch-giveaway-backend/internal/common/logger"
	"twitch-giveaway-backend/internal/common/metrics"
)

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		if raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		metrics.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), latency)

		logger.Info().
			Str("request_id", getRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Int("body_size", c.Writer.Size()).
			Msg("Request processed")
	}
}
