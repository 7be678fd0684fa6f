package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// TraceIDHeader carries the request trace id on responses and may be
	// set by callers to propagate an existing id.
	TraceIDHeader = "X-Trace-ID"

	traceParentHeader = "traceparent"
)

// TraceID returns the trace id for the request: the trace-id field of a W3C
// traceparent header when present, then the X-Trace-ID header, then a fresh
// random id.
func TraceID(c *gin.Context) string {
	if tp := c.GetHeader(traceParentHeader); tp != "" {
		// traceparent format: version-trace_id-parent_id-flags
		parts := strings.Split(tp, "-")
		if len(parts) >= 2 && parts[1] != "" {
			return parts[1]
		}
	}
	if id := c.GetHeader(TraceIDHeader); id != "" {
		return id
	}

	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// LoggingMiddleware attaches a trace-id-scoped zerolog logger to the request
// context and emits one structured log line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		traceID := TraceID(c)
		c.Set("trace_id", traceID)

		logger := log.With().Str("trace_id", traceID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Header(TraceIDHeader, traceID)

		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		if status >= 400 {
			event = logger.Error()
		} else {
			event = logger.Info()
		}
		event.
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}
