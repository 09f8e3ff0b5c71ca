package middleware

import (
	"net/http"
	"time"

	"github.com/nb2912/inventory/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var internalError = apierror.New("Internal server error.")

// withRequest adds the fields every request-scoped log line carries.
func withRequest(ev *zerolog.Event, c *gin.Context) *zerolog.Event {
	return ev.Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path)
}

// ErrorHandler logs the last error attached with c.Error and answers 500 when
// the handler wrote nothing. Internal details never reach the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		withRequest(log.Error(), c).
			Str("route", c.FullPath()).
			Err(c.Errors.Last().Err).
			Msg("unhandled error")

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, internalError)
		}
	}
}

// Recovery turns a panic into a 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				withRequest(log.Error(), c).Interface("panic", r).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, internalError)
			}
		}()
		c.Next()
	}
}

// Logger writes one line per request; 5xx responses are logged at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		withRequest(ev, c).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
