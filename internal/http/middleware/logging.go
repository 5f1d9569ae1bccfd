package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// quietRoutes are probed constantly and only logged at debug.
var quietRoutes = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// ZapLogger writes one access log entry per request. For the SSE stream the
// latency is the lifetime of the connection.
func ZapLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.RequestURI()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if id := c.Param("id"); id != "" {
			fields = append(fields, zap.String("hero_id", id))
		}

		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			logger.Error("request failed", append(fields, zap.String("errors", errs.String()))...)
			return
		}
		if ce := logger.Check(accessLevel(route, status), "request completed"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func accessLevel(route string, status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	}
	if _, ok := quietRoutes[route]; ok {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}
