package api

import (
	"net"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"childcare-assistant/internal/common/logger"

	"github.com/gin-gonic/gin"
)

// requestLogger logs each request at a level chosen by its status.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if id := c.GetHeader("X-Request-ID"); id != "" {
			fields["request_id"] = id
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("HTTP request completed", fields)
		case status >= 400:
			log.Warn("HTTP request completed", fields)
		default:
			log.Debug("HTTP request completed", fields)
		}
	}
}

func recovery(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if brokenConnection(recovered) {
			log.Warn("connection broken during request", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": recovered,
			})
			c.Abort()
			return
		}

		dump, _ := httputil.DumpRequest(c.Request, false)
		headers := strings.Split(string(dump), "\r\n")
		for i, h := range headers {
			if name, _, ok := strings.Cut(h, ":"); ok && strings.EqualFold(name, "Authorization") {
				headers[i] = name + ": *"
			}
		}

		log.Error("panic recovered", map[string]interface{}{
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
			"headers": headers,
			"error":   recovered,
			"stack":   string(debug.Stack()),
		})
		failure(c, 500, "INTERNAL_ERROR", "Internal server error occurred")
	})
}

func brokenConnection(recovered interface{}) bool {
	ne, ok := recovered.(*net.OpError)
	if !ok {
		return false
	}
	se, ok := ne.Err.(*os.SyscallError)
	if !ok {
		return false
	}
	msg := strings.ToLower(se.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
