// Package api exposes the assistant and translation service over HTTP.
package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"childcare-assistant/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

type Options struct {
	Mode       string // gin mode: debug, release, test
	Asker      Asker
	History    HistoryReader
	Translator Translator
	// Checks are run by /ready, keyed by dependency name.
	Checks map[string]Check
	Logger logger.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.With(map[string]interface{}{"component": "http"})

	r := gin.New()
	r.Use(recovery(log), requestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/ready", readiness(opts.Checks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &Handler{asker: opts.Asker, history: opts.History, translator: opts.Translator}

	assistantGroup := r.Group("/api/assistant")
	if opts.Asker != nil {
		assistantGroup.POST("/ask", h.Ask)
	}
	if opts.History != nil {
		assistantGroup.GET("/history/:userId", h.History)
	}

	if opts.Translator != nil {
		translate := r.Group("/api/translate")
		translate.POST("", h.Translate)
		translate.POST("/detect", h.Detect)
	}

	return r
}

func readiness(checks map[string]Check) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not ready"
		}
		c.JSON(status, gin.H{"status": state, "checks": results})
	}
}
