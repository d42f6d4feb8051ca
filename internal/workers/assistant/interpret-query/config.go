// internal/workers/assistant/interpret-query/config.go
package interpretquery

import (
	"time"

	"childcare-assistant/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
}

func NewConfig(appCfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(appCfg, config.WorkerInterpretQuery)
	return &Config{
		Enabled:       wcfg.Enabled,
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       config.GetDuration(wcfg.Timeout),
	}
}
