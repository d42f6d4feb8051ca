// internal/workers/assistant/compose-response/config.go
package composeresponse

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
	wcfg := config.GetWorkerConfig(appCfg, config.WorkerComposeResponse)
	return &Config{
		Enabled:       wcfg.Enabled,
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       config.GetDuration(wcfg.Timeout),
	}
}
