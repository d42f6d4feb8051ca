// internal/workers/assistant/deliver-report/config.go
package deliverreport

import (
	"time"

	"childcare-assistant/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	EmailEnabled  bool
	SMSEnabled    bool
	// SMSMaxLength truncates the texted report.
	SMSMaxLength int
}

func NewConfig(appCfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(appCfg, config.WorkerDeliverReport)
	return &Config{
		Enabled:       wcfg.Enabled,
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       config.GetDuration(wcfg.Timeout),
		EmailEnabled:  appCfg.Notifications.Email.Enabled,
		SMSEnabled:    appCfg.Notifications.SMS.Enabled,
		SMSMaxLength:  1600,
	}
}
