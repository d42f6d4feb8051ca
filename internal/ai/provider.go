// Package ai wraps the chat-completion endpoints used by the interpreter
// and the composer.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"childcare-assistant/internal/common/config"
)

// ErrDisabled is returned by the "none" provider.
var ErrDisabled = errors.New("AI_DISABLED")

// Provider completes a single system+user exchange.
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Name() string
}

// NewProvider selects a provider from cfg.Provider.
func NewProvider(cfg config.AIConfig) (Provider, error) {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Temperature, timeout), nil
	case "azure":
		return NewAzure(cfg.BaseURL, cfg.APIKey, cfg.Deployment, cfg.APIVersion, cfg.Temperature, timeout), nil
	case "none", "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// Disabled always fails so callers take their deterministic path.
type Disabled struct{}

func (Disabled) Complete(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Name() string { return "none" }
