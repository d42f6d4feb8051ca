package translation

import (
	"context"
	"fmt"
	"time"

	"childcare-assistant/internal/common/config"
)

// Detection is the result of language detection.
type Detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Provider translates text through one backend.
type Provider interface {
	Translate(ctx context.Context, text, target, source string) (string, error)
	TranslateBatch(ctx context.Context, texts []string, target, source string) ([]string, error)
	DetectLanguage(ctx context.Context, text string) (Detection, error)
	Name() string
}

// NewProvider selects a provider from cfg.Provider.
func NewProvider(cfg config.TranslationConfig) (Provider, error) {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	switch cfg.Provider {
	case "static", "":
		return StaticProvider{}, nil
	case "google":
		return NewGoogleProvider(cfg.BaseURL, cfg.APIKey, timeout), nil
	case "deepl":
		return NewDeepLProvider(cfg.BaseURL, cfg.APIKey, timeout), nil
	default:
		return nil, fmt.Errorf("unknown translation provider %q", cfg.Provider)
	}
}

// StaticProvider returns the input unchanged.
type StaticProvider struct{}

func (StaticProvider) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

func (StaticProvider) TranslateBatch(_ context.Context, texts []string, _, _ string) ([]string, error) {
	out := make([]string, len(texts))
	copy(out, texts)
	return out, nil
}

func (StaticProvider) DetectLanguage(context.Context, string) (Detection, error) {
	return Detection{Language: "und"}, nil
}

func (StaticProvider) Name() string { return "static" }
