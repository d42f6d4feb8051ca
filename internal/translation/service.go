package translation

import (
	"context"
	"fmt"
	"strings"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"

	"golang.org/x/text/language"
)

// Service translates through the cache, calling the provider only for misses.
type Service struct {
	provider Provider
	cache    *Cache
	logger   logger.Logger
}

func NewService(provider Provider, cache *Cache, log logger.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		logger:   log.With(map[string]interface{}{"component": "translation", "provider": provider.Name()}),
	}
}

func (s *Service) Cache() *Cache { return s.cache }

func (s *Service) ProviderName() string { return s.provider.Name() }

// Translate returns text in target. A cache failure never fails the call.
func (s *Service) Translate(ctx context.Context, text, target, source string) (string, error) {
	out, err := s.TranslateBatch(ctx, []string{text}, target, source)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// TranslateBatch translates texts in order. Cached and empty texts are
// resolved locally; the rest go to the provider in one call.
func (s *Service) TranslateBatch(ctx context.Context, texts []string, target, source string) ([]string, error) {
	target, source, err := canonicalPair(target, source)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(texts))
	if source == target {
		copy(out, texts)
		return out, nil
	}

	var (
		missing []string
		slots   []int
	)
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			out[i] = text
			continue
		}
		if cached, ok := s.cache.Get(text, target, source); ok {
			out[i] = cached
			continue
		}
		missing = append(missing, text)
		slots = append(slots, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	translated, err := s.provider.TranslateBatch(ctx, missing, target, source)
	if err != nil {
		return nil, fmt.Errorf("translate %d texts to %s: %w", len(missing), target, err)
	}
	if len(translated) != len(missing) {
		return nil, fmt.Errorf("translate to %s: provider returned %d of %d texts", target, len(translated), len(missing))
	}

	for j, i := range slots {
		out[i] = translated[j]
		if err := s.cache.Set(ctx, missing[j], translated[j], target, source); err != nil {
			s.logger.Warn("translation not cached", map[string]interface{}{"target": target, "error": err})
		}
	}

	s.logger.Debug("translated", map[string]interface{}{
		"target":   target,
		"source":   source,
		"texts":    len(texts),
		"provider": len(missing),
	})
	return out, nil
}

func (s *Service) DetectLanguage(ctx context.Context, text string) (Detection, error) {
	if strings.TrimSpace(text) == "" {
		return Detection{}, fmt.Errorf("%w: text is empty", apperrors.ErrInvalidInput)
	}
	d, err := s.provider.DetectLanguage(ctx, text)
	if err != nil {
		return Detection{}, fmt.Errorf("detect language: %w", err)
	}
	return d, nil
}

// CanonicalTag normalizes a BCP 47 tag ("EN_us" -> "en-US").
func CanonicalTag(tag string) (string, error) {
	t, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: language %q: %v", apperrors.ErrInvalidInput, tag, err)
	}
	return t.String(), nil
}

func canonicalPair(target, source string) (string, string, error) {
	if strings.TrimSpace(target) == "" {
		return "", "", fmt.Errorf("%w: target language is required", apperrors.ErrInvalidInput)
	}
	t, err := CanonicalTag(target)
	if err != nil {
		return "", "", err
	}
	if source == "" || strings.EqualFold(source, AutoSource) {
		return t, AutoSource, nil
	}
	s, err := CanonicalTag(source)
	if err != nil {
		return "", "", err
	}
	return t, s, nil
}
