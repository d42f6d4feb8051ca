package translation

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	commonhttp "childcare-assistant/internal/common/http"

	"github.com/go-resty/resty/v2"
)

// GoogleProvider calls Cloud Translation v2 with an API key.
type GoogleProvider struct {
	http   *resty.Client
	apiKey string
}

type googleTranslateRequest struct {
	Q      []string `json:"q"`
	Target string   `json:"target"`
	Source string   `json:"source,omitempty"`
	Format string   `json:"format"`
}

type googleTranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
}

type googleDetectResponse struct {
	Data struct {
		Detections [][]struct {
			Language   string  `json:"language"`
			Confidence float64 `json:"confidence"`
		} `json:"detections"`
	} `json:"data"`
}

func NewGoogleProvider(baseURL, apiKey string, timeout time.Duration) *GoogleProvider {
	if baseURL == "" {
		baseURL = "https://translation.googleapis.com"
	}
	return &GoogleProvider{
		http:   commonhttp.NewClient(commonhttp.Options{BaseURL: strings.TrimRight(baseURL, "/"), Timeout: timeout}),
		apiKey: apiKey,
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) Translate(ctx context.Context, text, target, source string) (string, error) {
	out, err := p.TranslateBatch(ctx, []string{text}, target, source)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

func (p *GoogleProvider) TranslateBatch(ctx context.Context, texts []string, target, source string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	body := googleTranslateRequest{Q: texts, Target: target, Format: "text"}
	if source != "" && source != AutoSource {
		body.Source = source
	}

	resp, err := p.http.R().
		SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetBody(body).
		SetResult(&googleTranslateResponse{}).
		Post("/language/translate/v2")
	if err != nil {
		return nil, fmt.Errorf("google translate: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("google translate: response error %d: %s", resp.StatusCode(), resp.String())
	}

	result := resp.Result().(*googleTranslateResponse)
	if len(result.Data.Translations) != len(texts) {
		return nil, fmt.Errorf("google translate: got %d translations for %d texts", len(result.Data.Translations), len(texts))
	}

	out := make([]string, len(texts))
	for i, t := range result.Data.Translations {
		out[i] = html.UnescapeString(t.TranslatedText)
	}
	return out, nil
}

func (p *GoogleProvider) DetectLanguage(ctx context.Context, text string) (Detection, error) {
	resp, err := p.http.R().
		SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetBody(map[string]interface{}{"q": []string{text}}).
		SetResult(&googleDetectResponse{}).
		Post("/language/translate/v2/detect")
	if err != nil {
		return Detection{}, fmt.Errorf("google detect: %w", err)
	}
	if resp.IsError() {
		return Detection{}, fmt.Errorf("google detect: response error %d: %s", resp.StatusCode(), resp.String())
	}

	result := resp.Result().(*googleDetectResponse)
	if len(result.Data.Detections) == 0 || len(result.Data.Detections[0]) == 0 {
		return Detection{}, fmt.Errorf("google detect: no detections")
	}
	d := result.Data.Detections[0][0]
	return Detection{Language: d.Language, Confidence: d.Confidence}, nil
}
