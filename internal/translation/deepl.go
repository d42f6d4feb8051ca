package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	commonhttp "childcare-assistant/internal/common/http"

	"github.com/go-resty/resty/v2"
)

// DeepLProvider calls the DeepL v2 API.
type DeepLProvider struct {
	http *resty.Client
}

type deeplTranslateRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
	SourceLang string   `json:"source_lang,omitempty"`
}

type deeplTranslateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

func NewDeepLProvider(baseURL, apiKey string, timeout time.Duration) *DeepLProvider {
	if baseURL == "" {
		baseURL = "https://api-free.deepl.com"
	}
	return &DeepLProvider{
		http: commonhttp.NewClient(commonhttp.Options{
			BaseURL: strings.TrimRight(baseURL, "/"),
			Timeout: timeout,
			Headers: map[string]string{"Authorization": "DeepL-Auth-Key " + apiKey},
		}),
	}
}

func (p *DeepLProvider) Name() string { return "deepl" }

func (p *DeepLProvider) Translate(ctx context.Context, text, target, source string) (string, error) {
	out, err := p.TranslateBatch(ctx, []string{text}, target, source)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

func (p *DeepLProvider) TranslateBatch(ctx context.Context, texts []string, target, source string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	result, err := p.translate(ctx, texts, target, source)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(texts))
	for i, t := range result.Translations {
		out[i] = t.Text
	}
	return out, nil
}

// DetectLanguage translates to English and reports DeepL's detected source;
// DeepL has no standalone detection endpoint.
func (p *DeepLProvider) DetectLanguage(ctx context.Context, text string) (Detection, error) {
	result, err := p.translate(ctx, []string{text}, "en-US", "")
	if err != nil {
		return Detection{}, err
	}
	return Detection{
		Language:   strings.ToLower(result.Translations[0].DetectedSourceLanguage),
		Confidence: 1,
	}, nil
}

func (p *DeepLProvider) translate(ctx context.Context, texts []string, target, source string) (*deeplTranslateResponse, error) {
	body := deeplTranslateRequest{Text: texts, TargetLang: strings.ToUpper(target)}
	if source != "" && source != AutoSource {
		// DeepL source languages carry no region.
		body.SourceLang = strings.ToUpper(strings.SplitN(source, "-", 2)[0])
	}

	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&deeplTranslateResponse{}).
		Post("/v2/translate")
	if err != nil {
		return nil, fmt.Errorf("deepl translate: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("deepl translate: response error %d: %s", resp.StatusCode(), resp.String())
	}

	result := resp.Result().(*deeplTranslateResponse)
	if len(result.Translations) != len(texts) {
		return nil, fmt.Errorf("deepl translate: got %d translations for %d texts", len(result.Translations), len(texts))
	}
	return result, nil
}
