package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	commonhttp "childcare-assistant/internal/common/http"

	"github.com/go-resty/resty/v2"
)

type ChatCompletionRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// chatClient posts ChatCompletionRequest bodies to a single endpoint.
type chatClient struct {
	name        string
	http        *resty.Client
	path        string
	query       map[string]string
	model       string
	temperature float64
}

func (c *chatClient) Name() string { return c.name }

func (c *chatClient) Complete(ctx context.Context, system, user string) (string, error) {
	body := ChatCompletionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: RoleSystem, Content: system},
			{Role: RoleUser, Content: user},
		},
		Temperature: c.temperature,
	}

	response, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.query).
		SetBody(body).
		SetResult(&ChatCompletionResponse{}).
		Post(c.path)
	if err != nil {
		return "", fmt.Errorf("%s: post %s: %w", c.name, c.path, err)
	}
	if response.IsError() {
		return "", fmt.Errorf("%s: response error %d: %s", c.name, response.StatusCode(), truncate(response.String(), 200))
	}

	result, ok := response.Result().(*ChatCompletionResponse)
	if !ok || result == nil || len(result.Choices) == 0 {
		return "", fmt.Errorf("%s: empty choices", c.name)
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%s: empty response content", c.name)
	}
	return content, nil
}

// NewOpenAI talks to an OpenAI-compatible /chat/completions endpoint.
func NewOpenAI(baseURL, apiKey, model string, temperature float64, timeout time.Duration) Provider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &chatClient{
		name: "openai",
		http: commonhttp.NewClient(commonhttp.Options{
			BaseURL: baseURL,
			Timeout: timeout,
			Headers: map[string]string{"Authorization": "Bearer " + apiKey},
		}),
		path:        "/chat/completions",
		model:       model,
		temperature: temperature,
	}
}

// NewAzure talks to an Azure OpenAI deployment. The model is implied by the deployment.
func NewAzure(baseURL, apiKey, deployment, apiVersion string, temperature float64, timeout time.Duration) Provider {
	return &chatClient{
		name: "azure",
		http: commonhttp.NewClient(commonhttp.Options{
			BaseURL: strings.TrimRight(baseURL, "/"),
			Timeout: timeout,
			Headers: map[string]string{"api-key": apiKey},
		}),
		path:        "/openai/deployments/" + deployment + "/chat/completions",
		query:       map[string]string{"api-version": apiVersion},
		temperature: temperature,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
