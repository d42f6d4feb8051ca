// Package compose renders an aggregation result as a chat reply.
package compose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"childcare-assistant/internal/ai"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/common/metrics"
	"childcare-assistant/internal/models"
)

// maxPromptData bounds the serialized data sent to the model.
const maxPromptData = 12000

const systemPrompt = `You are the assistant of a childcare centre management dashboard.
Answer the staff member's question using only the data provided.
Be concise and friendly. Use short lists for multiple items and include totals and rates when present.
If the data does not answer the question, say so plainly.`

type Composer struct {
	provider ai.Provider
	logger   logger.Logger
}

func NewComposer(provider ai.Provider, log logger.Logger) *Composer {
	if provider == nil {
		provider = ai.Disabled{}
	}
	return &Composer{
		provider: provider,
		logger:   log.With(map[string]interface{}{"component": "composer"}),
	}
}

// Compose never fails; a provider problem yields the templated Fallback.
func (c *Composer) Compose(ctx context.Context, result models.DataResult, query string, intent models.QueryIntent) string {
	return c.ComposeWithHistory(ctx, result, query, intent, nil)
}

// ComposeWithHistory is Compose with earlier turns included in the prompt.
func (c *Composer) ComposeWithHistory(ctx context.Context, result models.DataResult, query string, intent models.QueryIntent, history []models.Turn) string {
	reply, err := c.provider.Complete(ctx, systemPrompt, buildPrompt(result, query, intent, history))
	if err == nil && strings.TrimSpace(reply) != "" {
		return strings.TrimSpace(reply)
	}

	reason := "provider_error"
	switch {
	case errors.Is(err, ai.ErrDisabled):
		reason = "disabled"
	case err == nil:
		reason = "empty_reply"
	default:
		c.logger.Warn("composer falling back to template", map[string]interface{}{"error": err})
	}
	metrics.ComposerFallbacks.WithLabelValues(reason).Inc()

	return Fallback(result, intent)
}

// Fallback renders result without a language model.
func Fallback(result models.DataResult, intent models.QueryIntent) string {
	if result.IsEmpty() {
		return fmt.Sprintf("No results found for your search on %s.", intent.Entity)
	}

	count, known := countOf(result)
	if intent.Type == models.QueryTypeCount && known {
		return fmt.Sprintf("I found %d %s matching your search.", count, intent.Entity)
	}

	dump, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		dump = []byte(fmt.Sprintf("%v", result.Data))
	}

	header := fmt.Sprintf("Here is the %s information you asked for:", intent.Entity)
	if known {
		header = fmt.Sprintf("Found %d %s record(s):", count, intent.Entity)
	}
	return header + "\n" + string(dump)
}

func countOf(result models.DataResult) (int, bool) {
	if result.Count != nil {
		return *result.Count, true
	}
	if list, ok := result.Data.([]interface{}); ok {
		return len(list), true
	}
	return 0, false
}

func buildPrompt(result models.DataResult, query string, intent models.QueryIntent, history []models.Turn) string {
	var b strings.Builder

	if len(history) > 0 {
		b.WriteString("Earlier in this conversation:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", turn.Question, turn.Answer)
		}
		b.WriteString("\n")
	}

	intentJSON, _ := json.Marshal(intent)
	dataJSON, err := json.Marshal(result.Data)
	if err != nil {
		dataJSON = []byte("null")
	}
	data := string(dataJSON)
	data = truncate(data, maxPromptData)

	fmt.Fprintf(&b, "Question: %s\n", query)
	fmt.Fprintf(&b, "Interpreted intent: %s\n", intentJSON)
	if result.Count != nil {
		fmt.Fprintf(&b, "Record count: %d\n", *result.Count)
	}
	fmt.Fprintf(&b, "Data source: %s (fetched %s)\n", result.Metadata.Source, result.Metadata.Timestamp)
	fmt.Fprintf(&b, "Data: %s\n", data)
	return b.String()
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...(truncated)"
}
