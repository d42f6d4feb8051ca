package compose

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"childcare-assistant/internal/ai"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/models"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (s *stubProvider) Complete(_ context.Context, system, user string) (string, error) {
	s.lastSystem, s.lastUser = system, user
	return s.reply, s.err
}

func (s *stubProvider) Name() string { return "stub" }

func result(data interface{}, count *int) models.DataResult {
	return models.NewDataResult("/billing", data, count, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
}

func TestFallback_EmptyBilling(t *testing.T) {
	got := Fallback(result([]interface{}{}, models.IntPtr(0)), models.QueryIntent{Entity: models.EntityBilling, Type: models.QueryTypeList})
	assert.Equal(t, "No results found for your search on billing.", got)
}

func TestFallback(t *testing.T) {
	list := []interface{}{
		map[string]interface{}{"name": "Ava"},
		map[string]interface{}{"name": "Noah"},
	}

	tests := []struct {
		name   string
		result models.DataResult
		intent models.QueryIntent
		want   string
	}{
		{
			name:   "nil data",
			result: result(nil, nil),
			intent: models.QueryIntent{Entity: models.EntityStaff, Type: models.QueryTypeCount},
			want:   "No results found for your search on staff.",
		},
		{
			name:   "count",
			result: result(list, models.IntPtr(2)),
			intent: models.QueryIntent{Entity: models.EntityChildren, Type: models.QueryTypeCount},
			want:   "I found 2 children matching your search.",
		},
		{
			name:   "count derived from list",
			result: result(list, nil),
			intent: models.QueryIntent{Entity: models.EntityChildren, Type: models.QueryTypeCount},
			want:   "I found 2 children matching your search.",
		},
		{
			name:   "list dump",
			result: result(list, models.IntPtr(2)),
			intent: models.QueryIntent{Entity: models.EntityChildren, Type: models.QueryTypeList},
			want:   "Found 2 children record(s):\n[\n  {\n    \"name\": \"Ava\"\n  },\n  {\n    \"name\": \"Noah\"\n  }\n]",
		},
		{
			name:   "object without count",
			result: result(map[string]interface{}{"total": 3}, nil),
			intent: models.QueryIntent{Entity: models.EntityReport, Type: models.QueryTypeGenerate},
			want:   "Here is the report information you asked for:\n{\n  \"total\": 3\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fallback(tt.result, tt.intent))
		})
	}
}

func TestCompose_UsesModelReply(t *testing.T) {
	provider := &stubProvider{reply: "  You have 2 unpaid invoices totalling $50.  "}
	c := NewComposer(provider, logger.NewTestLogger(t))

	got := c.ComposeWithHistory(context.Background(),
		result([]interface{}{map[string]interface{}{"amount": 20}}, models.IntPtr(1)),
		"Which invoices are unpaid?",
		models.QueryIntent{Entity: models.EntityBilling, Type: models.QueryTypeList},
		[]models.Turn{{Question: "hi", Answer: "hello"}},
	)

	assert.Equal(t, "You have 2 unpaid invoices totalling $50.", got)
	assert.Equal(t, systemPrompt, provider.lastSystem)
	assert.Contains(t, provider.lastUser, "Question: Which invoices are unpaid?")
	assert.Contains(t, provider.lastUser, `"entity":"billing"`)
	assert.Contains(t, provider.lastUser, "Record count: 1")
	assert.Contains(t, provider.lastUser, "Q: hi\nA: hello")
}

func TestCompose_FallsBack(t *testing.T) {
	providers := map[string]ai.Provider{
		"disabled":    ai.Disabled{},
		"error":       &stubProvider{err: errors.New("timeout")},
		"empty reply": &stubProvider{reply: "   "},
	}

	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			c := NewComposer(p, logger.NewNoOpLogger())
			got := c.Compose(context.Background(), result([]interface{}{}, models.IntPtr(0)), "unpaid?",
				models.QueryIntent{Entity: models.EntityBilling, Type: models.QueryTypeList})
			assert.Equal(t, "No results found for your search on billing.", got)
		})
	}
}

func TestBuildPrompt_TruncatesLargeData(t *testing.T) {
	big := strings.Repeat("x", maxPromptData*2)
	prompt := buildPrompt(result(big, nil), "q", models.QueryIntent{Entity: models.EntityMedia, Type: models.QueryTypeList}, nil)
	assert.Contains(t, prompt, "...(truncated)")
	assert.Less(t, len(prompt), maxPromptData+500)
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	// "é" is two bytes; a cut at 2 would land inside it.
	got := truncate("aéb", 2)
	assert.Equal(t, "a...(truncated)", got)
	assert.True(t, utf8.ValidString(got))

	long := strings.Repeat("日本", maxPromptData)
	got = truncate(long, maxPromptData)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(strings.TrimSuffix(got, "...(truncated)")), maxPromptData)
}
