package assistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"childcare-assistant/internal/ai"
	"childcare-assistant/internal/aggregate"
	"childcare-assistant/internal/common/config"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/compose"
	"childcare-assistant/internal/conversation"
	"childcare-assistant/internal/gateway"
	"childcare-assistant/internal/intent"
	"childcare-assistant/internal/journal"
	"childcare-assistant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (j *memoryJournal) Record(_ context.Context, e journal.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *memoryJournal) Recent(context.Context, string, int) ([]journal.Entry, error) {
	return nil, nil
}

func newPipeline(t *testing.T, routes map[string]string) (*Assistant, *memoryJournal) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	log := logger.NewTestLogger(t)
	gw := gateway.NewClient(config.GatewayConfig{BaseURL: server.URL, Timeout: 2000})
	j := &memoryJournal{}

	return New(Options{
		Interpreter: intent.NewInterpreter(ai.Disabled{}, log),
		Fetcher:     aggregate.NewAggregator(gw, log),
		Composer:    compose.NewComposer(ai.Disabled{}, log),
		History:     conversation.NewStore(10),
		Journal:     j,
		Logger:      log,
	}), j
}

func TestAsk_CountQuestion(t *testing.T) {
	a, j := newPipeline(t, map[string]string{
		"/children": `[{"id":"c1"},{"id":"c2"},{"id":"c3"}]`,
	})

	reply := a.Ask(context.Background(), "user-1", "How many children are enrolled?")

	assert.Equal(t, "I found 3 children matching your search.", reply.Answer)
	assert.Equal(t, models.EntityChildren, reply.Intent.Entity)
	assert.Equal(t, models.QueryTypeCount, reply.Intent.Type)
	assert.Equal(t, journal.OutcomeFallback, reply.Outcome)
	require.NotNil(t, reply.Result)
	assert.NotEmpty(t, reply.ID)

	history := a.History().History("user-1")
	require.Len(t, history, 1)
	assert.Equal(t, reply.Answer, history[0].Answer)

	require.Len(t, j.entries, 1)
	assert.Equal(t, reply.ID, j.entries[0].ID)
	assert.Equal(t, journal.OutcomeFallback, j.entries[0].Outcome)
}

func TestAsk_EmptyResult(t *testing.T) {
	a, _ := newPipeline(t, map[string]string{"/billing": `[]`})

	reply := a.Ask(context.Background(), "user-1", "list the invoices")
	assert.Equal(t, "No results found for your search on billing.", reply.Answer)
}

func TestAsk_FetchFailureApologises(t *testing.T) {
	tests := []struct {
		name     string
		question string
	}{
		{name: "gateway error", question: "Show me today's attendance"},
		{name: "unsupported entity", question: "list all albums"},
		{name: "report section fails", question: "generate a monthly report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, j := newPipeline(t, map[string]string{"/children": `[]`})

			reply := a.Ask(context.Background(), "user-2", tt.question)

			assert.Equal(t, Apology, reply.Answer)
			assert.Equal(t, journal.OutcomeError, reply.Outcome)
			assert.Nil(t, reply.Result)
			require.Len(t, j.entries, 1)
			assert.Equal(t, journal.OutcomeError, j.entries[0].Outcome)
			assert.Len(t, a.History().History("user-2"), 1)
		})
	}
}

type recordingComposer struct {
	histories [][]models.Turn
}

func (c *recordingComposer) ComposeWithHistory(_ context.Context, _ models.DataResult, query string, _ models.QueryIntent, history []models.Turn) string {
	c.histories = append(c.histories, history)
	return "answer to " + query
}

type staticFetcher struct{}

func (staticFetcher) FetchData(context.Context, models.QueryIntent) (models.DataResult, error) {
	return models.DataResult{Data: []interface{}{"x"}, Count: models.IntPtr(1)}, nil
}

func TestAsk_PassesHistoryToComposer(t *testing.T) {
	composer := &recordingComposer{}
	a := New(Options{
		Interpreter: intent.NewInterpreter(ai.Disabled{}, logger.NewNoOpLogger()),
		Fetcher:     staticFetcher{},
		Composer:    composer,
	})

	a.Ask(context.Background(), "u", "first question")
	a.Ask(context.Background(), "u", "second question")
	a.Ask(context.Background(), "other", "unrelated")

	require.Len(t, composer.histories, 3)
	assert.Empty(t, composer.histories[0])
	require.Len(t, composer.histories[1], 1)
	assert.Equal(t, "answer to first question", composer.histories[1][0].Answer)
	assert.Empty(t, composer.histories[2])
}

func TestAsk_ComposerSeesOnlyRecentTurns(t *testing.T) {
	composer := &recordingComposer{}
	a := New(Options{
		Interpreter: intent.NewInterpreter(ai.Disabled{}, logger.NewNoOpLogger()),
		Fetcher:     staticFetcher{},
		Composer:    composer,
		PromptTurns: 2,
	})

	for _, q := range []string{"q1", "q2", "q3", "q4"} {
		a.Ask(context.Background(), "u", q)
	}

	require.Len(t, composer.histories, 4)
	last := composer.histories[3]
	require.Len(t, last, 2)
	assert.Equal(t, "answer to q2", last[0].Answer)
	assert.Equal(t, "answer to q3", last[1].Answer)
	assert.Len(t, a.History().History("u"), 4)
}

func TestAsk_CancelledCallerNotRecorded(t *testing.T) {
	j := &memoryJournal{}
	a := New(Options{
		Interpreter: intent.NewInterpreter(ai.Disabled{}, logger.NewNoOpLogger()),
		Fetcher:     staticFetcher{},
		Composer:    &recordingComposer{},
		Journal:     j,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reply := a.Ask(ctx, "u", "how many staff")
	assert.Equal(t, "answer to how many staff", reply.Answer)
	assert.Empty(t, a.History().History("u"))
	assert.Empty(t, j.entries)
}
