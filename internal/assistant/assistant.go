// Package assistant runs the question pipeline: interpret, fetch, compose.
package assistant

import (
	"context"
	"time"

	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/common/metrics"
	"childcare-assistant/internal/conversation"
	"childcare-assistant/internal/intent"
	"childcare-assistant/internal/journal"
	"childcare-assistant/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// Apology replaces the answer whenever the data could not be fetched.
const Apology = "I'm sorry, I couldn't retrieve that information right now. Please try again."

type Interpreter interface {
	InterpretDetailed(ctx context.Context, text string) intent.Result
}

type Fetcher interface {
	FetchData(ctx context.Context, intent models.QueryIntent) (models.DataResult, error)
}

type Composer interface {
	ComposeWithHistory(ctx context.Context, result models.DataResult, query string, intent models.QueryIntent, history []models.Turn) string
}

// Tracer is satisfied by *observability.Observability.
type Tracer interface {
	StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error))
}

// Reply is the answer to one question.
type Reply struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	Question  string             `json:"question"`
	Answer    string             `json:"answer"`
	Intent    models.QueryIntent `json:"intent"`
	Result    *models.DataResult `json:"result,omitempty"`
	Outcome   journal.Outcome    `json:"outcome"`
	CreatedAt time.Time          `json:"createdAt"`
}

// DefaultPromptTurns is how many earlier turns reach the composer.
const DefaultPromptTurns = 5

type Options struct {
	Interpreter Interpreter
	Fetcher     Fetcher
	Composer    Composer
	History     *conversation.Store
	PromptTurns int
	Journal     journal.Journal
	Tracer      Tracer
	Logger      logger.Logger
}

type Assistant struct {
	interpreter Interpreter
	fetcher     Fetcher
	composer    Composer
	history     *conversation.Store
	promptTurns int
	journal     journal.Journal
	tracer      Tracer
	logger      logger.Logger
	now         func() time.Time
}

func New(opts Options) *Assistant {
	a := &Assistant{
		interpreter: opts.Interpreter,
		fetcher:     opts.Fetcher,
		composer:    opts.Composer,
		history:     opts.History,
		promptTurns: opts.PromptTurns,
		journal:     opts.Journal,
		tracer:      opts.Tracer,
		logger:      opts.Logger,
		now:         time.Now,
	}
	if a.history == nil {
		a.history = conversation.NewStore(conversation.DefaultLimit)
	}
	if a.promptTurns <= 0 {
		a.promptTurns = DefaultPromptTurns
	}
	if a.journal == nil {
		a.journal = journal.Nop{}
	}
	if a.tracer == nil {
		a.tracer = nopTracer{}
	}
	if a.logger == nil {
		a.logger = logger.NewNoOpLogger()
	}
	a.logger = a.logger.With(map[string]interface{}{"component": "assistant"})
	return a
}

func (a *Assistant) History() *conversation.Store { return a.history }

// Ask answers text for userID. It never fails: a fetch error turns into
// Apology. When ctx is cancelled before the answer is ready the reply is
// still returned but not added to the user's history.
func (a *Assistant) Ask(ctx context.Context, userID, text string) Reply {
	start := a.now()
	ctx, end := a.tracer.StartSpan(ctx, "assistant.ask", attribute.String("user.id", userID))

	stageStart := time.Now()
	interpreted := a.interpreter.InterpretDetailed(ctx, text)
	metrics.StageDuration.WithLabelValues("interpret").Observe(time.Since(stageStart).Seconds())
	queryIntent := interpreted.Intent

	reply := Reply{
		UserID:   userID,
		Question: text,
		Intent:   queryIntent,
		Outcome:  journal.OutcomeOK,
	}
	if interpreted.Fallback {
		reply.Outcome = journal.OutcomeFallback
	}

	stageStart = time.Now()
	result, err := a.fetcher.FetchData(ctx, queryIntent)
	metrics.StageDuration.WithLabelValues("fetch").Observe(time.Since(stageStart).Seconds())

	if err != nil {
		a.logger.Error("failed to fetch data", map[string]interface{}{
			"userId": userID,
			"entity": queryIntent.Entity,
			"type":   queryIntent.Type,
			"error":  err.Error(),
		})
		reply.Answer = Apology
		reply.Outcome = journal.OutcomeError
	} else {
		stageStart = time.Now()
		history := a.history.Recent(userID, a.promptTurns)
		reply.Answer = a.composer.ComposeWithHistory(ctx, result, text, queryIntent, history)
		reply.Result = &result
		metrics.StageDuration.WithLabelValues("compose").Observe(time.Since(stageStart).Seconds())
	}
	end(err)

	metrics.AssistantQueries.WithLabelValues(string(queryIntent.Entity), string(reply.Outcome)).Inc()

	if ctx.Err() != nil {
		a.logger.Warn("caller went away, answer not recorded", map[string]interface{}{"userId": userID})
		reply.CreatedAt = a.now().UTC()
		return reply
	}

	turn := a.history.Append(userID, models.Turn{
		Question: text,
		Answer:   reply.Answer,
		Intent:   queryIntent,
	})
	reply.ID = turn.ID
	reply.CreatedAt = turn.CreatedAt

	entry := journal.Entry{
		ID:         turn.ID,
		UserID:     userID,
		Question:   text,
		Intent:     queryIntent,
		Outcome:    reply.Outcome,
		DurationMs: a.now().Sub(start).Milliseconds(),
		CreatedAt:  turn.CreatedAt,
	}
	if err := a.journal.Record(ctx, entry); err != nil {
		a.logger.Warn("failed to journal query", map[string]interface{}{"error": err.Error()})
	}

	a.logger.Info("question answered", map[string]interface{}{
		"userId":  userID,
		"entity":  queryIntent.Entity,
		"type":    queryIntent.Type,
		"outcome": reply.Outcome,
	})
	return reply
}

type nopTracer struct{}

func (nopTracer) StartSpan(ctx context.Context, _ string, _ ...attribute.KeyValue) (context.Context, func(error)) {
	return ctx, func(error) {}
}
