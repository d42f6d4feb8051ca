// Package app wires the assistant's components from configuration. Both
// the worker manager and the CLI start from here.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"childcare-assistant/internal/aggregate"
	"childcare-assistant/internal/ai"
	"childcare-assistant/internal/api"
	"childcare-assistant/internal/assistant"
	"childcare-assistant/internal/common/config"
	"childcare-assistant/internal/common/database"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/common/observability"
	"childcare-assistant/internal/compose"
	"childcare-assistant/internal/conversation"
	"childcare-assistant/internal/gateway"
	"childcare-assistant/internal/intent"
	"childcare-assistant/internal/journal"
	"childcare-assistant/internal/translation"

	"github.com/avast/retry-go"
)

// App holds every long-lived component.
type App struct {
	Config        *config.Config
	Logger        logger.Logger
	Observability *observability.Observability

	Gateway     *gateway.Client
	Interpreter *intent.Interpreter
	Aggregator  *aggregate.Aggregator
	Composer    *compose.Composer
	Translation *translation.Service
	History     *conversation.Store
	Journal     journal.Journal
	Assistant   *assistant.Assistant

	Redis    *database.RedisClient
	Postgres *database.PostgresClient

	// ConnectAttempts bounds the startup retries of each dependency.
	ConnectAttempts uint
}

// New builds the components. Redis and Postgres are only dialled when the
// configuration asks for them; each is retried with backoff before giving up.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: log, ConnectAttempts: 5}

	serviceName := cfg.Observability.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}
	a.Observability = observability.New(serviceName, cfg.Observability.JaegerEndpoint, log)

	provider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		return nil, err
	}
	log.Info("ai provider selected", map[string]interface{}{"provider": provider.Name()})

	a.Gateway = gateway.NewClient(cfg.Gateway)
	a.Interpreter = intent.NewInterpreter(provider, log)
	a.Aggregator = aggregate.NewAggregator(a.Gateway, log)
	a.Composer = compose.NewComposer(provider, log)
	a.History = conversation.NewStore(cfg.Conversation.HistoryLimit)

	if err := a.openTranslation(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openJournal(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Assistant = assistant.New(assistant.Options{
		Interpreter: a.Interpreter,
		Fetcher:     a.Aggregator,
		Composer:    a.Composer,
		History:     a.History,
		Journal:     a.Journal,
		Tracer:      a.Observability,
		Logger:      log,
	})
	return a, nil
}

func (a *App) openTranslation(ctx context.Context) error {
	cfg := a.Config.Translation

	provider, err := translation.NewProvider(cfg)
	if err != nil {
		return err
	}

	var store translation.Store = translation.NewMemoryStore()
	if cfg.CacheStore == "redis" {
		a.Redis = database.NewRedis(a.Config.Database.Redis)
		if err := a.connect(ctx, "redis", a.Redis.Ping); err != nil {
			return err
		}
		store = translation.NewRedisStore(a.Redis.Client, cfg.CacheKey)
	}

	cache, err := translation.Open(ctx, config.GetDuration(cfg.CacheTTL), store, a.Logger)
	if err != nil {
		return err
	}
	a.Translation = translation.NewService(provider, cache, a.Logger)
	return nil
}

func (a *App) openJournal(ctx context.Context) error {
	pgCfg := a.Config.Database.Postgres
	if !pgCfg.Enabled() {
		a.Journal = journal.Nop{}
		return nil
	}

	pg, err := database.NewPostgres(pgCfg)
	if err != nil {
		return err
	}
	a.Postgres = pg
	if err := a.connect(ctx, "postgres", pg.Ping); err != nil {
		return err
	}

	j := journal.NewPostgres(pg.DB, a.Logger)
	if err := j.EnsureSchema(ctx); err != nil {
		return err
	}
	a.Journal = j
	return nil
}

// connect pings a dependency until it answers or the attempts run out.
func (a *App) connect(ctx context.Context, name string, ping func(context.Context) error) error {
	err := retry.Do(
		func() error { return ping(ctx) },
		retry.Context(ctx),
		retry.Attempts(a.ConnectAttempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			a.Logger.Warn(name+" not reachable, retrying", map[string]interface{}{
				"attempt": n + 1,
				"error":   err.Error(),
			})
		}),
	)
	if err != nil {
		return fmt.Errorf("connect %s: %w", name, err)
	}
	a.Logger.Info(name+" connected", nil)
	return nil
}

// Router returns the HTTP API served by the worker manager.
func (a *App) Router() http.Handler {
	return api.NewRouter(api.Options{
		Mode:       a.Config.Server.Mode,
		Asker:      a.Assistant,
		History:    a.History,
		Translator: a.Translation,
		Checks:     a.Checks(),
		Logger:     a.Logger,
	})
}

// Checks returns the readiness probes of the dependencies in use.
func (a *App) Checks() map[string]api.Check {
	checks := map[string]api.Check{}
	if a.Redis != nil {
		checks["redis"] = a.Redis.Ping
	}
	if a.Postgres != nil {
		checks["postgres"] = a.Postgres.Ping
	}
	return checks
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.Postgres != nil {
		_ = a.Postgres.Close()
	}
	if a.Observability != nil {
		a.Observability.Shutdown()
	}
}
