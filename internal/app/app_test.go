package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"childcare-assistant/internal/common/config"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/translation"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(gatewayURL string) *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "childcare-assistant-test"
	cfg.Gateway.BaseURL = gatewayURL
	cfg.Gateway.Timeout = 2000
	cfg.AI.Provider = "none"
	cfg.Translation.Provider = "static"
	cfg.Translation.CacheStore = "memory"
	cfg.Translation.CacheTTL = 60000
	cfg.Conversation.HistoryLimit = 10
	cfg.Workers = map[string]config.WorkerConfig{}
	for _, name := range config.WorkerNames {
		cfg.Workers[name] = config.WorkerConfig{Enabled: true, MaxJobsActive: 1, Timeout: 1000}
	}
	return cfg
}

func TestNew_AnswersThroughGateway(t *testing.T) {
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"c1"},{"id":"c2"}]`))
	}))
	defer gw.Close()

	a, err := New(context.Background(), testConfig(gw.URL), logger.NewTestLogger(t))
	require.NoError(t, err)
	defer a.Close()

	reply := a.Assistant.Ask(context.Background(), "u1", "How many children are enrolled?")
	assert.Equal(t, "I found 2 children matching your search.", reply.Answer)
	assert.Empty(t, a.Checks())

	handlers, err := a.Handlers(context.Background())
	require.NoError(t, err)
	assert.Len(t, handlers, len(config.WorkerNames))
}

func TestNew_RedisTranslationCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig("http://gateway.invalid")
	cfg.Translation.CacheStore = "redis"
	cfg.Translation.CacheKey = "assistant:translations"
	cfg.Database.Redis.Address = mr.Addr()

	a, err := New(context.Background(), cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Translation.Cache().Set(context.Background(), "hello", "hallo", "de", translation.AutoSource))
	assert.True(t, mr.Exists("assistant:translations"))
	assert.Contains(t, a.Checks(), "redis")

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_RedisUnreachable(t *testing.T) {
	cfg := testConfig("http://gateway.invalid")
	cfg.Translation.CacheStore = "redis"
	cfg.Database.Redis.Address = "127.0.0.1:1"

	a := &App{Config: cfg, Logger: logger.NewTestLogger(t), ConnectAttempts: 2}
	err := a.openTranslation(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "connect redis"))
	a.Close()
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := testConfig("http://gateway.invalid")
	cfg.AI.Provider = "llama"

	_, err := New(context.Background(), cfg, logger.NewTestLogger(t))
	require.Error(t, err)
}
