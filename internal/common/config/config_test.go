package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
gateway:
  base_url: http://gateway.local/api
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://gateway.local/api", cfg.Gateway.BaseURL)
	assert.Equal(t, "none", cfg.AI.Provider)
	assert.Equal(t, "static", cfg.Translation.Provider)
	assert.Equal(t, "memory", cfg.Translation.CacheStore)
	assert.Equal(t, 24*time.Hour, GetDuration(cfg.Translation.CacheTTL))
	assert.Equal(t, 10, cfg.Conversation.HistoryLimit)
	assert.False(t, cfg.Database.Postgres.Enabled())

	for _, name := range WorkerNames {
		w := GetWorkerConfig(cfg, name)
		assert.True(t, w.Enabled, name)
		assert.Equal(t, 5, w.MaxJobsActive, name)
	}
}

func TestLoadFromFile_EnvExpansionAndOverride(t *testing.T) {
	t.Setenv("TEST_GATEWAY_URL", "http://expanded.local")
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	path := writeConfig(t, `
gateway:
  base_url: ${TEST_GATEWAY_URL}
workers:
  deliver-report:
    enabled: false
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://expanded.local", cfg.Gateway.BaseURL)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "https://api.openai.com/v1", cfg.AI.BaseURL)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.False(t, IsWorkerEnabled(cfg, WorkerDeliverReport))
	assert.True(t, IsWorkerEnabled(cfg, WorkerFetchData))
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing gateway",
			body:    "ai:\n  provider: none\n",
			wantErr: "gateway.base_url is required",
		},
		{
			name:    "unknown ai provider",
			body:    "gateway:\n  base_url: http://g\nai:\n  provider: llama\n",
			wantErr: "ai.provider",
		},
		{
			name:    "unknown translation provider",
			body:    "gateway:\n  base_url: http://g\ntranslation:\n  provider: bing\n",
			wantErr: "translation.provider",
		},
		{
			name:    "redis store without address",
			body:    "gateway:\n  base_url: http://g\ntranslation:\n  cache_store: redis\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "azure without deployment",
			body:    "gateway:\n  base_url: http://g\nai:\n  provider: azure\n  base_url: https://x.openai.azure.com\n",
			wantErr: "ai.deployment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateForWorkers(t *testing.T) {
	assert.Error(t, ValidateForWorkers(&Config{}))
	assert.NoError(t, ValidateForWorkers(&Config{Camunda: CamundaConfig{BrokerAddress: "localhost:26500"}}))
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "assistant", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=assistant sslmode=disable", p.GetDSN())
}
