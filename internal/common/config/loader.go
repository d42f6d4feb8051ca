// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Known provider names.
var (
	aiProviders          = []string{"openai", "azure", "none"}
	translationProviders = []string{"static", "google", "deepl"}
	cacheStores          = []string{"memory", "redis"}
)

// Load reads configs/config.yaml, merges configs/config.{APP_ENVIRONMENT}.yaml
// when present and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every scalar key so AutomaticEnv can override it
// (GATEWAY_BASE_URL, AI_PROVIDER, TRANSLATION_CACHE_TTL, ...).
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "childcare-assistant")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("camunda.broker_address", "")
	v.SetDefault("camunda.max_jobs_active", 10)
	v.SetDefault("camunda.timeout", 30000)
	v.SetDefault("camunda.request_timeout", 30000)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("gateway.base_url", "")
	v.SetDefault("gateway.auth_token", "")
	v.SetDefault("gateway.timeout", 15000)

	v.SetDefault("ai.provider", "none")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.deployment", "")
	v.SetDefault("ai.api_version", "2024-02-01")
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.timeout", 30000)

	v.SetDefault("translation.provider", "static")
	v.SetDefault("translation.base_url", "")
	v.SetDefault("translation.api_key", "")
	v.SetDefault("translation.timeout", 10000)
	v.SetDefault("translation.cache_ttl", int((24 * time.Hour).Milliseconds()))
	v.SetDefault("translation.cache_store", "memory")
	v.SetDefault("translation.cache_key", "translation_cache")

	v.SetDefault("conversation.history_limit", 10)

	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "")
	v.SetDefault("database.postgres.user", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("notifications.aws.region", "us-east-1")
	v.SetDefault("notifications.email.enabled", false)
	v.SetDefault("notifications.email.from_email", "")
	v.SetDefault("notifications.sms.enabled", false)
	v.SetDefault("notifications.sms.sender_id", "")

	v.SetDefault("observability.service_name", "childcare-assistant")
	v.SetDefault("observability.jaeger_endpoint", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// loadEnvFile loads the first .env found walking from the working directory
// up to the module root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from their conventional variable names.
func overrideEmptyConfig(cfg *Config) {
	overrides := []struct {
		target *string
		env    string
	}{
		{&cfg.AI.APIKey, "OPENAI_API_KEY"},
		{&cfg.AI.APIKey, "AZURE_OPENAI_API_KEY"},
		{&cfg.Translation.APIKey, "GOOGLE_TRANSLATE_API_KEY"},
		{&cfg.Translation.APIKey, "DEEPL_API_KEY"},
		{&cfg.Gateway.AuthToken, "GATEWAY_TOKEN"},
		{&cfg.Database.Postgres.User, "DB_USER"},
		{&cfg.Database.Postgres.Password, "DB_PASSWORD"},
		{&cfg.Database.Redis.Password, "REDIS_PASSWORD"},
	}

	for _, o := range overrides {
		if *o.target != "" {
			continue
		}
		if val := os.Getenv(o.env); val != "" {
			*o.target = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	cfg.Translation.Provider = strings.ToLower(strings.TrimSpace(cfg.Translation.Provider))
	cfg.Translation.CacheStore = strings.ToLower(strings.TrimSpace(cfg.Translation.CacheStore))

	if cfg.AI.BaseURL == "" && cfg.AI.Provider == "openai" {
		cfg.AI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Translation.BaseURL == "" {
		switch cfg.Translation.Provider {
		case "google":
			cfg.Translation.BaseURL = "https://translation.googleapis.com"
		case "deepl":
			cfg.Translation.BaseURL = "https://api-free.deepl.com"
		}
	}
	if cfg.Conversation.HistoryLimit <= 0 {
		cfg.Conversation.HistoryLimit = 10
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Workers == nil {
		cfg.Workers = make(map[string]WorkerConfig)
	}
	for _, name := range WorkerNames {
		if _, ok := cfg.Workers[name]; !ok {
			cfg.Workers[name] = WorkerConfig{Enabled: true}
		}
	}
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url is required")
	}
	if !oneOf(cfg.AI.Provider, aiProviders) {
		return fmt.Errorf("ai.provider %q is not one of %v", cfg.AI.Provider, aiProviders)
	}
	if cfg.AI.Provider == "azure" && (cfg.AI.BaseURL == "" || cfg.AI.Deployment == "") {
		return fmt.Errorf("ai.base_url and ai.deployment are required for azure")
	}
	if !oneOf(cfg.Translation.Provider, translationProviders) {
		return fmt.Errorf("translation.provider %q is not one of %v", cfg.Translation.Provider, translationProviders)
	}
	if !oneOf(cfg.Translation.CacheStore, cacheStores) {
		return fmt.Errorf("translation.cache_store %q is not one of %v", cfg.Translation.CacheStore, cacheStores)
	}
	if cfg.Translation.CacheTTL <= 0 {
		return fmt.Errorf("translation.cache_ttl must be positive")
	}
	if cfg.Translation.CacheStore == "redis" && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when translation.cache_store is redis")
	}
	if cfg.Database.Postgres.Enabled() && cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required when database.postgres.host is set")
	}
	return nil
}

// ValidateForWorkers checks the settings only the worker manager needs.
func ValidateForWorkers(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
