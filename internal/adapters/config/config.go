package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Reasoning     ReasoningConfig
	Sentiment     SentimentConfig
	Redis         RedisConfig
	Analysis      AnalysisConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"rag-analysis"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:""`
	Port            int           `envconfig:"SERVER_PORT" default:"8010"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReasoningConfig configures the LLM gateway adapter. GatewayURL accepts a
// bare host, a gateway root (…/v1), or a full completion endpoint; the
// client normalizes all three forms.
type ReasoningConfig struct {
	GatewayURL    string        `envconfig:"LLM_GATEWAY_URL" default:"http://localhost:8002/v1/chat/completions"`
	Model         string        `envconfig:"LLM_MODEL" default:"deepseek-v3"`
	Timeout       time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	MaxTokens     int           `envconfig:"LLM_MAX_TOKENS" default:"0"`
	RatePerMinute float64       `envconfig:"LLM_RATE_PER_MINUTE" default:"120"`
	RateBurst     int           `envconfig:"LLM_RATE_BURST" default:"10"`
}

type SentimentConfig struct {
	Enabled     bool          `envconfig:"SENTIMENT_ENABLED" default:"true"`
	BaseURL     string        `envconfig:"SENTIMENT_API_URL" default:"http://localhost:8000"`
	Timeout     time.Duration `envconfig:"SENTIMENT_TIMEOUT" default:"30s"`
	WindowHours int           `envconfig:"SENTIMENT_WINDOW_HOURS" default:"24"`
	Limit       int           `envconfig:"SENTIMENT_LIMIT" default:"50"`
}

type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AnalysisConfig struct {
	RunTimeout   time.Duration `envconfig:"ANALYSIS_RUN_TIMEOUT" default:"90s"`
	CacheEnabled bool          `envconfig:"ANALYSIS_CACHE_ENABLED" default:"true"`
	CacheTTL     time.Duration `envconfig:"ANALYSIS_CACHE_TTL" default:"3m"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"development"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	return &cfg, nil
}
