package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

const envPrefix = "RELAY_"

type Config struct {
	Primary     Primary           `koanf:"primary"`
	Server      ServerConfig      `koanf:"server"`
	Logger      LoggerConfig      `koanf:"logger"`
	Retry       RetryConfig       `koanf:"retry"`
	Provider    ProviderConfig    `koanf:"provider"`
	LinkedIn    LinkedInConfig    `koanf:"linkedin"`
	Quora       QuoraConfig       `koanf:"quora"`
	DeliveryLog DeliveryLogConfig `koanf:"delivery_log"`
	Database    DatabaseConfig    `koanf:"database" validate:"-"`
	Redis       RedisConfig       `koanf:"redis" validate:"-"`
	Metrics     MetricsConfig     `koanf:"metrics"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// Environment folds the configured env into the two tags reported by the
// status probe. It never changes what is sent to a provider.
func (p Primary) Environment() string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(p.Env)), "prod") {
		return "prod"
	}
	return "dev"
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
	MaxBodyBytes   int64         `koanf:"max_body_bytes" validate:"required,min=1"`
}

type RetryConfig struct {
	BaseDelay   time.Duration `koanf:"base_delay" validate:"required"`
	MaxAttempts int           `koanf:"max_attempts" validate:"required,min=1,max=10"`
}

type ProviderConfig struct {
	Timeout time.Duration `koanf:"timeout" validate:"required"`
}

// Tokens are optional at load time: a missing token is reported per request
// as missing_token so the status probe can still answer.
type LinkedInConfig struct {
	Token    string `koanf:"token"`
	Endpoint string `koanf:"endpoint" validate:"required,url"`
	Version  string `koanf:"version" validate:"required"`
}

type QuoraConfig struct {
	Token    string `koanf:"token"`
	PixelID  string `koanf:"pixel_id" validate:"required"`
	Endpoint string `koanf:"endpoint" validate:"required,url"`
}

type DeliveryLogConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=none postgres redis"`
}

type RedisConfig struct {
	URL    string `koanf:"url"`
	Stream string `koanf:"stream"`
	MaxLen int64  `koanf:"max_len"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env":                 "dev",
		"server.port":                 "8080",
		"server.read_timeout":         "10s",
		"server.write_timeout":        "15s",
		"server.idle_timeout":         "60s",
		"server.request_timeout":      "10s",
		"server.max_body_bytes":       65536,
		"logger.level":                "info",
		"retry.base_delay":            "250ms",
		"retry.max_attempts":          3,
		"provider.timeout":            "3s",
		"linkedin.endpoint":           "https://api.linkedin.com/rest/conversionEvents",
		"linkedin.version":            "202405",
		"quora.pixel_id":              "3b47052b877e48a5b43d5f0d775d8e06",
		"quora.endpoint":              "https://q.quora.com/conversion_api/event",
		"delivery_log.driver":         "none",
		"database.port":               5432,
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     5,
		"database.max_idle_conns":     1,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"redis.stream":                "capi:deliveries",
		"redis.max_len":               100000,
		"metrics.enabled":             true,
	}
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		logger.Error("failed to load config defaults", "error", err)
		return nil, err
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	if err := mainConfig.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// RetryBudget is the longest one dispatch can spend on provider calls and
// backoff sleeps when every attempt runs into the provider timeout.
func (c *Config) RetryBudget() time.Duration {
	budget := time.Duration(c.Retry.MaxAttempts) * c.Provider.Timeout
	for attempt := 1; attempt < c.Retry.MaxAttempts; attempt++ {
		budget += c.Retry.BaseDelay << (attempt - 1)
	}
	return budget
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return err
	}

	if budget := c.RetryBudget(); c.Server.RequestTimeout < budget {
		return fmt.Errorf(
			"server.request_timeout %s is shorter than the retry budget %s (%d attempts x provider.timeout %s plus backoff)",
			c.Server.RequestTimeout, budget, c.Retry.MaxAttempts, c.Provider.Timeout,
		)
	}

	switch c.DeliveryLog.Driver {
	case "postgres":
		return validate.Struct(c.Database)
	case "redis":
		return validate.Var(c.Redis.URL, "required")
	}

	return nil
}
