// Package config provides layered configuration loading and validation.
//
// Values are resolved in three layers, later layers winning:
//
//  1. struct defaults
//  2. an optional YAML file
//  3. environment variables prefixed with MATCHER_, where "__" separates
//     sections (MATCHER_ENGINE__TOP_K -> engine.top_k)
package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides
const EnvPrefix = "MATCHER_"

// Config is the full service configuration
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Engine    EngineConfig    `koanf:"engine"`
	Swipe     SwipeConfig     `koanf:"swipe"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Server    ServerConfig    `koanf:"server"`
}

// LogConfig configures zerolog output
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig holds the PostgreSQL connection URL
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// RedisConfig holds the Redis connection URL
type RedisConfig struct {
	URL string `koanf:"url"`
}

// EngineConfig tunes scoring and ranking
type EngineConfig struct {
	AlgorithmVersion    string        `koanf:"algorithm_version" validate:"required"`
	TopK                int           `koanf:"top_k" validate:"gte=1,lte=500"`
	SearchRadiusKm      float64       `koanf:"search_radius_km" validate:"gt=0"`
	CollaboratorTimeout time.Duration `koanf:"collaborator_timeout"`
	Weights             types.Weights `koanf:"weights"`
}

// SwipeConfig tunes the swipe pipeline
type SwipeConfig struct {
	DefaultDailyLimit int `koanf:"default_daily_limit" validate:"gte=1"`
}

// BreakerConfig tunes the circuit breaker around collaborator calls
type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests" validate:"gte=1"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold" validate:"gte=1"`
}

// SchedulerConfig holds cron specs for maintenance jobs
type SchedulerConfig struct {
	CounterPruneSpec string `koanf:"counter_prune_spec" validate:"required"`
	StaleGaugeSpec   string `koanf:"stale_gauge_spec" validate:"required"`
}

// ServerConfig configures the health and metrics listener
type ServerConfig struct {
	Port int `koanf:"port" validate:"gte=1,lte=65535"`
	// RateLimit is requests per minute per client IP; 0 disables limiting
	RateLimit int `koanf:"rate_limit" validate:"gte=0"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Engine: EngineConfig{
			AlgorithmVersion:    "1.0",
			TopK:                50,
			SearchRadiusKm:      types.DefaultSearchRadius,
			CollaboratorTimeout: 2 * time.Second,
			Weights: types.Weights{
				Skills:     0.30,
				Experience: 0.25,
				Education:  0.10,
				Location:   0.10,
				Salary:     0.10,
				JobType:    0.05,
				Industry:   0.05,
				Culture:    0.03,
				Growth:     0.02,
			},
		},
		Swipe: SwipeConfig{
			DefaultDailyLimit: types.DefaultDailySwipeLimit,
		},
		Breaker: BreakerConfig{
			MaxRequests:      3,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
		Scheduler: SchedulerConfig{
			CounterPruneSpec: "5 0 * * *",
			StaleGaugeSpec:   "*/1 * * * *",
		},
		Server: ServerConfig{
			Port:      8080,
			RateLimit: 120,
		},
	}
}

// Load resolves configuration from defaults, the optional YAML file at path and
// the environment. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Conventional names used by the CLI and docker-compose
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.Redis.URL == "" {
		cfg.Redis.URL = os.Getenv("REDIS_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envTransform maps MATCHER_ENGINE__TOP_K to engine.top_k
func envTransform(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

// Validate checks struct tags, durations and the weight invariant
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Engine.CollaboratorTimeout <= 0 {
		return fmt.Errorf("config error: 'engine.collaborator_timeout' must be positive")
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("config error: 'breaker.timeout' must be positive")
	}
	if c.Breaker.Interval < 0 {
		return fmt.Errorf("config error: 'breaker.interval' must be non-negative")
	}

	sum := 0.0
	for _, w := range c.Engine.Weights.Slice() {
		if w < 0 {
			return fmt.Errorf("config error: 'engine.weights' must be non-negative")
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("config error: 'engine.weights' must sum to 1.0, got %.6f", sum)
	}
	return nil
}
