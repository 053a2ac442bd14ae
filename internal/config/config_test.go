package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "1.0", cfg.Engine.AlgorithmVersion)
	assert.Equal(t, 50, cfg.Engine.TopK)
	assert.Equal(t, 50.0, cfg.Engine.SearchRadiusKm)
	assert.Equal(t, 2*time.Second, cfg.Engine.CollaboratorTimeout)
	assert.Equal(t, 0.30, cfg.Engine.Weights.Skills)
	assert.Equal(t, 50, cfg.Swipe.DefaultDailyLimit)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 120, cfg.Server.RateLimit)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: console
engine:
  top_k: 20
  collaborator_timeout: 500ms
database:
  url: postgres://localhost/matcher
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 20, cfg.Engine.TopK)
	assert.Equal(t, 500*time.Millisecond, cfg.Engine.CollaboratorTimeout)
	assert.Equal(t, "postgres://localhost/matcher", cfg.Database.URL)
	assert.Equal(t, "1.0", cfg.Engine.AlgorithmVersion, "unset keys keep defaults")
}

func TestLoad_EnvWins(t *testing.T) {
	path := writeConfig(t, "engine:\n  top_k: 20\n")
	t.Setenv("MATCHER_ENGINE__TOP_K", "7")
	t.Setenv("MATCHER_SWIPE__DEFAULT_DAILY_LIMIT", "25")
	t.Setenv("MATCHER_SERVER__RATE_LIMIT", "0")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Engine.TopK)
	assert.Equal(t, 25, cfg.Swipe.DefaultDailyLimit)
	assert.Equal(t, 0, cfg.Server.RateLimit)
}

func TestLoad_DatabaseURLFallback(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://fallback/db")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://fallback/db", cfg.Database.URL)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "engine: [unclosed")
	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "config error"},
		{"top_k zero", func(c *Config) { c.Engine.TopK = 0 }, "config error"},
		{"timeout zero", func(c *Config) { c.Engine.CollaboratorTimeout = 0 }, "collaborator_timeout"},
		{"weights sum", func(c *Config) { c.Engine.Weights.Skills = 0.9 }, "must sum to 1.0"},
		{"negative weight", func(c *Config) {
			c.Engine.Weights.Skills = 0.40
			c.Engine.Weights.Growth = -0.08
		}, "non-negative"},
		{"missing cron spec", func(c *Config) { c.Scheduler.CounterPruneSpec = "" }, "config error"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, "config error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "engine.top_k", envTransform("MATCHER_ENGINE__TOP_K"))
	assert.Equal(t, "engine.weights.skills", envTransform("MATCHER_ENGINE__WEIGHTS__SKILLS"))
	assert.Equal(t, "redis.url", envTransform("MATCHER_REDIS__URL"))
}
