package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droe-core/droe-view/internal/core/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, "foundations", cfg.Interview.InitialStage)
	assert.Equal(t, model.DefaultCardTypes, cfg.Cards.Types)
	assert.Zero(t, cfg.Timeline.DetailCache, "details are refetched on every open unless a cache is configured")
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "missing.yaml")})
	require.NoError(t, err)
	assert.Equal(t, Default().API, cfg.API)

	_, err = Load(LoadOptions{File: filepath.Join(t.TempDir(), "missing.yaml"), Required: true})
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
api:
  base_url: https://droe.example.com/
  timeout: 15s
log:
  level: DEBUG
  format: json
display:
  locale: de
  color: never
cards:
  types: [memory, person]
`)

	cfg, err := Load(LoadOptions{File: path, Required: true})
	require.NoError(t, err)
	assert.Equal(t, "https://droe.example.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "de", cfg.Display.Locale)
	assert.Equal(t, []string{"memory", "person"}, cfg.Cards.Types)
	assert.Equal(t, model.DefaultEventTypes, cfg.Timeline.Types)
	assert.False(t, cfg.UseColor(os.Stdout))
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "api:\n  base_url: http://from-file:5000\n")
	t.Setenv("DROE_API__BASE_URL", "http://from-env:5000")
	t.Setenv("DROE_TIMELINE__TYPES", "event, memory ,")

	cfg, err := Load(LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:5000", cfg.API.BaseURL)
	assert.Equal(t, []string{"event", "memory"}, cfg.Timeline.Types)
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "DROE_INTERVIEW__INITIAL_STAGE=childhood\nDROE_LOG__LEVEL=warn\n")
	t.Setenv("DROE_LOG__LEVEL", "error")
	t.Cleanup(func() { os.Unsetenv("DROE_INTERVIEW__INITIAL_STAGE") })

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "childhood", cfg.Interview.InitialStage)
	assert.Equal(t, "error", cfg.Log.Level, "real environment wins over .env")

	_, err = Load(LoadOptions{EnvFile: filepath.Join(dir, "missing.env")})
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "bad_scheme", mutate: func(c *Config) { c.API.BaseURL = "ftp://x" }, wantErr: "api.base_url"},
		{name: "no_host", mutate: func(c *Config) { c.API.BaseURL = "http://" }, wantErr: "api.base_url"},
		{name: "negative_timeout", mutate: func(c *Config) { c.API.Timeout = -time.Second }, wantErr: "api.timeout"},
		{name: "log_level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "log_format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
		{name: "timezone", mutate: func(c *Config) { c.Display.Timezone = "Mars/Olympus" }, wantErr: "display.timezone"},
		{name: "date_format", mutate: func(c *Config) { c.Display.DateFormat = " " }, wantErr: "date_format"},
		{name: "color", mutate: func(c *Config) { c.Display.Color = "sometimes" }, wantErr: "display.color"},
		{name: "initial_stage", mutate: func(c *Config) { c.Interview.InitialStage = "" }, wantErr: "initial_stage"},
		{name: "card_types", mutate: func(c *Config) { c.Cards.Types = nil }, wantErr: "cards.types"},
		{name: "timeline_types", mutate: func(c *Config) { c.Timeline.Types = nil }, wantErr: "timeline.types"},
		{name: "detail_cache", mutate: func(c *Config) { c.Timeline.DetailCache = -1 }, wantErr: "detail_cache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("DROE_LOG__FORMAT", "xml")
	_, err := Load(LoadOptions{})
	assert.ErrorContains(t, err, "log.format")
}

func TestUseColor(t *testing.T) {
	cfg := Default()
	cfg.Display.Color = "always"
	assert.True(t, cfg.UseColor(nil))
	cfg.Display.Color = "never"
	assert.False(t, cfg.UseColor(nil))
}

func TestYAML(t *testing.T) {
	data, err := Default().YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url: http://localhost:5000")
	assert.Contains(t, string(data), "initial_stage: foundations")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "api.base_url", envKey("DROE_API__BASE_URL"))
	assert.Equal(t, "log.level", envKey("DROE_LOG__LEVEL"))
}
