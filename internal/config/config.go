// Package config loads droe-view settings from defaults, a YAML file, a
// .env file and DROE_ environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/droe-core/droe-view/internal/core/model"
	"github.com/droe-core/droe-view/internal/util"
)

// EnvPrefix marks environment overrides. A double underscore separates
// nesting levels: DROE_API__BASE_URL sets api.base_url.
const EnvPrefix = "DROE_"

type Config struct {
	API       APIConfig       `koanf:"api" yaml:"api"`
	Log       LogConfig       `koanf:"log" yaml:"log"`
	Display   DisplayConfig   `koanf:"display" yaml:"display"`
	Interview InterviewConfig `koanf:"interview" yaml:"interview"`
	Cards     CardsConfig     `koanf:"cards" yaml:"cards"`
	Timeline  TimelineConfig  `koanf:"timeline" yaml:"timeline"`
}

type APIConfig struct {
	BaseURL string `koanf:"base_url" yaml:"base_url"`
	// Timeout bounds each request; zero means no timeout.
	Timeout   time.Duration `koanf:"timeout" yaml:"timeout"`
	UserAgent string        `koanf:"user_agent" yaml:"user_agent"`
}

type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
	File   string `koanf:"file" yaml:"file"`
}

type DisplayConfig struct {
	Locale     string `koanf:"locale" yaml:"locale"`
	Timezone   string `koanf:"timezone" yaml:"timezone"`
	DateFormat string `koanf:"date_format" yaml:"date_format"`
	// Color is auto, always or never.
	Color string `koanf:"color" yaml:"color"`
}

type InterviewConfig struct {
	// StagesFile replaces the built-in stage table when set.
	StagesFile   string `koanf:"stages_file" yaml:"stages_file"`
	InitialStage string `koanf:"initial_stage" yaml:"initial_stage"`
}

type CardsConfig struct {
	Types []string `koanf:"types" yaml:"types"`
}

type TimelineConfig struct {
	Types []string `koanf:"types" yaml:"types"`
	// DetailCache is how many event details are kept in memory. The default
	// 0 refetches the detail on every open.
	DetailCache int `koanf:"detail_cache" yaml:"detail_cache"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:5000",
			UserAgent: "droe-view",
		},
		Log: LogConfig{
			Level:  "info",
			Format: string(util.FormatText),
			File:   "~/.droe-view/logs/app.log",
		},
		Display: DisplayConfig{
			Locale:     "en",
			Timezone:   "Local",
			DateFormat: util.DefaultDateLayout,
			Color:      "auto",
		},
		Interview: InterviewConfig{
			InitialStage: "foundations",
		},
		Cards: CardsConfig{
			Types: append([]string(nil), model.DefaultCardTypes...),
		},
		Timeline: TimelineConfig{
			Types:       append([]string(nil), model.DefaultEventTypes...),
			DetailCache: 0,
		},
	}
}

// LoadOptions select the sources Load reads.
type LoadOptions struct {
	// File is the YAML config path. A missing file is an error only when
	// Required is set.
	File     string
	Required bool
	// EnvFile is a dotenv file merged into the environment when present.
	EnvFile string
}

// Load builds the configuration and validates it.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if opts.File != "" {
		if _, err := os.Stat(opts.File); err == nil {
			if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", opts.File, err)
			}
		} else if !os.IsNotExist(err) || opts.Required {
			return nil, fmt.Errorf("accessing config %s: %w", opts.File, err)
		}
	}

	if opts.EnvFile != "" {
		// Variables already set in the environment win over the file.
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", opts.EnvFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// Lists are replaced, not merged element-wise into the defaults.
	for _, key := range []string{"cards.types", "timeline.types"} {
		if k.Exists(key) {
			cfg.clearList(key)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps DROE_API__BASE_URL to api.base_url.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func (c *Config) clearList(key string) {
	switch key {
	case "cards.types":
		c.Cards.Types = nil
	case "timeline.types":
		c.Timeline.Types = nil
	}
}

func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Display.Color = strings.ToLower(strings.TrimSpace(c.Display.Color))
	c.Cards.Types = splitList(c.Cards.Types)
	c.Timeline.Types = splitList(c.Timeline.Types)
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

var validColors = map[string]bool{"auto": true, "always": true, "never": true}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: must be an http or https URL", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid api.timeout %s: must not be negative", c.API.Timeout)
	}
	if !util.ValidLogLevel(c.Log.Level) {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != string(util.FormatText) && c.Log.Format != string(util.FormatJSON) {
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}
	if _, err := time.LoadLocation(c.Display.Timezone); err != nil {
		return fmt.Errorf("invalid display.timezone %q: %w", c.Display.Timezone, err)
	}
	if strings.TrimSpace(c.Display.DateFormat) == "" {
		return fmt.Errorf("display.date_format is required")
	}
	if !validColors[c.Display.Color] {
		return fmt.Errorf("invalid display.color %q: must be auto, always or never", c.Display.Color)
	}
	if strings.TrimSpace(c.Interview.InitialStage) == "" {
		return fmt.Errorf("interview.initial_stage is required")
	}
	if len(c.Cards.Types) == 0 {
		return fmt.Errorf("cards.types must list at least one type")
	}
	if len(c.Timeline.Types) == 0 {
		return fmt.Errorf("timeline.types must list at least one type")
	}
	if c.Timeline.DetailCache < 0 {
		return fmt.Errorf("invalid timeline.detail_cache %d: must not be negative", c.Timeline.DetailCache)
	}
	return nil
}

// UseColor resolves the color setting against the output file.
func (c *Config) UseColor(f *os.File) bool {
	switch c.Display.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return util.ColorEnabled(f)
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}
