// Package config loads formstate settings from YAML. Files overlay the
// defaults, so a config only needs the keys it changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/internal/logging"
	"github.com/goliatone/go-formstate/pkg/debounce"
	"github.com/goliatone/go-formstate/pkg/pricing"
	"github.com/goliatone/go-formstate/pkg/render"
)

// Config is the decoded configuration.
type Config struct {
	// Debounce is the quiet window before the email message is refreshed.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
	// Messages overrides the email message table, keyed by failure name.
	Messages map[string]string `mapstructure:"messages" yaml:"messages"`
	// Prices overrides phase prices, keyed by phase name ("phase4").
	Prices map[string]int64 `mapstructure:"prices" yaml:"prices"`
	Log    LogConfig        `mapstructure:"log" yaml:"log"`
	Render RenderConfig     `mapstructure:"render" yaml:"render"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// RenderConfig configures HTML output.
type RenderConfig struct {
	Title   string            `mapstructure:"title" yaml:"title"`
	Theme   string            `mapstructure:"theme" yaml:"theme"`
	Variant string            `mapstructure:"variant" yaml:"variant"`
	Tokens  map[string]string `mapstructure:"tokens" yaml:"tokens"`
	CSSVars map[string]string `mapstructure:"css_vars" yaml:"css_vars"`
}

// Default returns the built-in configuration.
func Default() Config {
	prices := make(map[string]int64)
	for phase, price := range pricing.DefaultPrices() {
		prices[phase.String()] = price
	}
	return Config{
		Debounce: debounce.DefaultWindow,
		Messages: map[string]string(render.EmailMessages()),
		Prices:   prices,
		Log:      LogConfig{Level: "info", Format: "text"},
		Render:   RenderConfig{Title: "Customer", Theme: "default", Variant: "light"},
	}
}

// Load reads path and overlays it on Default. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := cfg.overlay(data); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Parse overlays raw YAML on Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.overlay(data); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) overlay(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Validate checks values that decoding cannot.
func (c Config) Validate() error {
	var errs []error
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("config: debounce must not be negative, got %s", c.Debounce))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.PriceTable(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// PriceTable converts Prices into a pricing.PriceTable.
func (c Config) PriceTable() (pricing.PriceTable, error) {
	table := pricing.DefaultPrices()
	var errs []error
	for name, price := range c.Prices {
		phase, err := pricing.ParsePhase(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: prices: %w", err))
			continue
		}
		if price < 0 {
			errs = append(errs, fmt.Errorf("config: prices: %s must not be negative", name))
			continue
		}
		table[phase] = price
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return table, nil
}

// MessageTable returns the configured email messages.
func (c Config) MessageTable() render.MessageTable {
	return render.EmailMessages().Merge(c.Messages)
}
