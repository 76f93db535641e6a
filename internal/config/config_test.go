package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/pkg/pricing"
	"github.com/goliatone/go-formstate/pkg/render"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.Debounce != time.Second {
		t.Fatalf("expected 1s debounce, got %s", cfg.Debounce)
	}
	table, err := cfg.PriceTable()
	if err != nil {
		t.Fatalf("price table: %v", err)
	}
	if diff := cmp.Diff(pricing.DefaultPrices(), table); diff != "" {
		t.Fatalf("price table mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(render.EmailMessages(), cfg.MessageTable()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formstate.yaml")
	content := `
debounce: 250ms
messages:
  email: That address looks wrong.
prices:
  phase6: 1000
log:
  level: debug
  format: json
render:
  theme: acme
  css_vars:
    --brand: "#123456"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Debounce != 250*time.Millisecond {
		t.Fatalf("unexpected debounce %s", cfg.Debounce)
	}
	wantMessages := render.MessageTable{
		"required": "Please enter your email address.",
		"email":    "That address looks wrong.",
	}
	if diff := cmp.Diff(wantMessages, cfg.MessageTable()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	table, err := cfg.PriceTable()
	if err != nil {
		t.Fatalf("price table: %v", err)
	}
	if table[pricing.Phase6] != 1000 || table[pricing.Phase4] != 76582 {
		t.Fatalf("unexpected prices %v", table)
	}
	want := config.RenderConfig{
		Title:   "Customer",
		Theme:   "acme",
		Variant: "light",
		CSSVars: map[string]string{"--brand": "#123456"},
	}
	if diff := cmp.Diff(want, cfg.Render); diff != "" {
		t.Fatalf("render config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "colour: blue\n",
		"bad duration":   "debounce: soon\n",
		"bad level":      "log:\n  level: loud\n",
		"unknown phase":  "prices:\n  phase9: 10\n",
		"negative price": "prices:\n  phase1: -5\n",
		"negative delay": "debounce: -1s\n",
		"not yaml":       "debounce: [\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := config.Parse([]byte(content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
