package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestDemoPrintsSubmission(t *testing.T) {
	stdout, _, err := execute(t, "demo", "--phases", "2,phase6")
	require.NoError(t, err)

	var got struct {
		Value     map[string]any `json:"value"`
		Total     int64          `json:"total"`
		Breakdown []struct {
			Phase string `json:"phase"`
			Price int64  `json:"price"`
		} `json:"breakdown"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))

	assert.Equal(t, int64(174547), got.Total)
	require.Len(t, got.Breakdown, 2)
	assert.Equal(t, "phase2", got.Breakdown[0].Phase)
	assert.Equal(t, "phase6", got.Breakdown[1].Phase)
	assert.Equal(t, "Jack", got.Value["firstName"])
	// company is not part of the test data
	assert.Equal(t, "invalid", got.Status)
}

func TestDemoYAMLWithMetrics(t *testing.T) {
	stdout, stderr, err := execute(t, "demo", "--format", "yaml", "--metrics", "--log-level", "error")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 0, got["total"])

	assert.Contains(t, stderr, "formstate_saves_total 1\n")
	assert.Contains(t, stderr, "formstate_last_save_total 0\n")
}

func TestDemoRejectsUnknownPhase(t *testing.T) {
	_, _, err := execute(t, "demo", "--phases", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown phase")
}

func TestDemoUsesConfigPrices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formstate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prices:\n  phase4: 1000\n"), 0o644))

	stdout, _, err := execute(t, "--config", path, "demo", "--phases", "4")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"total": 1000`)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "--log-level", "loud", "schema")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown level")
}

func TestRenderWritesHTML(t *testing.T) {
	stdout, _, err := execute(t, "render")
	require.NoError(t, err)
	assert.Contains(t, stdout, `<h1 class="formstate-header">Customer</h1>`)
	assert.Contains(t, stdout, `data-theme="default" data-variant="light"`)
	assert.Contains(t, stdout, `value="Mermaid Quay"`)

	path := filepath.Join(t.TempDir(), "form.html")
	stdout, _, err = execute(t, "render", "--populate=false", "--output", path)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `name="firstName" value=""`)
}

func TestRenderSelectsRendererByName(t *testing.T) {
	stdout, _, err := execute(t, "render", "--renderer", "tui", "--format", "pretty")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "# Customer\n"), stdout)
	assert.Contains(t, stdout, "addresses.0.street1=Mermaid Quay\n")
	assert.NotContains(t, stdout, "<form")

	stdout, _, err = execute(t, "render")
	require.NoError(t, err)
	assert.Contains(t, stdout, `<p class="formstate-help" id="fs-emailGroup-confirmEmail-help">Type the <strong>same</strong> address again.</p>`)

	_, _, err = execute(t, "render", "--renderer", "pdf")
	require.ErrorIs(t, err, render.ErrUnknownRenderer)
}

func TestDemoValidatesAgainstSchema(t *testing.T) {
	_, _, err := execute(t, "demo", "--validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submission does not match schema")

	stdout, _, err := execute(t, "demo", "--validate", "--set", "company=Torchwood,rating=5", "--phases", "1")
	require.NoError(t, err)

	var got struct {
		Value  map[string]any `json:"value"`
		Total  int64          `json:"total"`
		Status string         `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "valid", got.Status)
	assert.Equal(t, "Torchwood", got.Value["company"])
	assert.EqualValues(t, 5, got.Value["rating"])
	assert.Equal(t, int64(46048), got.Total)
}

func TestParseScalar(t *testing.T) {
	for raw, want := range map[string]any{
		"Torchwood":          "Torchwood",
		"5":                  5,
		"true":               true,
		"":                   "",
		"jack@torchwood.com": "jack@torchwood.com",
		"a: b":               "a: b",
	} {
		got, err := parseScalar(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got, raw)
	}
}

func TestSchemaPrintsOpenAPIDocument(t *testing.T) {
	stdout, _, err := execute(t, "schema")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	components, ok := doc["components"].(map[string]any)
	require.True(t, ok)
	schemas, ok := components["schemas"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, schemas, "Customer")
}

// defaultsDriver accepts every default, answering Input prompts listed in
// answers instead.
type defaultsDriver struct {
	answers map[string]string
	calls   int
}

func (d *defaultsDriver) step() error {
	d.calls++
	if d.calls > 200 {
		return errors.New("too many prompts")
	}
	return nil
}

func (d *defaultsDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	if answer, ok := d.answers[cfg.Message]; ok {
		return answer, d.step()
	}
	return cfg.Default, d.step()
}

func (d *defaultsDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	return cfg.Default, d.step()
}

func (d *defaultsDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	return cfg.DefaultIndex, d.step()
}

func (d *defaultsDriver) MultiSelect(_ context.Context, cfg tui.SelectConfig) ([]int, error) {
	return cfg.Defaults, d.step()
}

func (d *defaultsDriver) Info(context.Context, string) error { return nil }

func TestFillWithPopulatedData(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newFillCmd(&app{})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetContext(context.Background())

	a := &app{}
	require.NoError(t, a.setup(cmd))

	driver := &defaultsDriver{answers: map[string]string{"Company": "Torchwood"}}
	require.NoError(t, a.runFill(cmd, driver, fillOptions{format: "pretty", populate: true, metricsAddr: "127.0.0.1:0"}))

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "# Customer\n"), out)
	assert.Contains(t, out, "firstName=Jack\n")
	assert.Contains(t, out, "company=Torchwood\n")
	assert.Contains(t, out, "addresses.0.street1=Mermaid Quay\n")
	assert.Contains(t, stderr.String(), "fill complete")
	assert.Contains(t, stderr.String(), "metrics listening")
}

func TestFillRejectsUnknownFormat(t *testing.T) {
	cmd := newFillCmd(&app{})
	cmd.SetContext(context.Background())
	a := &app{}
	require.NoError(t, a.setup(cmd))
	err := a.runFill(cmd, &defaultsDriver{}, fillOptions{format: "xml"})
	require.Error(t, err)
}
