package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/internal/metrics"
	"github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/pricing"
)

func newDemoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Populate the customer form with test data and save it",
		Long: `Fills the customer form with the built-in test data, applies --set overrides,
selects the given phases, saves and prints the submission. With --validate the
saved value is checked against the exported OpenAPI schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := demoOptions{}
			opts.phases, _ = cmd.Flags().GetStringSlice("phases")
			opts.set, _ = cmd.Flags().GetStringToString("set")
			opts.format, _ = cmd.Flags().GetString("format")
			opts.metrics, _ = cmd.Flags().GetBool("metrics")
			opts.validate, _ = cmd.Flags().GetBool("validate")
			return a.runDemo(cmd, opts)
		},
	}
	cmd.Flags().StringSlice("phases", nil, "Phases to select, e.g. 2,phase6")
	cmd.Flags().StringToString("set", nil, "Values to write by dotted path, e.g. company=Torchwood,rating=5")
	cmd.Flags().StringP("format", "f", "json", "Output format (json, yaml)")
	cmd.Flags().Bool("metrics", false, "Print metric totals to stderr after saving")
	cmd.Flags().Bool("validate", false, "Fail when the saved value does not match the OpenAPI schema")
	return cmd
}

type demoOptions struct {
	phases   []string
	set      map[string]string
	format   string
	metrics  bool
	validate bool
}

func (a *app) runDemo(cmd *cobra.Command, opts demoOptions) error {
	var m *metrics.Metrics
	if opts.metrics {
		var err error
		if m, err = metrics.New(nil); err != nil {
			return err
		}
	}

	session, err := a.session(m)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.PopulateTestData(); err != nil {
		return err
	}
	paths := make([]string, 0, len(opts.set))
	for path := range opts.set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		value, err := parseScalar(opts.set[path])
		if err != nil {
			return fmt.Errorf("--set %s: %w", path, err)
		}
		if err := session.SetValue(path, value); err != nil {
			return err
		}
	}
	for _, name := range opts.phases {
		phase, err := pricing.ParsePhase(name)
		if err != nil {
			return err
		}
		if err := session.SetPhase(phase, true); err != nil {
			return err
		}
	}
	session.Flush()

	sub, err := session.Save()
	if err != nil {
		return err
	}
	if opts.validate {
		if err := openapi.ValidateValue(openapi.SchemaFor(session.Root()), sub.Value); err != nil {
			return fmt.Errorf("submission does not match schema: %w", err)
		}
		a.logger.Debug("submission matches schema")
	}
	if err := encode(cmd.OutOrStdout(), sub, opts.format); err != nil {
		return err
	}
	if m != nil {
		return printTotals(cmd.ErrOrStderr(), m)
	}
	return nil
}

// parseScalar reads a --set value as a YAML scalar, so 5 is a number, true a
// boolean and anything else a string.
func parseScalar(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return raw, nil
	}
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return nil, err
	}
	switch value.(type) {
	case nil, string, bool, int, float64:
		return value, nil
	default:
		return raw, nil
	}
}

func encode(w io.Writer, v any, format string) error {
	switch format {
	case "", "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func printTotals(w io.Writer, m *metrics.Metrics) error {
	totals, err := m.Totals()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s %g\n", name, totals[name]); err != nil {
			return err
		}
	}
	return nil
}
