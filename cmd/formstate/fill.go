package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/internal/metrics"
	"github.com/goliatone/go-formstate/pkg/customer"
	"github.com/goliatone/go-formstate/pkg/pricing"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func newFillCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the customer form interactively",
		Long:  `Prompts for every customer field, asks again until each answer is valid, then saves and prints the form values.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := fillOptions{}
			opts.format, _ = cmd.Flags().GetString("format")
			opts.populate, _ = cmd.Flags().GetBool("populate")
			opts.metricsAddr, _ = cmd.Flags().GetString("metrics-addr")
			return a.runFill(cmd, nil, opts)
		},
	}
	cmd.Flags().StringP("format", "f", "json", "Output format (json, yaml, form, pretty)")
	cmd.Flags().Bool("populate", false, "Start from the built-in test data")
	cmd.Flags().String("metrics-addr", "", "Serve session metrics at http://<addr>/metrics while filling")
	return cmd
}

type fillOptions struct {
	format      string
	populate    bool
	metricsAddr string
}

// runFill prompts through driver, or the terminal when driver is nil.
func (a *app) runFill(cmd *cobra.Command, driver tui.PromptDriver, opts fillOptions) error {
	outputFormat, ok := tui.ParseOutputFormat(opts.format)
	if !ok {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	if driver == nil {
		driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
	}

	var m *metrics.Metrics
	if opts.metricsAddr != "" {
		var err error
		if m, err = metrics.New(nil); err != nil {
			return err
		}
		srv, err := m.Listen(opts.metricsAddr)
		if err != nil {
			return err
		}
		a.logger.Info("metrics listening", "addr", srv.Addr())
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				a.logger.Warn("metrics shutdown", "error", err)
			}
		}()
	}

	session, err := a.session(m)
	if err != nil {
		return err
	}
	defer session.Close()

	if opts.populate {
		if err := session.PopulateTestData(); err != nil {
			return err
		}
	}

	renderer := customerTUI(driver, outputFormat)
	if err := renderer.Fill(cmd.Context(), session); err != nil {
		return err
	}
	sub, err := session.Save()
	if err != nil {
		return err
	}
	a.logger.Info("fill complete", "total", sub.Total)

	out, err := renderer.Render(cmd.Context(), session.Snapshot(), render.RenderOptions{Title: a.cfg.Render.Title})
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(append(out, '\n'))
	return err
}

func customerTUI(driver tui.PromptDriver, format tui.OutputFormat) *tui.Renderer {
	phases := make([]string, 0, len(pricing.Phases()))
	for _, phase := range pricing.Phases() {
		phases = append(phases, phase.String())
	}
	return tui.New(
		tui.WithPromptDriver(driver),
		tui.WithOutputFormat(format),
		tui.WithChoices(customer.FieldNotification, customer.NotifyEmail, customer.NotifyText),
		tui.WithChoices(customer.FieldAddressType, customer.AddressHome, customer.AddressWork),
		tui.WithNumeric(customer.FieldRating),
		tui.WithFlagGroup("Phases", phases...),
		tui.WithVisibility(customer.Visibility(), nil),
		// card expansion is view state
		tui.WithSkip(func(path string) bool {
			return strings.HasSuffix(path, "Expanded")
		}),
		tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "}),
	)
}
