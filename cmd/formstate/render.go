package main

import (
	"fmt"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/pkg/customer"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/html"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the customer form as HTML or text",
		Long:  `Renders the customer form with the named renderer: html for a themed HTML form, tui for the values as json, yaml, form or pretty text.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := renderOptions{}
			opts.renderer, _ = cmd.Flags().GetString("renderer")
			opts.format, _ = cmd.Flags().GetString("format")
			opts.populate, _ = cmd.Flags().GetBool("populate")
			opts.showAll, _ = cmd.Flags().GetBool("show-all")
			opts.output, _ = cmd.Flags().GetString("output")
			return a.runRender(cmd, opts)
		},
	}
	cmd.Flags().StringP("renderer", "r", "html", "Renderer to use (html, tui)")
	cmd.Flags().StringP("format", "f", "json", "Output format of the tui renderer (json, yaml, form, pretty)")
	cmd.Flags().Bool("populate", true, "Fill the form with the built-in test data first")
	cmd.Flags().Bool("show-all", false, "Show messages on fields the user has not touched")
	cmd.Flags().StringP("output", "o", "", "Output file (stdout if empty)")
	return cmd
}

type renderOptions struct {
	renderer string
	format   string
	populate bool
	showAll  bool
	output   string
}

func (a *app) runRender(cmd *cobra.Command, opts renderOptions) error {
	registry, err := a.renderers(opts.format)
	if err != nil {
		return err
	}

	session, err := a.session(nil)
	if err != nil {
		return err
	}
	defer session.Close()

	if opts.populate {
		if err := session.PopulateTestData(); err != nil {
			return err
		}
	}

	out, err := registry.Render(cmd.Context(), opts.renderer, session.Snapshot(), render.RenderOptions{
		Title:   a.cfg.Render.Title,
		ShowAll: opts.showAll,
	})
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, out.Body, 0o644); err != nil {
			return err
		}
		a.logger.Info("form written", "path", opts.output, "renderer", opts.renderer, "content_type", out.ContentType)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(out.Body)
	return err
}

// renderers registers every renderer the CLI offers. format applies to the
// tui renderer.
func (a *app) renderers(format string) (*render.Registry, error) {
	outputFormat, ok := tui.ParseOutputFormat(format)
	if !ok {
		return nil, fmt.Errorf("unknown format %q", format)
	}
	htmlRenderer, err := html.New(
		html.WithTheme(themeConfig(a.cfg.Render)),
		html.WithInputType(customer.FieldRating, "number"),
		html.WithChoices(customer.FieldNotification, customer.NotifyEmail, customer.NotifyText),
		html.WithChoices(customer.FieldAddressType, customer.AddressHome, customer.AddressWork),
		html.WithHelp(customer.FieldConfirmEmail, "Type the <strong>same</strong> address again."),
		html.WithHelp(customer.FieldRating, "Optional, from <em>1</em> to <em>5</em>."),
		html.WithVisibility(customer.Visibility(), nil),
	)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(htmlRenderer, customerTUI(nil, outputFormat))
}

func themeConfig(cfg config.RenderConfig) *theme.RendererConfig {
	return &theme.RendererConfig{
		Theme:   cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  cfg.Tokens,
		CSSVars: cfg.CSSVars,
	}
}
