package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/internal/logging"
	"github.com/goliatone/go-formstate/internal/metrics"
	"github.com/goliatone/go-formstate/pkg/customer"
)

// app carries what the persistent pre-run resolves for every command.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "formstate",
		Short:         "Formstate drives the customer form engine from the terminal",
		Long:          `Formstate builds the customer form tree, fills it from test data or prompts, and prints submissions, HTML or the OpenAPI schema.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config")

	rootCmd.AddCommand(
		newDemoCmd(a),
		newFillCmd(a),
		newRenderCmd(a),
		newSchemaCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level, cfg.Log.Format)
	return nil
}

// session opens a customer session configured from the loaded config. m may
// be nil.
func (a *app) session(m *metrics.Metrics) (*customer.Session, error) {
	prices, err := a.cfg.PriceTable()
	if err != nil {
		return nil, err
	}
	opts := []customer.Option{
		customer.WithDebounce(a.cfg.Debounce),
		customer.WithLogger(a.logger),
		customer.WithMessages(a.cfg.MessageTable()),
		customer.WithPrices(prices),
	}
	if m != nil {
		opts = append(opts, customer.WithHooks(m.Hooks()))
	}
	return customer.New(opts...), nil
}
