// Command converter-client talks to the currency converter service.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/damon-houk/currency-converter-client/internal/config"
	"github.com/damon-houk/currency-converter-client/internal/infrastructure/api"
	"github.com/damon-houk/currency-converter-client/internal/infrastructure/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the dependencies shared by every command
type app struct {
	cfg      *config.Config
	logger   *logger.ZapLogger
	registry *prometheus.Registry
	client   *api.ConverterAPIClient
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "converter-client",
		Short: "Client for the currency converter service",
		Long: `converter-client converts amounts between currencies, lists the
supported currencies and overrides exchange rates on a running currency
converter service. Without a subcommand it runs the demo walkthrough.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			a.teardown()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDemo(cmd)
		},
	}

	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().String("config", "", "config file path (yaml, json, toml or .env)")
	root.PersistentFlags().String("base-url", "", "converter service base URL (overrides CONVERTER_SERVICE_URL)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newVersionCmd(),
		newDemoCmd(a),
		newConvertCmd(a),
		newCurrenciesCmd(a),
		newSetRateCmd(a),
		newResetRatesCmd(a),
		newStubServerCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	var err error
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		a.cfg, err = config.LoadFromFile(configFile)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
		a.cfg.Client.BaseURL = baseURL
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		a.cfg.Log.Level = level
	}

	level, err := logger.ParseLevel(a.cfg.Log.Level)
	if err != nil {
		return err
	}

	if a.cfg.Log.Development {
		a.logger = logger.NewDevelopmentLogger(cmd.ErrOrStderr(), level)
	} else {
		a.logger = logger.NewJSONLogger(cmd.ErrOrStderr(), level)
	}
	logger.SetDefaultLogger(a.logger)

	a.registry = prometheus.NewRegistry()
	a.client = api.NewConverterAPIClient(a.cfg.Client.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: a.cfg.Client.Timeout}),
		api.WithLogger(a.logger.WithField("component", "converter-client")),
		api.WithRetries(a.cfg.Client.MaxRetries, a.cfg.Client.RetryBackoff),
		api.WithMetrics(api.NewMetrics(a.registry)),
	)

	a.logger.Debug("Client configured", map[string]interface{}{
		"base_url":    a.client.BaseURL(),
		"timeout":     a.cfg.Client.Timeout.String(),
		"max_retries": a.cfg.Client.MaxRetries,
	})

	return nil
}

// teardown logs the request totals gathered during the run
func (a *app) teardown() {
	if a.logger == nil {
		return
	}
	defer a.logger.Sync() //nolint:errcheck

	families, err := a.registry.Gather()
	if err != nil {
		a.logger.Warn("Failed to gather client metrics", map[string]interface{}{"error": err.Error()})
		return
	}

	for _, family := range families {
		if family.GetName() != "converter_client_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			fields := map[string]interface{}{"count": metric.GetCounter().GetValue()}
			for _, label := range metric.GetLabel() {
				fields[label.GetName()] = label.GetValue()
			}
			a.logger.Debug("Client requests", fields)
		}
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Skip config loading
		PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "converter-client %s (commit %s)\n", version, commit)
		},
	}
}
