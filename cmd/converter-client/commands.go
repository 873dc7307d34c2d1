package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/damon-houk/currency-converter-client/internal/application/service"
	"github.com/damon-houk/currency-converter-client/internal/infrastructure/stubserver"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func (a *app) runDemo(cmd *cobra.Command) error {
	demo := service.NewDemoService(a.client, cmd.OutOrStdout(), a.logger)
	return demo.Run(cmd.Context())
}

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the conversion walkthrough against the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDemo(cmd)
		},
	}
}

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "convert <amount> <from> <to>",
		Short:   "Convert an amount between two currencies",
		Example: "  converter-client convert 100 USD EUR",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			result, err := a.client.Convert(cmd.Context(), amount, args[1], args[2])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %.2f %s (rate %s)\n",
				strconv.FormatFloat(result.OriginalAmount, 'f', -1, 64), result.FromCurrency,
				result.ConvertedAmount, result.ToCurrency,
				strconv.FormatFloat(result.ExchangeRate, 'f', -1, 64))
			return nil
		},
	}
}

func newCurrenciesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List the supported currency codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			currencies, err := a.client.ListCurrencies(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(currencies, "\n"))
			return nil
		},
	}
}

func newSetRateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "set-rate <from> <to> <rate>",
		Short:   "Override the exchange rate for a currency pair",
		Example: "  converter-client set-rate USD EUR 0.90",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", args[2], err)
			}

			if err := a.client.SetRate(cmd.Context(), args[0], args[1], rate); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rate %s->%s set to %s\n", args[0], args[1], args[2])
			return nil
		},
	}
}

func newResetRatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-rates",
		Short: "Restore the service's default exchange rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.ResetRates(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Exchange rates reset to defaults")
			return nil
		},
	}
}

func newStubServerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub-server",
		Short: "Serve a local stand-in for the converter service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := a.cfg.StubServer.Addr
			if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
				addr = flagAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.serveStub(ctx, addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides STUB_SERVER_ADDR)")
	return cmd
}

func (a *app) serveStub(ctx context.Context, addr string) error {
	log := a.logger.WithField("component", "stub-server")

	router := stubserver.NewRouter(stubserver.NewHandler(stubserver.NewRateTable(), log))
	router.Use(stubserver.NewMetrics(a.registry).Middleware)
	router.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Stub server listening", map[string]interface{}{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stub server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Gracefully shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stub server shutdown: %w", err)
	}

	log.Info("Stub server stopped", nil)
	return nil
}
