// Package service internal/application/service/demo_service.go
package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	domain "github.com/damon-houk/currency-converter-client/internal/domain/service"
	"github.com/damon-houk/currency-converter-client/internal/infrastructure/logger"
	"github.com/fatih/color"
)

// DemoService walks through the converter operations and prints the results
type DemoService struct {
	api     domain.ConverterAPI
	out     io.Writer
	logger  logger.Logger
	title   *color.Color
	heading *color.Color
}

// NewDemoService creates a demo that writes its narrative to out
func NewDemoService(api domain.ConverterAPI, out io.Writer, log logger.Logger) *DemoService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &DemoService{
		api:     api,
		out:     out,
		logger:  log,
		title:   color.New(color.FgCyan, color.Bold),
		heading: color.New(color.FgYellow),
	}
}

// Run executes the demo and stops at the first failure
func (d *DemoService) Run(ctx context.Context) error {
	d.title.Fprintln(d.out, "=== Currency Converter Client ===")

	d.step(1, "Supported currencies:")
	currencies, err := d.api.ListCurrencies(ctx)
	if err != nil {
		return d.fail("list currencies", err)
	}
	fmt.Fprintln(d.out, strings.Join(currencies, ", "))

	d.step(2, "Convert $100 USD to EUR:")
	result, err := d.api.Convert(ctx, 100, "USD", "EUR")
	if err != nil {
		return d.fail("convert USD to EUR", err)
	}
	fmt.Fprintf(d.out, "$%s USD = €%.2f EUR\n", formatAmount(result.OriginalAmount), result.ConvertedAmount)
	fmt.Fprintf(d.out, "Exchange rate: %s\n", formatAmount(result.ExchangeRate))

	d.step(3, "Convert €50 EUR to JPY:")
	result, err = d.api.Convert(ctx, 50, "EUR", "JPY")
	if err != nil {
		return d.fail("convert EUR to JPY", err)
	}
	fmt.Fprintf(d.out, "€%s EUR = ¥%.2f JPY\n", formatAmount(result.OriginalAmount), result.ConvertedAmount)

	d.step(4, "Set custom USD->EUR rate to 0.90:")
	if err := d.api.SetRate(ctx, "USD", "EUR", 0.90); err != nil {
		return d.fail("set USD to EUR rate", err)
	}

	d.step(5, "Convert $100 USD to EUR with custom rate:")
	result, err = d.api.Convert(ctx, 100, "USD", "EUR")
	if err != nil {
		return d.fail("convert USD to EUR with custom rate", err)
	}
	fmt.Fprintf(d.out, "$%s USD = €%.2f EUR\n", formatAmount(result.OriginalAmount), result.ConvertedAmount)
	fmt.Fprintf(d.out, "Custom exchange rate: %s\n", formatAmount(result.ExchangeRate))

	d.logger.Debug("Demo completed", nil)
	return nil
}

func (d *DemoService) step(n int, title string) {
	fmt.Fprintln(d.out)
	d.heading.Fprintf(d.out, "%d. %s\n", n, title)
}

func (d *DemoService) fail(action string, err error) error {
	d.logger.Error("Demo step failed", map[string]interface{}{
		"action": action,
		"error":  err.Error(),
	})
	return fmt.Errorf("%s: %w", action, err)
}

// formatAmount prints a number the way it arrived, without padding
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
