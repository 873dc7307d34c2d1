package service

import (
	"context"

	"github.com/damon-houk/currency-converter-client/internal/domain/entity"
)

// ConverterAPI defines the operations offered by the currency converter service
type ConverterAPI interface {
	// Convert converts an amount from one currency to another
	Convert(ctx context.Context, amount float64, from, to string) (*entity.ConversionResult, error)

	// ListCurrencies returns the currency codes the service supports
	ListCurrencies(ctx context.Context) ([]string, error)

	// SetRate overrides the exchange rate for a currency pair
	SetRate(ctx context.Context, from, to string, rate float64) error

	// ResetRates restores the service's default exchange rates
	ResetRates(ctx context.Context) error
}
