// internal/infrastructure/api/converter_api_integration_test.go
package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damon-houk/currency-converter-client/internal/infrastructure/api"
	"github.com/damon-houk/currency-converter-client/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter-client/internal/infrastructure/stubserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStub(t *testing.T) *api.ConverterAPIClient {
	t.Helper()
	log := logger.NewJSONLogger(io.Discard, logger.ErrorLevel)
	server := httptest.NewServer(stubserver.NewRouter(stubserver.NewHandler(stubserver.NewRateTable(), log)))
	t.Cleanup(server.Close)
	return api.NewConverterAPIClient(server.URL, api.WithLogger(log))
}

func TestConverterRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client := setupStub(t)
	ctx := context.Background()

	currencies, err := client.ListCurrencies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}, currencies)

	// Default USD->EUR rate is 0.85
	result, err := client.Convert(ctx, 100, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.OriginalAmount)
	assert.InDelta(t, 85.0, result.ConvertedAmount, 1e-9)
	assert.Equal(t, 0.85, result.ExchangeRate)
	assert.False(t, result.Timestamp.IsZero())

	// Same currency keeps the amount
	result, err = client.Convert(ctx, 73.2, "CAD", "CAD")
	require.NoError(t, err)
	assert.Equal(t, 73.2, result.ConvertedAmount)
	assert.Equal(t, 1.0, result.ExchangeRate)

	// Override and convert again
	require.NoError(t, client.SetRate(ctx, "USD", "EUR", 0.90))
	result, err = client.Convert(ctx, 100, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 0.9, result.ExchangeRate)
	assert.InDelta(t, 90.0, result.ConvertedAmount, 1e-9)

	// Reset restores the default
	require.NoError(t, client.ResetRates(ctx))
	result, err = client.Convert(ctx, 100, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 0.85, result.ExchangeRate)
}

func TestConverterRoundTripErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client := setupStub(t)
	ctx := context.Background()

	_, err := client.Convert(ctx, 0, "USD", "EUR")
	var convErr *api.ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, http.StatusBadRequest, convErr.StatusCode)
	assert.Equal(t, stubserver.CodeInvalidAmount, convErr.Payload.Code)

	_, err = client.Convert(ctx, 10, "USD", "XYZ")
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, stubserver.CodeRateNotFound, convErr.Payload.Code)
	assert.Contains(t, err.Error(), "exchange rate not found for USD to XYZ")

	err = client.SetRate(ctx, "USD", "EUR", 0)
	var rateErr *api.RateUpdateError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, stubserver.CodeInvalidRate, rateErr.Payload.Code)
}
