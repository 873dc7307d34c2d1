package stubserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/damon-houk/currency-converter-client/internal/domain/entity"
	"github.com/damon-houk/currency-converter-client/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *RateTable) {
	t.Helper()
	var buf bytes.Buffer
	rates := NewRateTable()
	h := NewHandler(rates, logger.NewJSONLogger(&buf, logger.ErrorLevel))
	h.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return NewRouter(h), rates
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) entity.ErrorPayload {
	t.Helper()
	var payload entity.ErrorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func TestConvertHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("Successful conversion", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/convert", `{"amount":100,"from":"usd","to":"EUR"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

		var result entity.ConversionResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 100.0, result.OriginalAmount)
		assert.InDelta(t, 85.0, result.ConvertedAmount, 1e-9)
		assert.Equal(t, 0.85, result.ExchangeRate)
		assert.Equal(t, "USD", result.FromCurrency)
		assert.Equal(t, "EUR", result.ToCurrency)
		assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), result.Timestamp.Time)
	})

	t.Run("Same currency", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/convert", `{"amount":42.5,"from":"JPY","to":"jpy"}`)

		assert.Equal(t, http.StatusOK, w.Code)

		var result entity.ConversionResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 42.5, result.ConvertedAmount)
		assert.Equal(t, 1.0, result.ExchangeRate)
	})

	t.Run("Invalid amount", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/convert", `{"amount":0,"from":"USD","to":"EUR"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeInvalidAmount, decodeError(t, w).Code)
	})

	t.Run("Unknown pair", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/convert", `{"amount":10,"from":"USD","to":"CHF"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		payload := decodeError(t, w)
		assert.Equal(t, CodeRateNotFound, payload.Code)
		assert.Equal(t, "exchange rate not found for USD to CHF", payload.Error)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/convert", `{"amount":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeInvalidJSON, decodeError(t, w).Code)
	})

	t.Run("Wrong method", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/convert", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestCurrenciesHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, http.MethodGet, "/currencies", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"currencies":["USD","EUR","GBP","JPY","CAD","AUD"]}`, w.Body.String())
}

func TestRatesHandlers(t *testing.T) {
	router, rates := newTestRouter(t)

	t.Run("Set rate", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/rates", `{"from":"usd","to":"eur","rate":0.9}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"success"}`, w.Body.String())

		rate, ok := rates.Get("USD", "EUR")
		assert.True(t, ok)
		assert.Equal(t, 0.9, rate)
	})

	t.Run("Converted amount follows the override", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/convert", `{"amount":100,"from":"USD","to":"EUR"}`)

		var result entity.ConversionResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 0.9, result.ExchangeRate)
		assert.InDelta(t, 90.0, result.ConvertedAmount, 1e-9)
	})

	t.Run("Invalid rate", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/rates", `{"from":"USD","to":"EUR","rate":-1}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeInvalidRate, decodeError(t, w).Code)
	})

	t.Run("Reset rates", func(t *testing.T) {
		w := serve(router, http.MethodDelete, "/rates", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"rates reset"}`, w.Body.String())

		rate, _ := rates.Get("USD", "EUR")
		assert.Equal(t, 0.85, rate)
	})
}
