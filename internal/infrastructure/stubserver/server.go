// Package stubserver serves a local stand-in for the currency converter service
package stubserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/damon-houk/currency-converter-client/internal/domain/entity"
	"github.com/damon-houk/currency-converter-client/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter-client/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// Error codes reported in the error payload
const (
	CodeInvalidJSON   = "INVALID_JSON"
	CodeInvalidAmount = "INVALID_AMOUNT"
	CodeInvalidRate   = "INVALID_RATE"
	CodeRateNotFound  = "RATE_NOT_FOUND"
)

// Handler serves the converter endpoints from a rate table
type Handler struct {
	rates  *RateTable
	logger logger.Logger
	now    func() time.Time
}

// NewHandler creates a handler backed by rates
func NewHandler(rates *RateTable, log logger.Logger) *Handler {
	if rates == nil {
		rates = NewRateTable()
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &Handler{
		rates:  rates,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NewRouter builds the router with request-ID and logging middleware applied
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(h.logger))
	h.RegisterRoutes(router)
	return router
}

// RegisterRoutes registers the converter routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/convert", h.Convert).Methods(http.MethodPost)
	router.HandleFunc("/currencies", h.Currencies).Methods(http.MethodGet)
	router.HandleFunc("/rates", h.SetRate).Methods(http.MethodPost)
	router.HandleFunc("/rates", h.ResetRates).Methods(http.MethodDelete)

	h.logger.Debug("Converter routes registered", map[string]interface{}{
		"routes": []string{
			"POST /convert",
			"GET /currencies",
			"POST /rates",
			"DELETE /rates",
		},
	})
}

// Convert handles POST /convert
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req entity.ConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON format", requestID)
		return
	}

	if req.Amount <= 0 {
		h.writeError(w, http.StatusBadRequest, CodeInvalidAmount, "Amount must be greater than zero", requestID)
		return
	}

	from := strings.ToUpper(req.From)
	to := strings.ToUpper(req.To)

	rate := 1.0
	if from != to {
		var ok bool
		rate, ok = h.rates.Get(from, to)
		if !ok {
			h.writeError(w, http.StatusBadRequest, CodeRateNotFound,
				fmt.Sprintf("exchange rate not found for %s to %s", from, to), requestID)
			return
		}
	}

	h.logger.Info("Conversion completed", map[string]interface{}{
		"request_id":    requestID,
		"from":          from,
		"to":            to,
		"amount":        req.Amount,
		"exchange_rate": rate,
	})

	h.writeJSON(w, http.StatusOK, entity.ConversionResult{
		OriginalAmount:  req.Amount,
		ConvertedAmount: req.Amount * rate,
		ExchangeRate:    rate,
		FromCurrency:    from,
		ToCurrency:      to,
		Timestamp:       entity.NewTimestamp(h.now()),
	})
}

// Currencies handles GET /currencies
func (h *Handler) Currencies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, entity.CurrencyList{Currencies: SupportedCurrencies()})
}

// SetRate handles POST /rates
func (h *Handler) SetRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req entity.RateOverride
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON format", requestID)
		return
	}

	if req.Rate <= 0 {
		h.writeError(w, http.StatusBadRequest, CodeInvalidRate, "exchange rate must be greater than zero", requestID)
		return
	}

	h.rates.Set(req.From, req.To, req.Rate)

	h.logger.Info("Exchange rate overridden", map[string]interface{}{
		"request_id": requestID,
		"from":       strings.ToUpper(req.From),
		"to":         strings.ToUpper(req.To),
		"rate":       req.Rate,
	})

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// ResetRates handles DELETE /rates
func (h *Handler) ResetRates(w http.ResponseWriter, r *http.Request) {
	h.rates.Reset()

	h.logger.Info("Exchange rates reset", map[string]interface{}{
		"request_id": middleware.GetRequestID(r.Context()),
		"pairs":      h.rates.Size(),
	})

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "rates reset"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, requestID string) {
	h.logger.Warn("Rejecting request", map[string]interface{}{
		"request_id": requestID,
		"status":     status,
		"code":       code,
		"error":      message,
	})

	h.writeJSON(w, status, entity.ErrorPayload{
		Error: message,
		Code:  code,
	})
}
