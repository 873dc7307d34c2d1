package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/damon-houk/currency-converter-client/internal/domain/entity"
	"github.com/damon-houk/currency-converter-client/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter-client/internal/infrastructure/middleware"
)

const (
	// DefaultBaseURL is the local address the converter service listens on
	DefaultBaseURL = "http://localhost:8080"

	convertPath    = "/convert"
	currenciesPath = "/currencies"
	ratesPath      = "/rates"

	defaultTimeout = 10 * time.Second
)

// Operation names a client call in logs and metrics
type Operation string

const (
	OpConvert        Operation = "convert"
	OpListCurrencies Operation = "list_currencies"
	OpSetRate        Operation = "set_rate"
	OpResetRates     Operation = "reset_rates"
)

// ConverterAPIClient talks to the currency converter service over HTTP
type ConverterAPIClient struct {
	baseURL      string
	httpClient   *http.Client
	logger       logger.Logger
	metrics      *Metrics
	maxRetries   int
	retryBackoff time.Duration
}

// Option configures a ConverterAPIClient
type Option func(*ConverterAPIClient)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *ConverterAPIClient) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(log logger.Logger) Option {
	return func(c *ConverterAPIClient) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithMetrics enables request metrics
func WithMetrics(m *Metrics) Option {
	return func(c *ConverterAPIClient) {
		c.metrics = m
	}
}

// WithRetries retries transport failures up to maxRetries times.
// The wait before retry n is n*n*backoff. HTTP error statuses are never retried.
func WithRetries(maxRetries int, backoff time.Duration) Option {
	return func(c *ConverterAPIClient) {
		if maxRetries < 0 {
			maxRetries = 0
		}
		c.maxRetries = maxRetries
		c.retryBackoff = backoff
	}
}

// NewConverterAPIClient creates a new converter service client
func NewConverterAPIClient(baseURL string, opts ...Option) *ConverterAPIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &ConverterAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:       logger.GetDefaultLogger(),
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the root address all endpoint paths are resolved against
func (c *ConverterAPIClient) BaseURL() string {
	return c.baseURL
}

// Convert converts an amount between two currencies
func (c *ConverterAPIClient) Convert(ctx context.Context, amount float64, from, to string) (*entity.ConversionResult, error) {
	payload := entity.ConversionRequest{
		Amount: amount,
		From:   from,
		To:     to,
	}

	status, body, err := c.do(ctx, OpConvert, http.MethodPost, convertPath, payload)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, &ConversionError{StatusError: newStatusError(status, body)}
	}

	var result *entity.ConversionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode conversion response: %w", err)
	}

	if result == nil {
		return nil, fmt.Errorf("%w: empty conversion result", ErrUnexpectedResponse)
	}

	return result, nil
}

// ListCurrencies returns the currency codes supported by the service
func (c *ConverterAPIClient) ListCurrencies(ctx context.Context) ([]string, error) {
	status, body, err := c.do(ctx, OpListCurrencies, http.MethodGet, currenciesPath, nil)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, &CurrencyListError{StatusError: newStatusError(status, body)}
	}

	var list entity.CurrencyList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode currencies response: %w", err)
	}

	if list.Currencies == nil {
		return nil, fmt.Errorf("%w: missing currencies field", ErrUnexpectedResponse)
	}

	return list.Currencies, nil
}

// SetRate overrides the exchange rate for a currency pair
func (c *ConverterAPIClient) SetRate(ctx context.Context, from, to string, rate float64) error {
	payload := entity.RateOverride{
		From: from,
		To:   to,
		Rate: rate,
	}

	status, body, err := c.do(ctx, OpSetRate, http.MethodPost, ratesPath, payload)
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return &RateUpdateError{StatusError: newStatusError(status, body)}
	}

	return nil
}

// ResetRates restores the service's default exchange rates
func (c *ConverterAPIClient) ResetRates(ctx context.Context) error {
	status, body, err := c.do(ctx, OpResetRates, http.MethodDelete, ratesPath, nil)
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return &RateUpdateError{StatusError: newStatusError(status, body)}
	}

	return nil
}

// do sends one logical request and returns the final status code and body
func (c *ConverterAPIClient) do(ctx context.Context, op Operation, method, path string, payload interface{}) (int, []byte, error) {
	var encoded []byte
	if payload != nil {
		var err error
		encoded, err = json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
	}

	ctx, requestID := middleware.EnsureRequestID(ctx)
	reqURL := c.baseURL + path
	log := c.logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"operation":  string(op),
	})

	log.Debug("Sending request", map[string]interface{}{
		"method": method,
		"url":    reqURL,
	})

	start := time.Now()
	attempts := c.maxRetries + 1

	var (
		resp *http.Response
		err  error
	)

	for attempt := 1; attempt <= attempts; attempt++ {
		var req *http.Request
		req, err = c.newRequest(ctx, method, reqURL, encoded, requestID)
		if err != nil {
			return 0, nil, err
		}

		resp, err = c.httpClient.Do(req)
		if err == nil {
			break
		}

		if ctx.Err() != nil || attempt == attempts {
			break
		}

		backoff := time.Duration(attempt*attempt) * c.retryBackoff
		log.Warn("Request failed, retrying", map[string]interface{}{
			"attempt":    attempt,
			"max":        attempts,
			"backoff_ms": backoff.Milliseconds(),
			"error":      err.Error(),
		})

		select {
		case <-ctx.Done():
			c.metrics.observe(op, "error", time.Since(start))
			return 0, nil, fmt.Errorf("%s request cancelled: %w", op, ctx.Err())
		case <-time.After(backoff):
		}
	}

	if err != nil {
		c.metrics.observe(op, "error", time.Since(start))
		log.Error("Request failed", map[string]interface{}{
			"error": err.Error(),
		})
		return 0, nil, fmt.Errorf("failed to execute %s request: %w", op, err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(resp.Body)
	c.metrics.observe(op, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read %s response body: %w", op, err)
	}

	fields := map[string]interface{}{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if resp.StatusCode != http.StatusOK {
		fields["body"] = string(body)
		log.Warn("Service returned error status", fields)
	} else {
		log.Debug("Received response", fields)
	}

	return resp.StatusCode, body, nil
}

func (c *ConverterAPIClient) newRequest(ctx context.Context, method, reqURL string, body []byte, requestID string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
