package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/damon-houk/currency-converter-client/internal/domain/entity"
)

// ErrUnexpectedResponse is returned when a successful response does not have the expected shape
var ErrUnexpectedResponse = errors.New("unexpected response from converter service")

// StatusError carries a non-success HTTP status and the service's error payload
type StatusError struct {
	StatusCode int
	Payload    entity.ErrorPayload
}

func newStatusError(status int, body []byte) StatusError {
	var payload entity.ErrorPayload
	if err := json.Unmarshal(body, &payload); err != nil || (payload.Error == "" && payload.Code == "") {
		// Not a JSON error body, keep whatever text the service sent
		payload = entity.ErrorPayload{Error: strings.TrimSpace(string(body))}
	}
	if payload.Error == "" {
		payload.Error = http.StatusText(status)
	}

	return StatusError{StatusCode: status, Payload: payload}
}

func (e StatusError) describe() string {
	msg := fmt.Sprintf("status %d: %s", e.StatusCode, e.Payload.Error)
	if e.Payload.Code != "" {
		msg += fmt.Sprintf(" (code %s)", e.Payload.Code)
	}
	return msg
}

// ConversionError is returned when the conversion endpoint rejects a request
type ConversionError struct {
	StatusError
}

func (e *ConversionError) Error() string {
	return "conversion failed: " + e.describe()
}

// CurrencyListError is returned when the currency-listing endpoint fails
type CurrencyListError struct {
	StatusError
}

func (e *CurrencyListError) Error() string {
	return "failed to get currencies: " + e.describe()
}

// RateUpdateError is returned when the rate-configuration endpoint rejects a change
type RateUpdateError struct {
	StatusError
}

func (e *RateUpdateError) Error() string {
	return "failed to update rate: " + e.describe()
}
