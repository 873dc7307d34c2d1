package stubserver

import (
	"strings"
	"sync"
)

// defaultRates are the rates the converter service starts with
var defaultRates = map[string]map[string]float64{
	"USD": {"EUR": 0.85, "GBP": 0.73, "JPY": 110.0, "CAD": 1.25, "AUD": 1.35},
	"EUR": {"USD": 1.18, "GBP": 0.86, "JPY": 129.5, "CAD": 1.47, "AUD": 1.59},
	"GBP": {"USD": 1.37, "EUR": 1.16, "JPY": 150.5, "CAD": 1.71, "AUD": 1.85},
	"JPY": {"USD": 0.0091, "EUR": 0.0077, "GBP": 0.0066, "CAD": 0.0114, "AUD": 0.0123},
	"CAD": {"USD": 0.80, "EUR": 0.68, "GBP": 0.58, "JPY": 88.0, "AUD": 1.08},
	"AUD": {"USD": 0.74, "EUR": 0.63, "GBP": 0.54, "JPY": 81.3, "CAD": 0.93},
}

// supportedCurrencies is the fixed order the service lists currencies in
var supportedCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}

// RateTable is a thread-safe table of exchange rates keyed by currency pair
type RateTable struct {
	rates map[string]float64
	mutex sync.RWMutex
}

// NewRateTable creates a rate table loaded with the default rates
func NewRateTable() *RateTable {
	t := &RateTable{}
	t.Reset()
	return t
}

// pairKey creates a table key from a currency pair
func pairKey(from, to string) string {
	return strings.ToUpper(from) + ":" + strings.ToUpper(to)
}

// Get returns the rate for a pair and whether it exists
func (t *RateTable) Get(from, to string) (float64, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	rate, ok := t.rates[pairKey(from, to)]
	return rate, ok
}

// Set stores a rate for a pair, replacing any existing one
func (t *RateTable) Set(from, to string, rate float64) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.rates[pairKey(from, to)] = rate
}

// Reset restores the default rates, dropping every override
func (t *RateTable) Reset() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.rates = make(map[string]float64)
	for from, targets := range defaultRates {
		for to, rate := range targets {
			t.rates[pairKey(from, to)] = rate
		}
	}
}

// Size returns the number of pairs in the table
func (t *RateTable) Size() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return len(t.rates)
}

// SupportedCurrencies returns the currency codes the service advertises
func SupportedCurrencies() []string {
	out := make([]string, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}
