package entity

// ConversionRequest is the payload sent to the conversion endpoint
type ConversionRequest struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

// ConversionResult represents a conversion as reported by the server
type ConversionResult struct {
	OriginalAmount  float64   `json:"originalAmount"`
	ConvertedAmount float64   `json:"convertedAmount"`
	ExchangeRate    float64   `json:"exchangeRate"`
	FromCurrency    string    `json:"fromCurrency"`
	ToCurrency      string    `json:"toCurrency"`
	Timestamp       Timestamp `json:"timestamp"`
}

// CurrencyList is the body returned by the currency-listing endpoint
type CurrencyList struct {
	Currencies []string `json:"currencies"`
}

// ErrorPayload is the error body returned by the service on failure
type ErrorPayload struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
