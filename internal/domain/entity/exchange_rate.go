package entity

// RateOverride replaces the server's rate for a currency pair
type RateOverride struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
}
