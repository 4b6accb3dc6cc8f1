// Package dto holds the wire shapes of the Polygon.io REST API.
package dto

// AggregatesResponse is the body of GET /v2/aggs/ticker/{ticker}/range/...
type AggregatesResponse struct {
	Ticker       string         `json:"ticker"`
	Status       string         `json:"status"`
	RequestID    string         `json:"request_id"`
	ResultsCount int            `json:"resultsCount"`
	Adjusted     bool           `json:"adjusted"`
	Results      []AggregateBar `json:"results"`
	Error        string         `json:"error,omitempty"`
	Message      string         `json:"message,omitempty"`
}

// AggregateBar is one OHLCV entry. T is the bar open time in epoch milliseconds.
type AggregateBar struct {
	T  int64   `json:"t"`
	O  float64 `json:"o"`
	H  float64 `json:"h"`
	L  float64 `json:"l"`
	C  float64 `json:"c"`
	V  float64 `json:"v"`
	VW float64 `json:"vw,omitempty"`
	N  int64   `json:"n,omitempty"`
}

// TickerDetailsResponse is the body of GET /v3/reference/tickers/{ticker}.
type TickerDetailsResponse struct {
	Status    string        `json:"status"`
	RequestID string        `json:"request_id"`
	Results   *TickerResult `json:"results"`
	Message   string        `json:"message,omitempty"`
}

// TickerResult carries the subset of reference data the bot displays.
type TickerResult struct {
	Ticker          string `json:"ticker"`
	Name            string `json:"name"`
	Market          string `json:"market"`
	Locale          string `json:"locale"`
	PrimaryExchange string `json:"primary_exchange"`
	CurrencyName    string `json:"currency_name"`
}
