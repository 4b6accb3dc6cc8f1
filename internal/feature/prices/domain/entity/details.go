package entity

import "time"

// TickerDetails は銘柄のメタデータ（取引所・通貨・会社名）です。
type TickerDetails struct {
	Ticker          string `json:"ticker"`
	Name            string `json:"name"`
	Market          string `json:"market"`
	Locale          string `json:"locale"`
	PrimaryExchange string `json:"primary_exchange"`
	CurrencyName    string `json:"currency_name"`
}

// Source は価格系列の取得元です。
type Source string

const (
	SourceCache    Source = "cache"
	SourceUpstream Source = "upstream"
)

// FetchEvent は過去価格リクエスト1件の結果を表す監査イベントです。
type FetchEvent struct {
	Ticker     string    `json:"ticker"`
	Multiplier int       `json:"multiplier"`
	Timespan   string    `json:"timespan"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Source     Source    `json:"source,omitempty"`
	Bars       int       `json:"bars"`
	Outcome    string    `json:"outcome"` // ok / no_data / rate_limited / upstream_error
	Duration   int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}
