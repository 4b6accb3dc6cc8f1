package dto

// BarResponse は1本分の足のレスポンスDTOです。
type BarResponse struct {
	Time   string  `json:"time"`   // RFC3339（America/New_York）
	Open   float64 `json:"open"`   // 始値
	High   float64 `json:"high"`   // 高値
	Low    float64 `json:"low"`    // 安値
	Close  float64 `json:"close"`  // 終値
	Volume float64 `json:"volume"` // 出来高
}

// SeriesResponse は過去価格クエリのレスポンスDTOです。
type SeriesResponse struct {
	Ticker     string        `json:"ticker"`
	Multiplier int           `json:"multiplier"`
	Timespan   string        `json:"timespan"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	Source     string        `json:"source"` // cache | upstream
	Bars       []BarResponse `json:"bars"`
}

// ErrorResponse はエラー時の共通レスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}
