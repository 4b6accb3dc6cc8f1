// Package entity はsma機能のドメインエンティティを定義します。
package entity

import "time"

// Trend は SMA50 と SMA200 の位置関係から判定したトレンドです。
type Trend string

const (
	TrendBullish   Trend = "bullish"   // SMA50 > SMA200
	TrendBearish   Trend = "bearish"   // SMA50 < SMA200
	TrendCrossover Trend = "crossover" // SMA50 = SMA200
)

// Analysis は移動平均線分析の結果です。
type Analysis struct {
	Ticker        string    `json:"ticker"`
	CurrentPrice  float64   `json:"current_price"`
	FirstDate     time.Time `json:"first_date"`
	LastDate      time.Time `json:"last_date"`
	SMA50         float64   `json:"sma_50"`
	SMA200        float64   `json:"sma_200"`
	PriceVsSMA50  float64   `json:"price_vs_sma_50"`  // 現在値のSMA50に対する乖離率（%）
	PriceVsSMA200 float64   `json:"price_vs_sma_200"` // 現在値のSMA200に対する乖離率（%）
	Trend         Trend     `json:"trend"`
	TotalDays     int       `json:"total_days"`
}
