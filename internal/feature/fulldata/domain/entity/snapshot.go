// Package entity はfulldata機能のドメインエンティティを定義します。
package entity

import (
	"time"

	"github.com/shopspring/decimal"

	pricesentity "stocks_bot/internal/feature/prices/domain/entity"
)

// Direction は当日の値動きの向きです。
type Direction string

const (
	DirectionUp      Direction = "up"      // 終値 >= 始値
	DirectionDown    Direction = "down"    // 終値 < 始値
	DirectionUnknown Direction = "unknown" // 始値が0以下で計算不能
)

// Snapshot は直近の取引日の価格と銘柄情報をまとめたものです。
type Snapshot struct {
	Ticker       string                      `json:"ticker"`
	Quote        pricesentity.Bar            `json:"-"`
	Date         time.Time                   `json:"date"`
	Open         decimal.Decimal             `json:"open"`
	High         decimal.Decimal             `json:"high"`
	Low          decimal.Decimal             `json:"low"`
	Close        decimal.Decimal             `json:"close"`
	Volume       decimal.Decimal             `json:"volume"`
	Change       decimal.Decimal             `json:"change"`         // 終値 - 始値
	ChangePct    decimal.Decimal             `json:"change_pct"`     // (終値 - 始値) / 始値 * 100
	Range        decimal.Decimal             `json:"range"`          // 高値 - 安値
	RangePct     decimal.Decimal             `json:"range_pct"`      // (高値 - 安値) / 安値 * 100
	Direction    Direction                   `json:"direction"`
	Details      *pricesentity.TickerDetails `json:"details,omitempty"` // 取得できなかった場合は nil
}
