package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"stocks_bot/internal/feature/prices/domain"
)

// DateLayout はユーザー入力・キャッシュキーで使う日付書式です。
const DateLayout = "2006-01-02"

// MaxTickerLength はティッカーの最大文字数です。
const MaxTickerLength = 10

// Timespan は足の粒度の単位です。
type Timespan string

const (
	TimespanDay     Timespan = "day"
	TimespanWeek    Timespan = "week"
	TimespanMonth   Timespan = "month"
	TimespanQuarter Timespan = "quarter"
	TimespanYear    Timespan = "year"
)

// Timespans は受け付ける粒度の一覧です（キーボード表示順）。
var Timespans = []Timespan{TimespanDay, TimespanWeek, TimespanMonth, TimespanQuarter, TimespanYear}

// ParseTimespan は小文字の粒度文字列を検証します。大文字は受け付けません。
func ParseTimespan(s string) (Timespan, error) {
	for _, ts := range Timespans {
		if string(ts) == s {
			return ts, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidTimespan, s)
}

// ChartType はチャートの描画形式です。
type ChartType string

const (
	ChartCandle ChartType = "candle"
	ChartLine   ChartType = "line"
)

// ParseChartType は描画形式を検証します。
func ParseChartType(s string) (ChartType, error) {
	switch ChartType(s) {
	case ChartCandle, ChartLine:
		return ChartType(s), nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedChartType, s)
}

// ValidateTicker は 1〜10 文字の英大文字のみで構成されているかを検証します。
func ValidateTicker(s string) error {
	if len(s) == 0 || len(s) > MaxTickerLength {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTicker, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return fmt.Errorf("%w: %q", domain.ErrInvalidTicker, s)
		}
	}
	return nil
}

// ParseDate は YYYY-MM-DD 形式の日付をUTCの0時として解釈します。
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
	}
	return t, nil
}

// ParseMultiplier は正の整数を検証します。
func ParseMultiplier(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidMultiplier, s)
	}
	return n, nil
}

// QueryKey は過去価格クエリの識別子です。5項目すべてが一致した場合のみ同一とみなします。
type QueryKey struct {
	Ticker     string
	Multiplier int
	Timespan   Timespan
	From       time.Time // 開始日（含む）
	To         time.Time // 終了日（含む）
}

// NewQueryKey は入力値を検証して QueryKey を生成します。
func NewQueryKey(ticker string, multiplier int, timespan, from, to string) (QueryKey, error) {
	if err := ValidateTicker(ticker); err != nil {
		return QueryKey{}, err
	}
	if multiplier <= 0 {
		return QueryKey{}, fmt.Errorf("%w: %d", domain.ErrInvalidMultiplier, multiplier)
	}
	ts, err := ParseTimespan(timespan)
	if err != nil {
		return QueryKey{}, err
	}
	f, err := ParseDate(from)
	if err != nil {
		return QueryKey{}, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return QueryKey{}, err
	}
	if f.After(t) {
		return QueryKey{}, fmt.Errorf("%w: %s > %s", domain.ErrInvalidRange, from, to)
	}
	return QueryKey{Ticker: ticker, Multiplier: multiplier, Timespan: ts, From: f, To: t}, nil
}

// FromDate は開始日を YYYY-MM-DD で返します。
func (k QueryKey) FromDate() string { return k.From.Format(DateLayout) }

// ToDate は終了日を YYYY-MM-DD で返します。
func (k QueryKey) ToDate() string { return k.To.Format(DateLayout) }

// String はログ・重複排除用の正規化されたキー文字列を返します。
func (k QueryKey) String() string {
	return fmt.Sprintf("%s:%d:%s:%s:%s", k.Ticker, k.Multiplier, k.Timespan, k.FromDate(), k.ToDate())
}
